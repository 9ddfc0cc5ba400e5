package models

import "time"

// BreakdownBucket holds correct/total counts for one category or
// difficulty group in a session result
type BreakdownBucket struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// SessionResult is the immutable summary of a finished practice session
type SessionResult struct {
	SessionID        string                         `json:"sessionId"`
	Score            int                            `json:"score"`
	Correct          int                            `json:"correct"`
	Total            int                            `json:"total"`
	Accuracy         float64                        `json:"accuracy"`
	TimeSpentSeconds int                            `json:"timeSpentSeconds"`
	StartedAt        time.Time                      `json:"startedAt"`
	ByCategory       map[string]BreakdownBucket     `json:"byCategory"`
	ByDifficulty     map[Difficulty]BreakdownBucket `json:"byDifficulty"`
}

// SessionState describes an in-progress session for the UI
type SessionState struct {
	SessionID            string    `json:"sessionId"`
	CurrentIndex         int       `json:"currentIndex"`
	TotalQuestions       int       `json:"totalQuestions"`
	CurrentQuestion      *Question `json:"currentQuestion,omitempty"`
	RemainingTimeSeconds int       `json:"remainingTimeSeconds"`
	Complete             bool      `json:"complete"`
}

// StartSessionRequest represents a request to start a practice session
type StartSessionRequest struct {
	Count      int            `json:"count"`
	Category   string         `json:"category,omitempty"`
	Difficulty Difficulty     `json:"difficulty,omitempty"`
	Types      []QuestionType `json:"types,omitempty"`
}

// SubmitAnswerRequest represents one answer submission
type SubmitAnswerRequest struct {
	Answer           SubmittedAnswer `json:"answer"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
}

// SubmitAnswerResponse reports the outcome of one submission
type SubmitAnswerResponse struct {
	IsCorrect     bool   `json:"isCorrect"`
	PointsAwarded int    `json:"pointsAwarded"`
	Explanation   string `json:"explanation,omitempty"`
	Complete      bool   `json:"complete"`
}

// CompleteSessionRequest represents a request to fold a session into the
// progress ledger. Mastered/weak word IDs come from the caller's own
// per-word accuracy bookkeeping.
type CompleteSessionRequest struct {
	RecordPartial   bool  `json:"recordPartial,omitempty"`
	MasteredWordIDs []int `json:"masteredWordIds,omitempty"`
	WeakWordIDs     []int `json:"weakWordIds,omitempty"`
}

// CompleteSessionResponse carries the recorded result and any newly
// unlocked achievements for UI celebration
type CompleteSessionResponse struct {
	Result           *SessionResult `json:"result"`
	NewlyUnlocked    []Achievement  `json:"newlyUnlocked"`
	CurrentStreak    int            `json:"currentStreak"`
	TotalPoints      int            `json:"totalPoints"`
	Level            int            `json:"level"`
	ProgressLoadWarn bool           `json:"progressLoadWarn,omitempty"`
}
