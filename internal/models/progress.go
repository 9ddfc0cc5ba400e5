package models

import "time"

// StudySession is one append-only study session record
type StudySession struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	DurationSeconds int       `json:"durationSeconds"`
}

// DailyStats aggregates one calendar day of study activity. Date is the
// user's local date formatted as "2006-01-02" and is unique per user.
type DailyStats struct {
	Date             string `json:"date"`
	WordsStudied     int    `json:"wordsStudied"`
	PracticeSessions int    `json:"practiceSessions"`
	CorrectAnswers   int    `json:"correctAnswers"`
	TotalAnswers     int    `json:"totalAnswers"`
	StudyTimeMinutes int    `json:"studyTimeMinutes"`
	MasteredWords    int    `json:"masteredWords"`
}

// UserProgress is the long-lived per-user aggregate the achievement
// evaluator and dashboards read from
type UserProgress struct {
	UserID                int            `json:"userId"`
	StudySessions         []StudySession `json:"studySessions"`
	DailyStats            []DailyStats   `json:"dailyStats"`
	CurrentStreak         int            `json:"currentStreak"`
	MaxStreak             int            `json:"maxStreak"`
	MasteredWordIDs       []int          `json:"masteredWordIds"`
	WeakWordIDs           []int          `json:"weakWordIds"`
	TotalStudyTimeMinutes int            `json:"totalStudyTimeMinutes"`
	TotalPoints           int            `json:"totalPoints"`
	Level                 int            `json:"level"`
	CurrentLevelExp       int            `json:"currentLevelExp"`
	NextLevelExp          int            `json:"nextLevelExp"`
	Achievements          []Achievement  `json:"achievements"`
}

// NewUserProgress returns the empty-progress initial state used both for
// new users and as the fallback when persisted progress cannot be loaded
func NewUserProgress(userID int) *UserProgress {
	return &UserProgress{
		UserID:       userID,
		Level:        1,
		NextLevelExp: 100,
	}
}

// StatsDay returns the DailyStats record for the given date, or nil
func (p *UserProgress) StatsDay(date string) *DailyStats {
	for i := range p.DailyStats {
		if p.DailyStats[i].Date == date {
			return &p.DailyStats[i]
		}
	}
	return nil
}

// HasMastered reports whether the word is in the mastered set
func (p *UserProgress) HasMastered(wordID int) bool {
	for _, id := range p.MasteredWordIDs {
		if id == wordID {
			return true
		}
	}
	return false
}

// ProgressResponse is the dashboard view of a user's progress
type ProgressResponse struct {
	CurrentStreak         int          `json:"currentStreak"`
	MaxStreak             int          `json:"maxStreak"`
	MasteredWords         int          `json:"masteredWords"`
	WeakWords             int          `json:"weakWords"`
	TotalStudyTimeMinutes int          `json:"totalStudyTimeMinutes"`
	TotalPoints           int          `json:"totalPoints"`
	Level                 int          `json:"level"`
	CurrentLevelExp       int          `json:"currentLevelExp"`
	NextLevelExp          int          `json:"nextLevelExp"`
	TotalSessions         int          `json:"totalSessions"`
	OverallAccuracy       float64      `json:"overallAccuracy"`
	DailyStats            []DailyStats `json:"dailyStats,omitempty"`
	LoadWarning           bool         `json:"loadWarning,omitempty"`
}
