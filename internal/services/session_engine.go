package services

import (
	"errors"
	"time"

	"github.com/web3vocab/backend/internal/models"
)

var (
	// ErrNoQuestions is returned when a session is started with an empty question list
	ErrNoQuestions = errors.New("session requires at least one question")
	// ErrSessionComplete is returned when a submission arrives after the session finished
	ErrSessionComplete = errors.New("session is already complete")
)

// SessionEngine drives one practice session over a fixed, ordered question
// list. The index only moves forward: each question is answered exactly
// once, either by an explicit submission or by a timeout, whichever the
// caller delivers first. The engine holds no storage and can be discarded
// at any state without side effects.
type SessionEngine struct {
	id                   string
	questions            []models.Question
	answers              []models.Answer
	index                int
	startedAt            time.Time
	remainingTimeSeconds int
}

// NewSessionEngine creates an engine positioned at the first question.
// A finished or abandoned engine cannot be restarted; create a new one.
func NewSessionEngine(id string, questions []models.Question, startedAt time.Time) (*SessionEngine, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	return &SessionEngine{
		id:                   id,
		questions:            questions,
		answers:              make([]models.Answer, 0, len(questions)),
		startedAt:            startedAt,
		remainingTimeSeconds: questions[0].TimeLimitSeconds,
	}, nil
}

// ID returns the session identifier
func (e *SessionEngine) ID() string {
	return e.id
}

// StartedAt returns the session start time
func (e *SessionEngine) StartedAt() time.Time {
	return e.startedAt
}

// Questions returns the session's question list
func (e *SessionEngine) Questions() []models.Question {
	return e.questions
}

// IsComplete reports whether the index has advanced past the last question
func (e *SessionEngine) IsComplete() bool {
	return e.index >= len(e.questions)
}

// CurrentQuestion returns the question awaiting an answer, or nil once complete
func (e *SessionEngine) CurrentQuestion() *models.Question {
	if e.IsComplete() {
		return nil
	}
	return &e.questions[e.index]
}

// State returns a UI-facing snapshot of the engine
func (e *SessionEngine) State() models.SessionState {
	return models.SessionState{
		SessionID:            e.id,
		CurrentIndex:         e.index,
		TotalQuestions:       len(e.questions),
		CurrentQuestion:      e.CurrentQuestion(),
		RemainingTimeSeconds: e.remainingTimeSeconds,
		Complete:             e.IsComplete(),
	}
}

// Submit records one answer for the current question and advances the
// index by one. Correctness and points come from the answer checker;
// no partial credit. Submitting after completion returns
// ErrSessionComplete and records nothing, so a late submission for an
// index that already timed out cannot duplicate an answer.
func (e *SessionEngine) Submit(value models.SubmittedAnswer, timeSpentSeconds int) (models.Answer, error) {
	if e.IsComplete() {
		return models.Answer{}, ErrSessionComplete
	}

	question := e.questions[e.index]

	answer := models.Answer{
		QuestionID:       question.ID,
		Value:            value,
		TimeSpentSeconds: timeSpentSeconds,
	}
	if CheckAnswer(question, value) {
		answer.IsCorrect = true
		answer.PointsAwarded = question.Points
	}

	e.answers = append(e.answers, answer)
	e.index++

	if e.IsComplete() {
		e.remainingTimeSeconds = 0
	} else {
		e.remainingTimeSeconds = e.questions[e.index].TimeLimitSeconds
	}

	return answer, nil
}

// Timeout records the current question as unanswered: an empty submission
// that is always incorrect, awards zero points, and advances the index by
// exactly one. The full time limit is counted as spent.
func (e *SessionEngine) Timeout() (models.Answer, error) {
	if e.IsComplete() {
		return models.Answer{}, ErrSessionComplete
	}
	return e.Submit(models.SubmittedAnswer{}, e.questions[e.index].TimeLimitSeconds)
}

// Answers returns the answers recorded so far; its length equals the
// current index
func (e *SessionEngine) Answers() []models.Answer {
	return e.answers
}

// Result reduces the session into its immutable summary. An unanswered
// tail (a partial session the caller chose to record) is padded with
// empty incorrect answers so every question lands in a breakdown bucket.
func (e *SessionEngine) Result() *models.SessionResult {
	return Summarize(e.id, e.startedAt, e.questions, e.answers)
}

// Summarize reduces a question list and its answers into a SessionResult.
// If answers is shorter than questions the missing tail counts as
// incorrect empty submissions with no time spent.
func Summarize(sessionID string, startedAt time.Time, questions []models.Question, answers []models.Answer) *models.SessionResult {
	result := &models.SessionResult{
		SessionID:    sessionID,
		Total:        len(questions),
		StartedAt:    startedAt,
		ByCategory:   make(map[string]models.BreakdownBucket),
		ByDifficulty: make(map[models.Difficulty]models.BreakdownBucket),
	}

	for i, question := range questions {
		var answer models.Answer
		if i < len(answers) {
			answer = answers[i]
		} else {
			answer = models.Answer{QuestionID: question.ID}
		}

		result.Score += answer.PointsAwarded
		result.TimeSpentSeconds += answer.TimeSpentSeconds
		if answer.IsCorrect {
			result.Correct++
		}

		categoryBucket := result.ByCategory[question.Category]
		categoryBucket.Total++
		if answer.IsCorrect {
			categoryBucket.Correct++
		}
		result.ByCategory[question.Category] = categoryBucket

		difficultyBucket := result.ByDifficulty[question.Difficulty]
		difficultyBucket.Total++
		if answer.IsCorrect {
			difficultyBucket.Correct++
		}
		result.ByDifficulty[question.Difficulty] = difficultyBucket
	}

	if result.Total > 0 {
		result.Accuracy = float64(result.Correct) / float64(result.Total)
	}

	return result
}
