package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/web3vocab/backend/internal/models"
)

const defaultSessionQuestionCount = 10

var (
	// ErrSessionNotFound is returned when no active session matches the ID and user
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionNotComplete is returned when a result is requested before the last question
	ErrSessionNotComplete = errors.New("session is not complete")
)

// PracticeWordRepository defines the vocabulary access needed to build
// practice questions
type PracticeWordRepository interface {
	// GetForPractice retrieves up to limit words matching the filters.
	//
	// "ctx" is the context for the request.
	// "category" filters by vocabulary category; empty means any.
	// "difficulty" filters by difficulty; empty means any.
	// "limit" caps the number of words returned.
	//
	// Returns the words in random order and an error if any.
	GetForPractice(ctx context.Context, category string, difficulty models.Difficulty, limit int) ([]models.Word, error)
}

// SessionRecorder folds a finished session result into the progress ledger
type SessionRecorder interface {
	// RecordSession records one session result for a user.
	//
	// Please reference progressService.RecordSession for parameter and
	// error semantics.
	RecordSession(ctx context.Context, userID int, result *models.SessionResult, wordsStudied []int, masteredWordIDs, weakWordIDs []int, endTime time.Time) (*models.CompleteSessionResponse, error)
}

// activeSession pairs an engine with its owning user
type activeSession struct {
	userID int
	engine *SessionEngine
}

// sessionService manages the in-memory practice sessions. Each user drives
// one session at a time; starting a new session replaces any previous one.
// Sessions are ephemeral: only a completed session's result is persisted,
// through the recorder, and abandoning a session has no side effects. The
// mutex exists because HTTP handlers run concurrently, not because a
// single session is ever shared between actors.
type sessionService struct {
	words    PracticeWordRepository
	builder  *QuestionBuilder
	recorder SessionRecorder

	mu       sync.Mutex
	sessions map[string]*activeSession
	byUser   map[int]string
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(words PracticeWordRepository, builder *QuestionBuilder, recorder SessionRecorder) *sessionService {
	return &sessionService{
		words:    words,
		builder:  builder,
		recorder: recorder,
		sessions: make(map[string]*activeSession),
		byUser:   make(map[int]string),
		now:      time.Now,
	}
}

// StartSession builds a fresh question list for the user and starts a new
// session over it, discarding any session the user still had open
func (s *sessionService) StartSession(ctx context.Context, userID int, req models.StartSessionRequest) (*models.SessionState, error) {
	count := req.Count
	if count <= 0 {
		count = defaultSessionQuestionCount
	}

	words, err := s.words.GetForPractice(ctx, req.Category, req.Difficulty, count)
	if err != nil {
		return nil, fmt.Errorf("failed to load practice words: %w", err)
	}

	questions := s.builder.Build(words, req.Types, count)
	engine, err := NewSessionEngine(uuid.New().String(), questions, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previousID, ok := s.byUser[userID]; ok {
		delete(s.sessions, previousID)
	}
	s.sessions[engine.ID()] = &activeSession{userID: userID, engine: engine}
	s.byUser[userID] = engine.ID()

	state := engine.State()
	return &state, nil
}

// SubmitAnswer records one answer for the session's current question
func (s *sessionService) SubmitAnswer(sessionID string, userID int, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID, userID)
	if err != nil {
		return nil, err
	}

	question := engine.CurrentQuestion()
	answer, err := engine.Submit(req.Answer, req.TimeSpentSeconds)
	if err != nil {
		return nil, err
	}

	return &models.SubmitAnswerResponse{
		IsCorrect:     answer.IsCorrect,
		PointsAwarded: answer.PointsAwarded,
		Explanation:   question.Explanation,
		Complete:      engine.IsComplete(),
	}, nil
}

// TimeoutQuestion records the current question as timed out. A submission
// that races in after the timeout finds the index already advanced and is
// rejected by the engine.
func (s *sessionService) TimeoutQuestion(sessionID string, userID int) (*models.SubmitAnswerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID, userID)
	if err != nil {
		return nil, err
	}

	question := engine.CurrentQuestion()
	answer, err := engine.Timeout()
	if err != nil {
		return nil, err
	}

	return &models.SubmitAnswerResponse{
		IsCorrect:     answer.IsCorrect,
		PointsAwarded: answer.PointsAwarded,
		Explanation:   question.Explanation,
		Complete:      engine.IsComplete(),
	}, nil
}

// GetState returns the session's current UI-facing state
func (s *sessionService) GetState(sessionID string, userID int) (*models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID, userID)
	if err != nil {
		return nil, err
	}

	state := engine.State()
	return &state, nil
}

// GetResult summarizes a finished session without recording anything
func (s *sessionService) GetResult(sessionID string, userID int) (*models.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !engine.IsComplete() {
		return nil, ErrSessionNotComplete
	}

	return engine.Result(), nil
}

// CompleteSession folds the session result into the progress ledger and
// drops the session. A session that still has unanswered questions is only
// recorded when the caller explicitly opts in with recordPartial, in which
// case the unanswered tail counts as incorrect; otherwise it must be
// completed first or abandoned.
func (s *sessionService) CompleteSession(ctx context.Context, sessionID string, userID int, req models.CompleteSessionRequest) (*models.CompleteSessionResponse, error) {
	s.mu.Lock()
	engine, err := s.engineLocked(sessionID, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !engine.IsComplete() && !req.RecordPartial {
		s.mu.Unlock()
		return nil, ErrSessionNotComplete
	}

	delete(s.sessions, sessionID)
	delete(s.byUser, userID)
	s.mu.Unlock()

	result := engine.Result()
	wordsStudied := studiedWordIDs(engine.Questions())

	return s.recorder.RecordSession(ctx, userID, result, wordsStudied, req.MasteredWordIDs, req.WeakWordIDs, s.now())
}

// AbandonSession discards the session without recording anything
func (s *sessionService) AbandonSession(sessionID string, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.engineLocked(sessionID, userID); err != nil {
		return err
	}
	delete(s.sessions, sessionID)
	delete(s.byUser, userID)
	return nil
}

// engineLocked looks up a session and checks ownership; callers hold s.mu
func (s *sessionService) engineLocked(sessionID string, userID int) (*SessionEngine, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.userID != userID {
		return nil, ErrSessionNotFound
	}
	return session.engine, nil
}

// studiedWordIDs returns the distinct word IDs behind a question list
func studiedWordIDs(questions []models.Question) []int {
	seen := make(map[int]bool, len(questions))
	var ids []int
	for _, question := range questions {
		if !seen[question.WordID] {
			seen[question.WordID] = true
			ids = append(ids, question.WordID)
		}
	}
	return ids
}
