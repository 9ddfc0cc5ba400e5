package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web3vocab/backend/internal/models"
)

// mockPracticeWordRepository is a mock implementation of PracticeWordRepository
type mockPracticeWordRepository struct {
	words []models.Word
	err   error

	lastCategory   string
	lastDifficulty models.Difficulty
	lastLimit      int
}

func (m *mockPracticeWordRepository) GetForPractice(ctx context.Context, category string, difficulty models.Difficulty, limit int) ([]models.Word, error) {
	m.lastCategory = category
	m.lastDifficulty = difficulty
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.words) {
		return m.words[:limit], nil
	}
	return m.words, nil
}

// mockSessionRecorder is a mock implementation of SessionRecorder
type mockSessionRecorder struct {
	err error

	recordedUserID   int
	recordedResult   *models.SessionResult
	recordedWords    []int
	recordedMastered []int
	recordedWeak     []int
	calls            int
}

func (m *mockSessionRecorder) RecordSession(ctx context.Context, userID int, result *models.SessionResult, wordsStudied []int, masteredWordIDs, weakWordIDs []int, endTime time.Time) (*models.CompleteSessionResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	m.recordedUserID = userID
	m.recordedResult = result
	m.recordedWords = wordsStudied
	m.recordedMastered = masteredWordIDs
	m.recordedWeak = weakWordIDs
	return &models.CompleteSessionResponse{Result: result, CurrentStreak: 1, Level: 1}, nil
}

func newTestSessionService(words *mockPracticeWordRepository, recorder *mockSessionRecorder) *sessionService {
	if words == nil {
		words = &mockPracticeWordRepository{words: builderWords()}
	}
	if recorder == nil {
		recorder = &mockSessionRecorder{}
	}
	builder := NewQuestionBuilder(rand.New(rand.NewSource(7)))
	return NewSessionService(words, builder, recorder)
}

// mcRequest builds a submission picking the given multiple choice index
func mcRequest(index, timeSpent int) models.SubmitAnswerRequest {
	return models.SubmitAnswerRequest{
		Answer:           models.SubmittedAnswer{ChoiceIndex: &index},
		TimeSpentSeconds: timeSpent,
	}
}

func TestSessionService_StartSession(t *testing.T) {
	words := &mockPracticeWordRepository{words: builderWords()}
	svc := newTestSessionService(words, nil)

	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{
		Count:      3,
		Category:   "defi",
		Difficulty: models.DifficultyBeginner,
		Types:      []models.QuestionType{models.QuestionMultipleChoice},
	})

	require.NoError(t, err)
	assert.Equal(t, "defi", words.lastCategory)
	assert.Equal(t, models.DifficultyBeginner, words.lastDifficulty)
	assert.Equal(t, 3, words.lastLimit)
	assert.Equal(t, 3, state.TotalQuestions)
	assert.Equal(t, 0, state.CurrentIndex)
	require.NotNil(t, state.CurrentQuestion)
	assert.False(t, state.Complete)
}

func TestSessionService_StartSession_DefaultCount(t *testing.T) {
	words := &mockPracticeWordRepository{words: builderWords()}
	svc := newTestSessionService(words, nil)

	_, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{})

	require.NoError(t, err)
	assert.Equal(t, defaultSessionQuestionCount, words.lastLimit)
}

func TestSessionService_StartSession_NoWords(t *testing.T) {
	svc := newTestSessionService(&mockPracticeWordRepository{}, nil)

	_, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{Count: 5})

	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSessionService_StartSession_RepositoryError(t *testing.T) {
	svc := newTestSessionService(&mockPracticeWordRepository{err: errors.New("database down")}, nil)

	_, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{Count: 5})

	assert.Error(t, err)
}

func TestSessionService_StartSession_ReplacesPrevious(t *testing.T) {
	svc := newTestSessionService(nil, nil)

	first, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{Count: 2})
	require.NoError(t, err)
	second, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{Count: 2})
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	_, err = svc.GetState(first.SessionID, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.GetState(second.SessionID, 1)
	assert.NoError(t, err)
}

func TestSessionService_SubmitAnswer_AdvancesSession(t *testing.T) {
	svc := newTestSessionService(nil, nil)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{
		Count: 2,
		Types: []models.QuestionType{models.QuestionMultipleChoice},
	})
	require.NoError(t, err)

	correct := state.CurrentQuestion.MultipleChoice.CorrectIndex
	response, err := svc.SubmitAnswer(state.SessionID, 1, mcRequest(correct, 5))

	require.NoError(t, err)
	assert.True(t, response.IsCorrect)
	assert.Greater(t, response.PointsAwarded, 0)
	assert.NotEmpty(t, response.Explanation)
	assert.False(t, response.Complete)

	next, err := svc.GetState(state.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentIndex)
}

func TestSessionService_SubmitAnswer_WrongUser(t *testing.T) {
	svc := newTestSessionService(nil, nil)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{Count: 2})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(state.SessionID, 2, mcRequest(0, 5))

	assert.ErrorIs(t, err, ErrSessionNotFound, "another user's session is indistinguishable from a missing one")
}

func TestSessionService_SubmitAnswer_UnknownSession(t *testing.T) {
	svc := newTestSessionService(nil, nil)

	_, err := svc.SubmitAnswer("no-such-session", 1, mcRequest(0, 5))

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_TimeoutQuestion(t *testing.T) {
	svc := newTestSessionService(nil, nil)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{
		Count: 2,
		Types: []models.QuestionType{models.QuestionMultipleChoice},
	})
	require.NoError(t, err)

	response, err := svc.TimeoutQuestion(state.SessionID, 1)

	require.NoError(t, err)
	assert.False(t, response.IsCorrect)
	assert.Equal(t, 0, response.PointsAwarded)

	next, err := svc.GetState(state.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentIndex)
}

func TestSessionService_GetResult_RequiresCompletion(t *testing.T) {
	svc := newTestSessionService(nil, nil)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{
		Count: 2,
		Types: []models.QuestionType{models.QuestionMultipleChoice},
	})
	require.NoError(t, err)

	_, err = svc.GetResult(state.SessionID, 1)
	assert.ErrorIs(t, err, ErrSessionNotComplete)

	_, err = svc.SubmitAnswer(state.SessionID, 1, mcRequest(0, 5))
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(state.SessionID, 1, mcRequest(0, 5))
	require.NoError(t, err)

	result, err := svc.GetResult(state.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
}

func TestSessionService_CompleteSession(t *testing.T) {
	recorder := &mockSessionRecorder{}
	svc := newTestSessionService(nil, recorder)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{
		Count: 2,
		Types: []models.QuestionType{models.QuestionMultipleChoice},
	})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(state.SessionID, 1, mcRequest(0, 5))
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(state.SessionID, 1, mcRequest(0, 5))
	require.NoError(t, err)

	response, err := svc.CompleteSession(context.Background(), state.SessionID, 1, models.CompleteSessionRequest{
		MasteredWordIDs: []int{1},
		WeakWordIDs:     []int{2},
	})

	require.NoError(t, err)
	require.NotNil(t, response.Result)
	assert.Equal(t, 1, recorder.recordedUserID)
	assert.Equal(t, 2, recorder.recordedResult.Total)
	assert.Len(t, recorder.recordedWords, 2)
	assert.Equal(t, []int{1}, recorder.recordedMastered)
	assert.Equal(t, []int{2}, recorder.recordedWeak)

	// The session is gone once recorded
	_, err = svc.GetState(state.SessionID, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_CompleteSession_RejectsPartial(t *testing.T) {
	recorder := &mockSessionRecorder{}
	svc := newTestSessionService(nil, recorder)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{
		Count: 3,
		Types: []models.QuestionType{models.QuestionMultipleChoice},
	})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(state.SessionID, 1, mcRequest(0, 5))
	require.NoError(t, err)

	_, err = svc.CompleteSession(context.Background(), state.SessionID, 1, models.CompleteSessionRequest{})

	assert.ErrorIs(t, err, ErrSessionNotComplete)
	assert.Equal(t, 0, recorder.calls)

	// The session survives a rejected completion
	_, err = svc.GetState(state.SessionID, 1)
	assert.NoError(t, err)
}

func TestSessionService_CompleteSession_RecordPartial(t *testing.T) {
	recorder := &mockSessionRecorder{}
	svc := newTestSessionService(nil, recorder)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{
		Count: 3,
		Types: []models.QuestionType{models.QuestionMultipleChoice},
	})
	require.NoError(t, err)

	correct := state.CurrentQuestion.MultipleChoice.CorrectIndex
	_, err = svc.SubmitAnswer(state.SessionID, 1, mcRequest(correct, 5))
	require.NoError(t, err)

	response, err := svc.CompleteSession(context.Background(), state.SessionID, 1, models.CompleteSessionRequest{
		RecordPartial: true,
	})

	require.NoError(t, err)
	// The unanswered tail counts as incorrect in the recorded result
	assert.Equal(t, 3, response.Result.Total)
	assert.Equal(t, 1, response.Result.Correct)
	assert.Equal(t, 1, recorder.calls)
}

func TestSessionService_AbandonSession(t *testing.T) {
	recorder := &mockSessionRecorder{}
	svc := newTestSessionService(nil, recorder)
	state, err := svc.StartSession(context.Background(), 1, models.StartSessionRequest{Count: 2})
	require.NoError(t, err)

	err = svc.AbandonSession(state.SessionID, 1)

	require.NoError(t, err)
	assert.Equal(t, 0, recorder.calls, "abandoning records nothing")
	_, err = svc.GetState(state.SessionID, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = svc.AbandonSession(state.SessionID, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStudiedWordIDs_Deduplicates(t *testing.T) {
	questions := []models.Question{
		{WordID: 1}, {WordID: 2}, {WordID: 1}, {WordID: 3},
	}

	assert.Equal(t, []int{1, 2, 3}, studiedWordIDs(questions))
}
