package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/web3vocab/backend/internal/models"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ProgressRepository defines methods for user progress data access
type ProgressRepository interface {
	// GetByUserID loads the full progress snapshot for a user.
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns nil without error when the user has no stored progress yet.
	// Returns an error when the stored snapshot cannot be read.
	GetByUserID(ctx context.Context, userID int) (*models.UserProgress, error)
	// Save persists the full progress snapshot in a single transaction.
	//
	// "ctx" is the context for the request.
	// "progress" is the snapshot to persist.
	//
	// A failed save leaves the previously stored snapshot untouched.
	Save(ctx context.Context, progress *models.UserProgress) error
}

// WordCategoryReader resolves vocabulary categories for word IDs. The
// ledger itself never validates word IDs; unknown IDs simply resolve to
// no category.
type WordCategoryReader interface {
	// GetCategories returns a wordID -> category map for the given IDs.
	//
	// "ctx" is the context for the request.
	// "wordIDs" are the vocabulary word IDs to resolve.
	//
	// Returns an error if the lookup fails.
	GetCategories(ctx context.Context, wordIDs []int) (map[int]string, error)
}

// progressService is the progress ledger: it folds finished session
// results into the cumulative per-user state and re-derives streaks,
// mastery sets, achievements and level on every update. Each update is
// computed on a freshly loaded snapshot and persisted atomically, so a
// failed write never leaves partial state behind.
type progressService struct {
	repo   ProgressRepository
	words  WordCategoryReader
	logger *zap.Logger
	now    func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(repo ProgressRepository, words WordCategoryReader, logger *zap.Logger) *progressService {
	return &progressService{
		repo:   repo,
		words:  words,
		logger: logger,
		now:    time.Now,
	}
}

// loadOrEmpty loads the user's snapshot, falling back to the empty
// initial state when nothing is stored or the stored record is unreadable.
// The second return value reports the unreadable case so callers can
// surface a non-fatal "progress could not be loaded" signal.
func (s *progressService) loadOrEmpty(ctx context.Context, userID int) (*models.UserProgress, bool) {
	progress, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user progress, falling back to empty state",
			zap.Int("user_id", userID), zap.Error(err))
		progress = models.NewUserProgress(userID)
		progress.Achievements = DefaultAchievements()
		return progress, true
	}
	if progress == nil {
		progress = models.NewUserProgress(userID)
	}
	progress.Achievements = mergeCatalog(progress.Achievements)
	return progress, false
}

// mergeCatalog layers stored per-user achievement state over the default
// catalog so newly added achievements appear for existing users
func mergeCatalog(stored []models.Achievement) []models.Achievement {
	merged := DefaultAchievements()
	byID := make(map[string]models.Achievement, len(stored))
	for _, achievement := range stored {
		byID[achievement.ID] = achievement
	}
	for i := range merged {
		if existing, ok := byID[merged[i].ID]; ok {
			merged[i].Progress = existing.Progress
			merged[i].Status = existing.Status
			merged[i].UnlockedAt = existing.UnlockedAt
		}
	}
	return merged
}

// RecordSession folds one finished session result into the ledger:
// appends a study session, updates today's daily stats in place,
// recomputes the streak, reconciles the mastered/weak word sets and
// re-evaluates achievements, awarding their points and recomputing the
// level. The whole next state is computed first and persisted in one
// transaction.
func (s *progressService) RecordSession(ctx context.Context, userID int, result *models.SessionResult, wordsStudied []int, masteredWordIDs, weakWordIDs []int, endTime time.Time) (*models.CompleteSessionResponse, error) {
	progress, loadWarn := s.loadOrEmpty(ctx, userID)

	duration := int(endTime.Sub(result.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}

	progress.StudySessions = append(progress.StudySessions, models.StudySession{
		ID:              uuid.New().String(),
		StartedAt:       result.StartedAt,
		EndedAt:         endTime,
		DurationSeconds: duration,
	})

	// Mastered words leave the weak set; weak words are only added while
	// not yet mastered
	newlyMastered := 0
	for _, wordID := range masteredWordIDs {
		if !progress.HasMastered(wordID) {
			progress.MasteredWordIDs = append(progress.MasteredWordIDs, wordID)
			newlyMastered++
		}
		progress.WeakWordIDs = removeID(progress.WeakWordIDs, wordID)
	}
	for _, wordID := range weakWordIDs {
		if !progress.HasMastered(wordID) && !containsID(progress.WeakWordIDs, wordID) {
			progress.WeakWordIDs = append(progress.WeakWordIDs, wordID)
		}
	}

	today := endTime.Format(dateLayout)
	day := progress.StatsDay(today)
	if day == nil {
		progress.DailyStats = append(progress.DailyStats, models.DailyStats{Date: today})
		day = &progress.DailyStats[len(progress.DailyStats)-1]
	}
	day.WordsStudied += len(wordsStudied)
	day.PracticeSessions++
	day.CorrectAnswers += result.Correct
	day.TotalAnswers += result.Total
	day.StudyTimeMinutes += duration / 60
	day.MasteredWords += newlyMastered

	progress.TotalStudyTimeMinutes += duration / 60

	progress.CurrentStreak = computeStreak(progress.DailyStats, endTime)
	if progress.CurrentStreak > progress.MaxStreak {
		progress.MaxStreak = progress.CurrentStreak
	}

	masteredByCategory, err := s.masteredByCategory(ctx, progress.MasteredWordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mastered word categories: %w", err)
	}

	newlyUnlocked, awarded := EvaluateAchievements(progress, masteredByCategory, endTime)
	progress.TotalPoints += awarded
	ApplyLevel(progress)

	if err := s.repo.Save(ctx, progress); err != nil {
		return nil, fmt.Errorf("failed to save user progress: %w", err)
	}

	return &models.CompleteSessionResponse{
		Result:           result,
		NewlyUnlocked:    newlyUnlocked,
		CurrentStreak:    progress.CurrentStreak,
		TotalPoints:      progress.TotalPoints,
		Level:            progress.Level,
		ProgressLoadWarn: loadWarn,
	}, nil
}

// GetProgress returns the dashboard view of the user's progress. The
// streak is recomputed against today so it decays correctly after idle
// days without requiring a write.
func (s *progressService) GetProgress(ctx context.Context, userID int, includeDaily bool) (*models.ProgressResponse, error) {
	progress, loadWarn := s.loadOrEmpty(ctx, userID)

	correct, total, sessions := 0, 0, 0
	for _, day := range progress.DailyStats {
		correct += day.CorrectAnswers
		total += day.TotalAnswers
		sessions += day.PracticeSessions
	}
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	response := &models.ProgressResponse{
		CurrentStreak:         computeStreak(progress.DailyStats, s.now()),
		MaxStreak:             progress.MaxStreak,
		MasteredWords:         len(progress.MasteredWordIDs),
		WeakWords:             len(progress.WeakWordIDs),
		TotalStudyTimeMinutes: progress.TotalStudyTimeMinutes,
		TotalPoints:           progress.TotalPoints,
		Level:                 progress.Level,
		CurrentLevelExp:       progress.CurrentLevelExp,
		NextLevelExp:          progress.NextLevelExp,
		TotalSessions:         sessions,
		OverallAccuracy:       accuracy,
		LoadWarning:           loadWarn,
	}
	if includeDaily {
		response.DailyStats = progress.DailyStats
	}
	return response, nil
}

// GetStreak returns the user's current streak counted against today
func (s *progressService) GetStreak(ctx context.Context, userID int) (int, error) {
	progress, _ := s.loadOrEmpty(ctx, userID)
	return computeStreak(progress.DailyStats, s.now()), nil
}

// GetAchievements returns the user's achievement list with totals
func (s *progressService) GetAchievements(ctx context.Context, userID int) (*models.AchievementListResponse, error) {
	progress, _ := s.loadOrEmpty(ctx, userID)
	return &models.AchievementListResponse{
		Achievements: progress.Achievements,
		TotalPoints:  progress.TotalPoints,
		Level:        progress.Level,
	}, nil
}

// masteredByCategory counts mastered words per vocabulary category
func (s *progressService) masteredByCategory(ctx context.Context, masteredWordIDs []int) (map[string]int, error) {
	if len(masteredWordIDs) == 0 {
		return map[string]int{}, nil
	}
	categories, err := s.words.GetCategories(ctx, masteredWordIDs)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, category := range categories {
		counts[category]++
	}
	return counts, nil
}

// computeStreak counts consecutive calendar days with at least one word
// studied, walking backward from today. When today has no activity yet the
// walk starts from yesterday: today is not yet counted, but the streak is
// not broken either.
func computeStreak(dailyStats []models.DailyStats, today time.Time) int {
	active := make(map[string]bool, len(dailyStats))
	for _, day := range dailyStats {
		if day.WordsStudied > 0 {
			active[day.Date] = true
		}
	}

	cursor := today
	if !active[cursor.Format(dateLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for active[cursor.Format(dateLayout)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// removeID returns ids without the given id
func removeID(ids []int, id int) []int {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// containsID reports whether ids contains id
func containsID(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
