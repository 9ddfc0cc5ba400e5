package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/web3vocab/backend/internal/models"
)

// progressRepository persists the per-user progress ledger across the
// user_progress, daily_stats, study_sessions, user_words and
// user_achievements tables
type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// GetByUserID loads the full progress snapshot for a user. Returns nil
// without error when the user has no stored progress yet.
func (r *progressRepository) GetByUserID(ctx context.Context, userID int) (*models.UserProgress, error) {
	progress := &models.UserProgress{UserID: userID}

	query := `
		SELECT current_streak, max_streak, total_study_time_minutes, total_points,
		       level, current_level_exp, next_level_exp
		FROM user_progress
		WHERE user_id = ?`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&progress.CurrentStreak,
		&progress.MaxStreak,
		&progress.TotalStudyTimeMinutes,
		&progress.TotalPoints,
		&progress.Level,
		&progress.CurrentLevelExp,
		&progress.NextLevelExp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user progress: %w", err)
	}

	if progress.DailyStats, err = r.loadDailyStats(ctx, userID); err != nil {
		return nil, err
	}
	if progress.StudySessions, err = r.loadStudySessions(ctx, userID); err != nil {
		return nil, err
	}
	if progress.MasteredWordIDs, progress.WeakWordIDs, err = r.loadWordSets(ctx, userID); err != nil {
		return nil, err
	}
	if progress.Achievements, err = r.loadAchievements(ctx, userID); err != nil {
		return nil, err
	}

	return progress, nil
}

// Save persists the full snapshot in a single transaction so a failed
// write never leaves partially applied state behind
func (r *progressRepository) Save(ctx context.Context, progress *models.UserProgress) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO user_progress
		(user_id, current_streak, max_streak, total_study_time_minutes, total_points,
		 level, current_level_exp, next_level_exp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			current_streak = VALUES(current_streak),
			max_streak = VALUES(max_streak),
			total_study_time_minutes = VALUES(total_study_time_minutes),
			total_points = VALUES(total_points),
			level = VALUES(level),
			current_level_exp = VALUES(current_level_exp),
			next_level_exp = VALUES(next_level_exp)`

	_, err = tx.ExecContext(ctx, query,
		progress.UserID,
		progress.CurrentStreak,
		progress.MaxStreak,
		progress.TotalStudyTimeMinutes,
		progress.TotalPoints,
		progress.Level,
		progress.CurrentLevelExp,
		progress.NextLevelExp,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user progress: %w", err)
	}

	if err := r.saveDailyStats(ctx, tx, progress); err != nil {
		return err
	}
	if err := r.saveStudySessions(ctx, tx, progress); err != nil {
		return err
	}
	if err := r.saveWordSets(ctx, tx, progress); err != nil {
		return err
	}
	if err := r.saveAchievements(ctx, tx, progress); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// loadDailyStats loads daily stats ordered by date
func (r *progressRepository) loadDailyStats(ctx context.Context, userID int) ([]models.DailyStats, error) {
	query := `
		SELECT date, words_studied, practice_sessions, correct_answers,
		       total_answers, study_time_minutes, mastered_words
		FROM daily_stats
		WHERE user_id = ?
		ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyStats
	for rows.Next() {
		var day models.DailyStats
		err := rows.Scan(
			&day.Date,
			&day.WordsStudied,
			&day.PracticeSessions,
			&day.CorrectAnswers,
			&day.TotalAnswers,
			&day.StudyTimeMinutes,
			&day.MasteredWords,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, day)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}

// loadStudySessions loads the append-only study session list
func (r *progressRepository) loadStudySessions(ctx context.Context, userID int) ([]models.StudySession, error) {
	query := `
		SELECT id, started_at, ended_at, duration_seconds
		FROM study_sessions
		WHERE user_id = ?
		ORDER BY started_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var session models.StudySession
		if err := rows.Scan(&session.ID, &session.StartedAt, &session.EndedAt, &session.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan study session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sessions, nil
}

// loadWordSets loads the mastered and weak word ID sets
func (r *progressRepository) loadWordSets(ctx context.Context, userID int) ([]int, []int, error) {
	query := `
		SELECT word_id, status
		FROM user_words
		WHERE user_id = ?
		ORDER BY word_id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query user words: %w", err)
	}
	defer rows.Close()

	var mastered, weak []int
	for rows.Next() {
		var wordID int
		var status string
		if err := rows.Scan(&wordID, &status); err != nil {
			return nil, nil, fmt.Errorf("failed to scan user word: %w", err)
		}
		switch status {
		case "mastered":
			mastered = append(mastered, wordID)
		case "weak":
			weak = append(weak, wordID)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return mastered, weak, nil
}

// loadAchievements loads the stored per-user achievement state. Catalog
// fields (title, target, reward) live in code; only the mutable state is
// stored.
func (r *progressRepository) loadAchievements(ctx context.Context, userID int) ([]models.Achievement, error) {
	query := `
		SELECT achievement_id, progress, status, unlocked_at
		FROM user_achievements
		WHERE user_id = ?`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user achievements: %w", err)
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var achievement models.Achievement
		var status string
		var unlockedAt sql.NullTime
		if err := rows.Scan(&achievement.ID, &achievement.Progress, &status, &unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user achievement: %w", err)
		}
		achievement.Status = models.AchievementStatus(status)
		if unlockedAt.Valid {
			stamp := unlockedAt.Time
			achievement.UnlockedAt = &stamp
		}
		achievements = append(achievements, achievement)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return achievements, nil
}

// saveDailyStats upserts every daily stats record in the snapshot
func (r *progressRepository) saveDailyStats(ctx context.Context, tx *sql.Tx, progress *models.UserProgress) error {
	if len(progress.DailyStats) == 0 {
		return nil
	}

	placeholders := make([]string, len(progress.DailyStats))
	args := []any{}
	for i, day := range progress.DailyStats {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, progress.UserID, day.Date, day.WordsStudied, day.PracticeSessions,
			day.CorrectAnswers, day.TotalAnswers, day.StudyTimeMinutes, day.MasteredWords)
	}

	query := fmt.Sprintf(`
		INSERT INTO daily_stats
		(user_id, date, words_studied, practice_sessions, correct_answers,
		 total_answers, study_time_minutes, mastered_words)
		VALUES %s
		ON DUPLICATE KEY UPDATE
			words_studied = VALUES(words_studied),
			practice_sessions = VALUES(practice_sessions),
			correct_answers = VALUES(correct_answers),
			total_answers = VALUES(total_answers),
			study_time_minutes = VALUES(study_time_minutes),
			mastered_words = VALUES(mastered_words)`,
		strings.Join(placeholders, ","))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}

	return nil
}

// saveStudySessions inserts study sessions not yet stored; existing rows
// are never rewritten because the list is append-only
func (r *progressRepository) saveStudySessions(ctx context.Context, tx *sql.Tx, progress *models.UserProgress) error {
	if len(progress.StudySessions) == 0 {
		return nil
	}

	placeholders := make([]string, len(progress.StudySessions))
	args := []any{}
	for i, session := range progress.StudySessions {
		placeholders[i] = "(?, ?, ?, ?, ?)"
		args = append(args, session.ID, progress.UserID,
			session.StartedAt.UTC().Format(time.DateTime),
			session.EndedAt.UTC().Format(time.DateTime),
			session.DurationSeconds)
	}

	query := fmt.Sprintf(`
		INSERT IGNORE INTO study_sessions
		(id, user_id, started_at, ended_at, duration_seconds)
		VALUES %s`,
		strings.Join(placeholders, ","))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert study sessions: %w", err)
	}

	return nil
}

// saveWordSets rewrites the mastered/weak sets from the snapshot; a word
// moving from weak to mastered simply lands with its new status
func (r *progressRepository) saveWordSets(ctx context.Context, tx *sql.Tx, progress *models.UserProgress) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_words WHERE user_id = ?", progress.UserID); err != nil {
		return fmt.Errorf("failed to clear user words: %w", err)
	}

	total := len(progress.MasteredWordIDs) + len(progress.WeakWordIDs)
	if total == 0 {
		return nil
	}

	placeholders := make([]string, 0, total)
	args := []any{}
	for _, wordID := range progress.MasteredWordIDs {
		placeholders = append(placeholders, "(?, ?, 'mastered')")
		args = append(args, progress.UserID, wordID)
	}
	for _, wordID := range progress.WeakWordIDs {
		placeholders = append(placeholders, "(?, ?, 'weak')")
		args = append(args, progress.UserID, wordID)
	}

	query := fmt.Sprintf(
		"INSERT INTO user_words (user_id, word_id, status) VALUES %s",
		strings.Join(placeholders, ","))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert user words: %w", err)
	}

	return nil
}

// saveAchievements upserts the mutable achievement state
func (r *progressRepository) saveAchievements(ctx context.Context, tx *sql.Tx, progress *models.UserProgress) error {
	if len(progress.Achievements) == 0 {
		return nil
	}

	placeholders := make([]string, len(progress.Achievements))
	args := []any{}
	for i, achievement := range progress.Achievements {
		placeholders[i] = "(?, ?, ?, ?, ?)"
		var unlockedAt any
		if achievement.UnlockedAt != nil {
			unlockedAt = achievement.UnlockedAt.UTC().Format(time.DateTime)
		}
		args = append(args, progress.UserID, achievement.ID, achievement.Progress,
			string(achievement.Status), unlockedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO user_achievements
		(user_id, achievement_id, progress, status, unlocked_at)
		VALUES %s
		ON DUPLICATE KEY UPDATE
			progress = VALUES(progress),
			status = VALUES(status),
			unlocked_at = VALUES(unlocked_at)`,
		strings.Join(placeholders, ","))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert user achievements: %w", err)
	}

	return nil
}
