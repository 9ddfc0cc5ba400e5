package services

import (
	"time"

	"github.com/web3vocab/backend/internal/models"
)

// DefaultAchievements returns the achievement catalog a fresh user starts
// with. IDs are stable; persisted per-user state is merged onto them by ID.
func DefaultAchievements() []models.Achievement {
	return []models.Achievement{
		{ID: "streak-3", Type: models.AchievementStudyStreak, Title: "Getting Warmed Up", Description: "Study 3 days in a row", Target: 3, Status: models.AchievementLocked, RewardPoints: 30},
		{ID: "streak-7", Type: models.AchievementStudyStreak, Title: "Week of Web3", Description: "Study 7 days in a row", Target: 7, Status: models.AchievementLocked, RewardPoints: 100},
		{ID: "streak-30", Type: models.AchievementStudyStreak, Title: "Diamond Hands", Description: "Study 30 days in a row", Target: 30, Status: models.AchievementLocked, RewardPoints: 500},
		{ID: "mastered-10", Type: models.AchievementWordsMastered, Title: "Vocabulary Builder", Description: "Master 10 terms", Target: 10, Status: models.AchievementLocked, RewardPoints: 50},
		{ID: "mastered-50", Type: models.AchievementWordsMastered, Title: "Lexicon Curator", Description: "Master 50 terms", Target: 50, Status: models.AchievementLocked, RewardPoints: 200},
		{ID: "practice-10", Type: models.AchievementPracticeCount, Title: "Practice Makes Perfect", Description: "Complete 10 practice sessions", Target: 10, Status: models.AchievementLocked, RewardPoints: 50},
		{ID: "practice-100", Type: models.AchievementPracticeCount, Title: "Session Veteran", Description: "Complete 100 practice sessions", Target: 100, Status: models.AchievementLocked, RewardPoints: 300},
		{ID: "accuracy-90", Type: models.AchievementAccuracyRate, Title: "Sharp Shooter", Description: "Reach 90% overall accuracy", Target: 0.9, Status: models.AchievementLocked, RewardPoints: 150},
		{ID: "study-time-300", Type: models.AchievementStudyTime, Title: "Deep Diver", Description: "Study for 5 hours total", Target: 300, Status: models.AchievementLocked, RewardPoints: 100},
		{ID: "defi-master", Type: models.AchievementCategoryMastery, Title: "DeFi Degen", Description: "Master 15 DeFi terms", Category: "defi", Target: 15, Status: models.AchievementLocked, RewardPoints: 250},
		{ID: "nft-master", Type: models.AchievementCategoryMastery, Title: "NFT Connoisseur", Description: "Master 15 NFT terms", Category: "nft", Target: 15, Status: models.AchievementLocked, RewardPoints: 250},
	}
}

// EvaluateAchievements recomputes every achievement's progress from the
// ledger snapshot and applies the strictly monotonic status transitions
// locked -> in_progress -> unlocked. Already-unlocked achievements are
// left untouched, so re-evaluating an unchanged ledger is idempotent and
// never re-stamps or re-awards. masteredByCategory maps a vocabulary
// category to the number of mastered words in it.
//
// Returns the achievements newly unlocked by this evaluation and the sum
// of their reward points.
func EvaluateAchievements(progress *models.UserProgress, masteredByCategory map[string]int, now time.Time) ([]models.Achievement, int) {
	var newlyUnlocked []models.Achievement
	awarded := 0

	for i := range progress.Achievements {
		achievement := &progress.Achievements[i]
		if achievement.Status == models.AchievementUnlocked {
			continue
		}

		value := metricValue(achievement, progress, masteredByCategory)

		// A non-positive target can never be meaningfully tracked;
		// treat it as satisfied on first evaluation so percentage
		// displays stay well-defined.
		if achievement.Target <= 0 || value >= achievement.Target {
			achievement.Progress = achievement.Target
			achievement.Status = models.AchievementUnlocked
			unlockedAt := now
			achievement.UnlockedAt = &unlockedAt
			newlyUnlocked = append(newlyUnlocked, *achievement)
			awarded += achievement.RewardPoints
			continue
		}

		// Progress never decreases and stays clamped below target
		if value > achievement.Progress {
			achievement.Progress = value
		}
		if achievement.Progress > 0 {
			achievement.Status = models.AchievementInProgress
		}
	}

	return newlyUnlocked, awarded
}

// metricValue computes the current raw metric for an achievement type
func metricValue(achievement *models.Achievement, progress *models.UserProgress, masteredByCategory map[string]int) float64 {
	switch achievement.Type {
	case models.AchievementStudyStreak:
		return float64(progress.CurrentStreak)
	case models.AchievementWordsMastered:
		return float64(len(progress.MasteredWordIDs))
	case models.AchievementPracticeCount:
		sessions := 0
		for _, day := range progress.DailyStats {
			sessions += day.PracticeSessions
		}
		return float64(sessions)
	case models.AchievementAccuracyRate:
		correct, total := 0, 0
		for _, day := range progress.DailyStats {
			correct += day.CorrectAnswers
			total += day.TotalAnswers
		}
		if total == 0 {
			return 0
		}
		return float64(correct) / float64(total)
	case models.AchievementStudyTime:
		return float64(progress.TotalStudyTimeMinutes)
	case models.AchievementCategoryMastery:
		return float64(masteredByCategory[achievement.Category])
	}
	return 0
}

// levelThreshold returns the cumulative points required to have entered
// the given level: entering level n+1 costs n*100 more than entering
// level n, i.e. 100 + 200 + ... + (n)*100 in total.
func levelThreshold(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return 50 * n * (n + 1)
}

// ApplyLevel recomputes Level, CurrentLevelExp and NextLevelExp from
// TotalPoints so the three always stay consistent
func ApplyLevel(progress *models.UserProgress) {
	level := 1
	for progress.TotalPoints >= levelThreshold(level+1) {
		level++
	}

	progress.Level = level
	progress.CurrentLevelExp = progress.TotalPoints - levelThreshold(level)
	progress.NextLevelExp = level * 100
}
