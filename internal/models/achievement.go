package models

import "time"

// AchievementType is the metric family an achievement tracks
type AchievementType string

const (
	AchievementStudyStreak     AchievementType = "study_streak"
	AchievementWordsMastered   AchievementType = "words_mastered"
	AchievementPracticeCount   AchievementType = "practice_count"
	AchievementAccuracyRate    AchievementType = "accuracy_rate"
	AchievementStudyTime       AchievementType = "study_time"
	AchievementCategoryMastery AchievementType = "category_mastery"
)

// AchievementStatus is the unlock state of an achievement
type AchievementStatus string

const (
	AchievementLocked     AchievementStatus = "locked"
	AchievementInProgress AchievementStatus = "in_progress"
	AchievementUnlocked   AchievementStatus = "unlocked"
)

// Achievement tracks one goal against the user's cumulative progress.
// Progress is recomputed from the ledger snapshot on every evaluation,
// clamped to Target, and never decreases once a status is reached.
type Achievement struct {
	ID           string            `json:"id"`
	Type         AchievementType   `json:"type"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Category     string            `json:"category,omitempty"` // category_mastery only
	Target       float64           `json:"target"`
	Progress     float64           `json:"progress"`
	Status       AchievementStatus `json:"status"`
	RewardPoints int               `json:"rewardPoints"`
	UnlockedAt   *time.Time        `json:"unlockedAt,omitempty"`
}

// AchievementListResponse represents the achievements view
type AchievementListResponse struct {
	Achievements []Achievement `json:"achievements"`
	TotalPoints  int           `json:"totalPoints"`
	Level        int           `json:"level"`
}
