package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/web3vocab/backend/internal/auth"
	"github.com/web3vocab/backend/internal/models"
	"go.uber.org/zap"
)

// ProgressService defines methods for reading the progress ledger
type ProgressService interface {
	// GetProgress returns the dashboard view of the user's progress.
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "includeDaily" adds the per-day stats series to the response.
	//
	// Returns the progress view and an error if any.
	GetProgress(ctx context.Context, userID int, includeDaily bool) (*models.ProgressResponse, error)
	// GetStreak returns the user's current study streak counted against today.
	GetStreak(ctx context.Context, userID int) (int, error)
	// GetAchievements returns the user's achievement list with totals.
	GetAchievements(ctx context.Context, userID int) (*models.AchievementListResponse, error)
}

// ProgressHandler handles progress dashboard endpoints
type ProgressHandler struct {
	BaseHandler
	service ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(service ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     service,
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/progress", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetProgress)
		r.Get("/streak", h.GetStreak)
		r.Get("/daily", h.GetDailyStats)
	})
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/achievements", h.GetAchievements)
	})
}

// GetProgress handles GET /api/v1/progress
// @Summary Get progress overview
// @Description Current streak, mastery counts, study time, points, level and overall accuracy.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ProgressResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	progress, err := h.service.GetProgress(r.Context(), userID, false)
	if err != nil {
		h.Logger.Error("failed to get progress", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// GetStreak handles GET /api/v1/progress/streak
// @Summary Get the current study streak
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]int "currentStreak"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/v1/progress/streak [get]
func (h *ProgressHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	streak, err := h.service.GetStreak(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to get streak", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get streak")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]int{"currentStreak": streak})
}

// GetDailyStats handles GET /api/v1/progress/daily
// @Summary Get daily study statistics
// @Description Progress overview including the per-day stats series for charts.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ProgressResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/v1/progress/daily [get]
func (h *ProgressHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	progress, err := h.service.GetProgress(r.Context(), userID, true)
	if err != nil {
		h.Logger.Error("failed to get daily stats", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get daily stats")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// GetAchievements handles GET /api/v1/achievements
// @Summary List achievements
// @Description All achievements with their progress, status and reward points.
// @Tags achievements
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.AchievementListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/v1/achievements [get]
func (h *ProgressHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	achievements, err := h.service.GetAchievements(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to get achievements", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get achievements")
		return
	}

	h.RespondJSON(w, http.StatusOK, achievements)
}
