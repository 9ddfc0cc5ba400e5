package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/web3vocab/backend/internal/auth"
	"github.com/web3vocab/backend/internal/models"
	"github.com/web3vocab/backend/internal/services"
	"go.uber.org/zap"
)

// SessionService defines methods for driving practice sessions
type SessionService interface {
	// StartSession starts a new practice session for the user, replacing
	// any session still open.
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "req" carries the question count and optional filters.
	//
	// Returns the initial session state and an error if any.
	StartSession(ctx context.Context, userID int, req models.StartSessionRequest) (*models.SessionState, error)
	// SubmitAnswer records one answer for the session's current question.
	//
	// Returns ErrSessionNotFound for an unknown session and
	// ErrSessionComplete for a submission after the last question.
	SubmitAnswer(sessionID string, userID int, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error)
	// TimeoutQuestion records the current question as timed out.
	//
	// Please reference SubmitAnswer for error values.
	TimeoutQuestion(sessionID string, userID int) (*models.SubmitAnswerResponse, error)
	// GetState returns the session's current state.
	GetState(sessionID string, userID int) (*models.SessionState, error)
	// GetResult summarizes a finished session without recording it.
	//
	// Returns ErrSessionNotComplete while questions remain.
	GetResult(sessionID string, userID int) (*models.SessionResult, error)
	// CompleteSession folds the session result into the progress ledger
	// and drops the session.
	CompleteSession(ctx context.Context, sessionID string, userID int, req models.CompleteSessionRequest) (*models.CompleteSessionResponse, error)
	// AbandonSession discards the session without recording anything.
	AbandonSession(sessionID string, userID int) error
}

// SessionHandler handles practice session endpoints
type SessionHandler struct {
	BaseHandler
	service SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     service,
	}
}

// RegisterRoutes registers all session handler routes
func (h *SessionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.StartSession)
		r.Get("/{sessionID}", h.GetState)
		r.Post("/{sessionID}/answers", h.SubmitAnswer)
		r.Post("/{sessionID}/timeout", h.TimeoutQuestion)
		r.Get("/{sessionID}/result", h.GetResult)
		r.Post("/{sessionID}/complete", h.CompleteSession)
		r.Delete("/{sessionID}", h.AbandonSession)
	})
}

// StartSession handles POST /api/v1/sessions
// @Summary Start a practice session
// @Description Build a question list from the vocabulary and start a new practice session. Any previous open session for the user is discarded.
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.StartSessionRequest true "Session options"
// @Success 201 {object} models.SessionState
// @Failure 400 {object} map[string]string "Bad request - invalid body or no questions could be built"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/sessions [post]
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		h.RespondError(w, http.StatusBadRequest, "invalid difficulty, must be 'beginner', 'intermediate' or 'advanced'")
		return
	}

	state, err := h.service.StartSession(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrNoQuestions) {
			h.RespondError(w, http.StatusBadRequest, "no questions could be built for the requested filters")
			return
		}
		h.Logger.Error("failed to start session", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	h.RespondJSON(w, http.StatusCreated, state)
}

// SubmitAnswer handles POST /api/v1/sessions/{sessionID}/answers
// @Summary Submit an answer
// @Description Record one answer for the session's current question and advance to the next one.
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sessionID path string true "Session ID"
// @Param request body models.SubmitAnswerRequest true "Submitted answer"
// @Success 200 {object} models.SubmitAnswerResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already complete"
// @Router /api/v1/sessions/{sessionID}/answers [post]
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.service.SubmitAnswer(chi.URLParam(r, "sessionID"), userID, req)
	if err != nil {
		h.respondSessionError(w, err, "failed to submit answer")
		return
	}

	h.RespondJSON(w, http.StatusOK, response)
}

// TimeoutQuestion handles POST /api/v1/sessions/{sessionID}/timeout
// @Summary Time out the current question
// @Description Record the current question as unanswered when its countdown reaches zero. Equivalent to submitting an empty answer.
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} models.SubmitAnswerResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already complete"
// @Router /api/v1/sessions/{sessionID}/timeout [post]
func (h *SessionHandler) TimeoutQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	response, err := h.service.TimeoutQuestion(chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		h.respondSessionError(w, err, "failed to time out question")
		return
	}

	h.RespondJSON(w, http.StatusOK, response)
}

// GetState handles GET /api/v1/sessions/{sessionID}
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} models.SessionState
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/v1/sessions/{sessionID} [get]
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	state, err := h.service.GetState(chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		h.respondSessionError(w, err, "failed to get session state")
		return
	}

	h.RespondJSON(w, http.StatusOK, state)
}

// GetResult handles GET /api/v1/sessions/{sessionID}/result
// @Summary Get the session result
// @Description Summarize a finished session (score, accuracy, per-category and per-difficulty breakdown) without recording it.
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} models.SessionResult
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session not complete"
// @Router /api/v1/sessions/{sessionID}/result [get]
func (h *SessionHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	result, err := h.service.GetResult(chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		h.respondSessionError(w, err, "failed to get session result")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// CompleteSession handles POST /api/v1/sessions/{sessionID}/complete
// @Summary Complete a session and record it
// @Description Fold the session result into the progress ledger and return any newly unlocked achievements. A session with unanswered questions is only recorded when recordPartial is set.
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sessionID path string true "Session ID"
// @Param request body models.CompleteSessionRequest true "Completion options"
// @Success 200 {object} models.CompleteSessionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session not complete and recordPartial not set"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/sessions/{sessionID}/complete [post]
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.CompleteSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.service.CompleteSession(r.Context(), chi.URLParam(r, "sessionID"), userID, req)
	if err != nil {
		h.respondSessionError(w, err, "failed to complete session")
		return
	}

	h.RespondJSON(w, http.StatusOK, response)
}

// AbandonSession handles DELETE /api/v1/sessions/{sessionID}
// @Summary Abandon a session
// @Description Discard an in-progress session without recording anything in the progress ledger.
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]string "Session discarded"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/v1/sessions/{sessionID} [delete]
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	if err := h.service.AbandonSession(chi.URLParam(r, "sessionID"), userID); err != nil {
		h.respondSessionError(w, err, "failed to abandon session")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "session discarded"})
}

// respondSessionError maps session service errors to HTTP statuses
func (h *SessionHandler) respondSessionError(w http.ResponseWriter, err error, logMessage string) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		h.RespondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, services.ErrSessionComplete):
		h.RespondError(w, http.StatusConflict, "session is already complete")
	case errors.Is(err, services.ErrSessionNotComplete):
		h.RespondError(w, http.StatusConflict, "session is not complete")
	default:
		h.Logger.Error(logMessage, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, logMessage)
	}
}
