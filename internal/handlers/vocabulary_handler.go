package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/web3vocab/backend/internal/models"
	"go.uber.org/zap"
)

// VocabularyRepository defines read access to the vocabulary
type VocabularyRepository interface {
	// GetAll retrieves words with optional filters and pagination.
	//
	// "ctx" is the context for the request.
	// "category" filters by category; empty means any.
	// "difficulty" filters by difficulty; empty means any.
	// "page" is the 1-based page number.
	// "count" is the number of items per page.
	//
	// Returns the words, the total matching count and an error if any.
	GetAll(ctx context.Context, category string, difficulty models.Difficulty, page, count int) ([]models.Word, int, error)
}

// VocabularyHandler handles vocabulary browsing endpoints
type VocabularyHandler struct {
	BaseHandler
	repo VocabularyRepository
}

// NewVocabularyHandler creates a new vocabulary handler
func NewVocabularyHandler(repo VocabularyRepository, logger *zap.Logger) *VocabularyHandler {
	return &VocabularyHandler{
		BaseHandler: BaseHandler{Logger: logger},
		repo:        repo,
	}
}

// RegisterRoutes registers all vocabulary handler routes
func (h *VocabularyHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/words", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetWords)
	})
}

// GetWords handles GET /api/v1/words
// @Summary Browse the vocabulary
// @Description Paginated list of Web3/DeFi terms with optional category and difficulty filters.
// @Tags words
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty: beginner, intermediate or advanced"
// @Param page query int false "1-based page number (default 1)"
// @Param count query int false "Items per page (default 20, max 100)"
// @Success 200 {object} models.WordListResponse
// @Failure 400 {object} map[string]string "Bad request - invalid difficulty or pagination"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/v1/words [get]
func (h *VocabularyHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	difficulty := models.Difficulty(r.URL.Query().Get("difficulty"))
	if difficulty != "" && !difficulty.Valid() {
		h.RespondError(w, http.StatusBadRequest, "invalid difficulty, must be 'beginner', 'intermediate' or 'advanced'")
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 {
			h.RespondError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = parsed
	}

	count := 20
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		parsed, err := strconv.Atoi(countStr)
		if err != nil || parsed < 1 || parsed > 100 {
			h.RespondError(w, http.StatusBadRequest, "invalid count, must be between 1 and 100")
			return
		}
		count = parsed
	}

	words, total, err := h.repo.GetAll(r.Context(), category, difficulty, page, count)
	if err != nil {
		h.Logger.Error("failed to get words", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get words")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.WordListResponse{Words: words, Total: total})
}
