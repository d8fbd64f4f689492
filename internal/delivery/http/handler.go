package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	controller *usecase.Controller
}

// NewHandler creates a new HTTP handler
func NewHandler(controller *usecase.Controller) *Handler {
	return &Handler{controller: controller}
}

// SearchRequest is the body of POST /search
type SearchRequest struct {
	Query string `json:"query"`
}

// QueryTextRequest is the body of PUT /results/query
type QueryTextRequest struct {
	Text string `json:"text"`
}

// FilterRequest is the body of the stateless POST /filter
type FilterRequest struct {
	Recipes []domain.Recipe     `json:"recipes"`
	Filters domain.FilterConfig `json:"filters"`
	Text    string              `json:"text"`
}

// FavoriteToggleResponse is returned by POST /favorites/:id/toggle
type FavoriteToggleResponse struct {
	Recipe     domain.RecipeCard `json:"recipe"`
	IsFavorite bool              `json:"isFavorite"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipefinder-backend",
		"version": "1.0.0",
	})
}

// Search runs an ingredient search. Search outcomes are part of the view;
// the status code reflects the error kind.
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, "Request body must be JSON with a \"query\" field.")
		return
	}

	view := h.controller.Search(c.Request.Context(), req.Query)
	c.JSON(statusForKind(view.ErrorKind), view)
}

// GetResults returns the current result view
func (h *Handler) GetResults(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.View())
}

// ClearResults clears the current search
func (h *Handler) ClearResults(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Clear())
}

// SetQueryText updates the active ingredient text without searching
func (h *Handler) SetQueryText(c *gin.Context) {
	var req QueryTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, "Request body must be JSON with a \"text\" field.")
		return
	}
	c.JSON(http.StatusOK, h.controller.SetQueryText(req.Text))
}

// GetFilters returns the current filter settings
func (h *Handler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Filters())
}

// SetFilters replaces the filter settings and returns the refiltered view
func (h *Handler) SetFilters(c *gin.Context) {
	var cfg domain.FilterConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respondError(c, domain.ErrInvalidRequest, "Request body must be a filter object.")
		return
	}

	view, err := h.controller.SetFilters(cfg)
	if err != nil {
		respondError(c, err, err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

// ResetFilters restores default filters
func (h *Handler) ResetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.ResetFilters())
}

// GetRecipe fetches one recipe for the detail view
func (h *Handler) GetRecipe(c *gin.Context) {
	card, err := h.controller.LookupByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, card)
}

// ListFavorites returns every favorite recipe
func (h *Handler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": h.controller.Favorites()})
}

// ToggleFavorite adds or removes a recipe from favorites
func (h *Handler) ToggleFavorite(c *gin.Context) {
	card, err := h.controller.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, FavoriteToggleResponse{Recipe: card, IsFavorite: card.IsFavorite})
}

// GetHistory returns recent searches, newest first
func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.controller.History()})
}

// ClearHistory empties the search history
func (h *Handler) ClearHistory(c *gin.Context) {
	h.controller.ClearHistory(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"history": []string{}})
}

// GetSuggestions returns the quick-search ingredients
func (h *Handler) GetSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": h.controller.Suggestions()})
}

// FilterRecipes applies filters to the posted recipes without touching session state
func (h *Handler) FilterRecipes(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, "Request body must contain recipes and filters.")
		return
	}

	difficulty, err := domain.ParseDifficulty(string(req.Filters.Difficulty))
	if err != nil || !domain.ValidSort(req.Filters.SortBy) {
		respondError(c, domain.ErrInvalidRequest, "Unknown difficulty or sort order.")
		return
	}
	req.Filters.Difficulty = difficulty

	filtered := usecase.ApplyFilters(req.Recipes, req.Filters, req.Text)
	cards := usecase.Annotate(filtered, h.controller.IsFavorite)

	c.JSON(http.StatusOK, gin.H{
		"totalCount": len(req.Recipes),
		"shownCount": len(cards),
		"recipes":    cards,
	})
}

// respondError writes the error kind, a user message and the mapped status.
// An empty message uses the standard user message for err.
func respondError(c *gin.Context, err error, message string) {
	kind := usecase.ErrorKind(err)
	if message == "" {
		message = usecase.UserMessage(err, "")
	}
	c.JSON(statusForKind(kind), gin.H{
		"error":   kind,
		"message": message,
	})
}

// statusForKind maps an error kind to an HTTP status
func statusForKind(kind string) int {
	switch kind {
	case "", usecase.KindNoMatches:
		return http.StatusOK
	case usecase.KindEmptyQuery, usecase.KindInvalidRequest:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindTimeout:
		return http.StatusGatewayTimeout
	case usecase.KindNetwork, usecase.KindServerError, usecase.KindDetailsUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
