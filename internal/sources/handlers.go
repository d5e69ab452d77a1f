package sources

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamrank/streamrank/internal/ranking"
	"github.com/streamrank/streamrank/internal/release"
	"github.com/streamrank/streamrank/internal/seasonpack"
	"github.com/streamrank/streamrank/internal/source"
)

// Handlers provides the HTTP surface for source ranking.
type Handlers struct {
	service *Service
	packs   *seasonpack.Detector
}

// NewHandlers creates the source ranking handlers.
func NewHandlers(service *Service, packs *seasonpack.Detector) *Handlers {
	return &Handlers{service: service, packs: packs}
}

// RegisterRoutes registers the source routes on a group, typically
// /api/v1/sources.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/rank", h.Rank)
	g.GET("/health/:id", h.Health)
	g.GET("/health/:id/history", h.HealthHistory)
	g.POST("/parse", h.Parse)
	g.POST("/analyze", h.Analyze)
}

// RankRequest is the payload for POST /rank.
type RankRequest struct {
	Sources []source.Metadata  `json:"sources"`
	Sort    ranking.SortOption `json:"sort"`
}

// Rank scores and orders the submitted candidates.
// POST /api/v1/sources/rank
func (h *Handlers) Rank(c echo.Context) error {
	var req RankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if len(req.Sources) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "sources must not be empty",
		})
	}

	ranked := h.service.RankSources(c.Request().Context(), req.Sources, req.Sort)
	return c.JSON(http.StatusOK, map[string]any{
		"results": ranked,
		"count":   len(ranked),
	})
}

// Health returns the latest recorded evaluation for a source.
// GET /api/v1/sources/health/:id
func (h *Handlers) Health(c echo.Context) error {
	data, ok := h.service.CachedHealth(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "No health data recorded for source",
		})
	}
	return c.JSON(http.StatusOK, data)
}

// HealthHistory returns the recorded evaluations for a source, oldest first.
// GET /api/v1/sources/health/:id/history
func (h *Handlers) HealthHistory(c echo.Context) error {
	history := h.service.HealthHistory(c.Param("id"))
	return c.JSON(http.StatusOK, map[string]any{
		"snapshots": history,
		"count":     len(history),
	})
}

// TitleRequest is the payload for the parse and analyze debug endpoints.
type TitleRequest struct {
	Title    string `json:"title"`
	FileSize int64  `json:"fileSize"`
}

// Parse returns the structured metadata extracted from a release title.
// POST /api/v1/sources/parse
func (h *Handlers) Parse(c echo.Context) error {
	var req TitleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "title must not be empty",
		})
	}
	return c.JSON(http.StatusOK, release.Parse(req.Title))
}

// Analyze returns the season-pack classification for a release title.
// POST /api/v1/sources/analyze
func (h *Handlers) Analyze(c echo.Context) error {
	var req TitleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "title must not be empty",
		})
	}
	return c.JSON(http.StatusOK, h.packs.Analyze(req.Title, req.FileSize))
}
