package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamrank/streamrank/internal/scraper"
)

// providerSummary is the list representation of a loaded manifest.
type providerSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Reliability  string   `json:"reliability"`
	Capabilities []string `json:"capabilities,omitempty"`
}

func (s *Server) setupProviderRoutes(api *echo.Group) {
	g := api.Group("/providers")
	g.GET("", s.listProviders)
	g.POST("/:id/query", s.buildProviderQuery)
	g.POST("/:id/map", s.mapProviderResponse)
}

func (s *Server) manifest(id string) (*scraper.Manifest, bool) {
	for _, m := range s.manifests {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// GET /api/v1/providers
func (s *Server) listProviders(c echo.Context) error {
	out := make([]providerSummary, 0, len(s.manifests))
	for _, m := range s.manifests {
		out = append(out, providerSummary{
			ID:           m.ID,
			Name:         m.Name,
			Type:         string(m.Type),
			Reliability:  string(m.Reliability),
			Capabilities: m.Capabilities,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// POST /api/v1/providers/:id/query
// Builds the search URL a provider would be queried with.
func (s *Server) buildProviderQuery(c echo.Context) error {
	m, ok := s.manifest(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown provider"})
	}

	var ctx scraper.QueryContext
	if err := c.Bind(&ctx); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	url, err := s.queries.BuildURL(m, ctx)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// POST /api/v1/providers/:id/map
// Maps a raw provider response body to source candidates.
func (s *Server) mapProviderResponse(c echo.Context) error {
	m, ok := s.manifest(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown provider"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read request body"})
	}

	candidates, err := s.mapper.MapResponse(m, body)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"candidates": candidates,
		"count":      len(candidates),
	})
}
