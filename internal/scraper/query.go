package scraper

import (
	"fmt"
	"net/url"
)

// QueryBuilder turns a manifest plus search parameters into a request URL.
type QueryBuilder struct {
	engine *Engine
}

// NewQueryBuilder creates a query builder with a fresh template engine.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{engine: NewEngine()}
}

// BuildURL renders the manifest's URL template and validates the result is an
// absolute http(s) URL.
func (b *QueryBuilder) BuildURL(m *Manifest, ctx QueryContext) (string, error) {
	rendered, err := b.engine.Render(m.Search.URL, ctx)
	if err != nil {
		return "", fmt.Errorf("provider %s: %w", m.ID, err)
	}

	u, err := url.Parse(rendered)
	if err != nil {
		return "", fmt.Errorf("provider %s produced an invalid URL: %w", m.ID, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("provider %s produced a non-absolute URL %q", m.ID, rendered)
	}
	return rendered, nil
}
