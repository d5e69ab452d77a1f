package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"
)

// QueryContext carries the search parameters available to URL templates.
type QueryContext struct {
	Query   string
	Season  int
	Episode int
	Year    int
	IMDBID  string
	Limit   int
}

// Engine renders manifest URL templates. Templates use the standard
// text/template syntax with a small function map; unknown fields fail the
// render instead of producing broken URLs.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine creates a template engine with the built-in function set.
func NewEngine() *Engine {
	return &Engine{funcs: template.FuncMap{
		"tolower":     strings.ToLower,
		"toupper":     strings.ToUpper,
		"trim":        strings.TrimSpace,
		"replace":     func(s, old, new string) string { return strings.ReplaceAll(s, old, new) },
		"queryescape": url.QueryEscape,
		"pathescape":  url.PathEscape,
		"default": func(fallback, value string) string {
			if value == "" {
				return fallback
			}
			return value
		},
	}}
}

// Render evaluates one template string against the query context.
func (e *Engine) Render(text string, ctx QueryContext) (string, error) {
	tmpl, err := template.New("url").Option("missingkey=error").Funcs(e.funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
