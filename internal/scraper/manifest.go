// Package scraper turns declarative provider manifests into search URLs and
// maps raw provider JSON responses onto the canonical source model. It never
// performs network I/O; callers own fetching and pass response bodies in.
package scraper

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/streamrank/streamrank/internal/source"
)

// Manifest is one provider definition, loaded from YAML. It carries the
// provider identity, the search URL template and the dot-notation paths used
// to pull stream fields out of the provider's JSON response.
type Manifest struct {
	ID           string              `yaml:"id"`
	Name         string              `yaml:"name"`
	Type         source.ProviderType `yaml:"type"`
	Reliability  source.Reliability  `yaml:"reliability"`
	Capabilities []string            `yaml:"capabilities"`

	Search   SearchBlock   `yaml:"search"`
	Response ResponseBlock `yaml:"response"`
}

// SearchBlock describes how to build a search request.
type SearchBlock struct {
	// URL is a text/template producing the full request URL.
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// ResponseBlock describes where stream records live in the response and which
// path yields each field.
type ResponseBlock struct {
	// Streams is the dot-notation path to the array of stream records.
	// An empty path means the response root is the array itself.
	Streams string     `yaml:"streams"`
	Fields  FieldPaths `yaml:"fields"`
}

// FieldPaths holds per-field dot-notation paths, evaluated relative to one
// stream record. Title is the only required path.
type FieldPaths struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Size     string `yaml:"size"`
	Seeders  string `yaml:"seeders"`
	Leechers string `yaml:"leechers"`
	Hash     string `yaml:"hash"`
	Cached   string `yaml:"cached"`
	Added    string `yaml:"added"`
}

// ParseManifest decodes and validates a single YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadManifestDir loads every .yml/.yaml manifest in a directory, sorted by
// provider ID for deterministic ordering.
func LoadManifestDir(dir string) ([]*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory %s: %w", dir, err)
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		m, err := LoadManifest(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].ID < manifests[j].ID })
	return manifests, nil
}

func (m *Manifest) validate() error {
	if m.ID == "" {
		return fmt.Errorf("manifest is missing id")
	}
	if m.Name == "" {
		return fmt.Errorf("manifest %s is missing name", m.ID)
	}
	if m.Search.URL == "" {
		return fmt.Errorf("manifest %s is missing search.url", m.ID)
	}
	if m.Response.Fields.Title == "" {
		return fmt.Errorf("manifest %s is missing response.fields.title", m.ID)
	}
	if m.Type == "" {
		m.Type = source.ProviderTorrent
	}
	if m.Reliability == "" {
		m.Reliability = source.ReliabilityFair
	}
	return nil
}

// Provider returns the provider identity this manifest describes.
func (m *Manifest) Provider() source.Provider {
	return source.Provider{
		ID:           m.ID,
		DisplayName:  m.Name,
		Type:         m.Type,
		Reliability:  m.Reliability,
		Capabilities: m.Capabilities,
	}
}
