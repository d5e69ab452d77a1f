package scraper

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/streamrank/streamrank/internal/release"
	"github.com/streamrank/streamrank/internal/seasonpack"
	"github.com/streamrank/streamrank/internal/source"
)

// Candidate couples the canonical metadata record with the parse artifacts it
// was derived from, so downstream layers can show pack badges or parsed
// details without re-parsing the title.
type Candidate struct {
	Metadata source.Metadata `json:"metadata"`
	Parsed   release.Info    `json:"parsed"`
	Pack     seasonpack.Info `json:"pack"`
}

// Mapper converts raw provider JSON responses into candidates.
type Mapper struct {
	packs *seasonpack.Detector
	log   zerolog.Logger
}

// NewMapper creates a mapper using the given pack detector.
func NewMapper(packs *seasonpack.Detector, log zerolog.Logger) *Mapper {
	return &Mapper{
		packs: packs,
		log:   log.With().Str("component", "scraper").Logger(),
	}
}

// MapResponse extracts stream records from a provider response body using the
// manifest's field paths. Malformed entries are skipped with a warning; only
// an undecodable body or a missing streams array fails the whole batch.
func (m *Mapper) MapResponse(manifest *Manifest, body []byte) ([]Candidate, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("provider %s: failed to decode response: %w", manifest.ID, err)
	}

	streamsVal, ok := valueAt(data, manifest.Response.Streams)
	if !ok {
		return nil, fmt.Errorf("provider %s: no value at streams path %q", manifest.ID, manifest.Response.Streams)
	}
	streams, ok := streamsVal.([]any)
	if !ok {
		return nil, fmt.Errorf("provider %s: streams path %q is not an array", manifest.ID, manifest.Response.Streams)
	}

	provider := manifest.Provider()
	candidates := make([]Candidate, 0, len(streams))
	for i, stream := range streams {
		c, ok := m.mapStream(manifest, provider, stream)
		if !ok {
			m.log.Warn().
				Str("provider", manifest.ID).
				Int("index", i).
				Msg("skipping malformed stream record")
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (m *Mapper) mapStream(manifest *Manifest, provider source.Provider, stream any) (Candidate, bool) {
	paths := manifest.Response.Fields

	title, ok := stringAt(stream, paths.Title)
	if !ok || title == "" {
		return Candidate{}, false
	}

	parsed := release.Parse(title)

	meta := source.Metadata{
		Provider: provider,
		Quality: source.Quality{
			Resolution:  parsed.Resolution,
			HDR10:       parsed.HDR10,
			HDR10Plus:   parsed.HDR10Plus,
			DolbyVision: parsed.DolbyVision,
		},
		Codec: source.CodecInfo{Type: parsed.Codec},
		Audio: source.Audio{
			Format:     parsed.AudioFormat,
			DolbyAtmos: parsed.DolbyAtmos,
			DTSX:       parsed.DTSX,
		},
		Release: source.Release{
			Type:    parsed.ReleaseType,
			Group:   parsed.Group,
			Edition: parsed.Edition,
			Year:    parsed.Year,
		},
		File:         source.File{Name: title},
		Availability: source.Availability{IsAvailable: true},
	}

	if id, ok := stringAt(stream, paths.ID); ok && id != "" {
		meta.ID = id
	} else {
		meta.ID = uuid.NewString()
	}

	// The size field may be raw bytes or a human string; the parsed title is
	// the fallback.
	if bytes, ok := int64At(stream, paths.Size); ok && bytes > 0 {
		meta.File.SizeInBytes = &bytes
	} else if s, ok := stringAt(stream, paths.Size); ok {
		if bytes, ok := release.ParseSize(s); ok {
			meta.File.SizeInBytes = &bytes
		}
	}
	if meta.File.SizeInBytes == nil && parsed.SizeBytes != nil {
		meta.File.SizeInBytes = parsed.SizeBytes
	}

	if hash, ok := stringAt(stream, paths.Hash); ok {
		meta.File.Hash = hash
	}
	if added, ok := timeAt(stream, paths.Added); ok {
		meta.File.AddedDate = &added
	}

	// Explicit response fields win over counters parsed from the title.
	if seeders, ok := intAt(stream, paths.Seeders); ok {
		meta.Health.Seeders = &seeders
	} else {
		meta.Health.Seeders = parsed.Seeders
	}
	if leechers, ok := intAt(stream, paths.Leechers); ok {
		meta.Health.Leechers = &leechers
	} else {
		meta.Health.Leechers = parsed.Leechers
	}

	if cached, ok := boolAt(stream, paths.Cached); ok {
		meta.Availability.Cached = cached
	}

	var size int64
	if meta.File.SizeInBytes != nil {
		size = *meta.File.SizeInBytes
	}
	pack := m.packs.Analyze(title, size)

	return Candidate{Metadata: meta, Parsed: parsed, Pack: pack}, true
}
