// Package sources orchestrates scoring and ranking of discovered stream
// candidates and exposes the result over HTTP.
package sources

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/streamrank/streamrank/internal/health"
	"github.com/streamrank/streamrank/internal/ranking"
	"github.com/streamrank/streamrank/internal/seasonpack"
	"github.com/streamrank/streamrank/internal/source"
)

// RankedSource is one candidate with its health evaluation and presentation
// badges attached, in final presentation order.
type RankedSource struct {
	Metadata source.Metadata  `json:"metadata"`
	Health   health.ScoreData `json:"health"`
	Badges   []string         `json:"badges"`
}

// Options tunes the ranking service.
type Options struct {
	// Workers bounds the scoring fan-out. Zero means DefaultWorkers.
	Workers int
	// DefaultSort is used when a request names no sort option.
	DefaultSort ranking.SortOption
	// Weights drive the weighted comparator exposed as the "weighted" sort.
	QualityWeight  float64
	HealthWeight   float64
	SizeWeight     float64
	ProviderWeight float64
}

// DefaultWorkers is the scoring fan-out bound when none is configured.
const DefaultWorkers = 8

// SortWeighted selects the weighted blend comparator built from the
// service's configured weights.
const SortWeighted ranking.SortOption = "weighted"

// Service ranks source candidates. Scoring runs concurrently per source; the
// final sort is single-threaded and stable.
type Service struct {
	monitor *health.Monitor
	packs   *seasonpack.Detector
	opts    Options
	log     zerolog.Logger
}

// NewService creates a ranking service.
func NewService(monitor *health.Monitor, packs *seasonpack.Detector, opts Options, log zerolog.Logger) *Service {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = ranking.SortByQuality
	}
	return &Service{
		monitor: monitor,
		packs:   packs,
		opts:    opts,
		log:     log.With().Str("component", "sources").Logger(),
	}
}

// RankSources scores every candidate and returns them in presentation order.
// Scoring fans out across a bounded worker pool; results land in their input
// slot so the pre-sort order is deterministic, then a single stable sort with
// an ID tie-break produces the final ordering. A canceled context skips any
// remaining health evaluation; unscored candidates still pass through the
// final sort.
func (s *Service) RankSources(ctx context.Context, candidates []source.Metadata, opt ranking.SortOption) []RankedSource {
	if opt == "" {
		opt = s.opts.DefaultSort
	}

	ranked := make([]RankedSource, len(candidates))
	sem := make(chan struct{}, s.opts.Workers)
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				ranked[i] = RankedSource{Metadata: candidates[i]}
				return
			}
			meta := candidates[i]
			score := s.monitor.Evaluate(meta.ID, meta.Health, meta.Provider)
			ranked[i] = RankedSource{
				Metadata: meta,
				Health:   score,
				Badges:   s.badges(meta, score),
			}
		}(i)
	}
	wg.Wait()

	cmp := ranking.MakeStable(s.comparator(opt))
	sort.SliceStable(ranked, func(i, j int) bool {
		return cmp(&ranked[i].Metadata, &ranked[j].Metadata) < 0
	})

	s.log.Debug().
		Int("candidates", len(candidates)).
		Str("sort", string(opt)).
		Msg("ranked source candidates")
	return ranked
}

func (s *Service) comparator(opt ranking.SortOption) ranking.Comparator {
	if opt == SortWeighted {
		return ranking.Weighted(
			s.opts.QualityWeight,
			s.opts.HealthWeight,
			s.opts.SizeWeight,
			s.opts.ProviderWeight,
		)
	}
	return ranking.ForSortOption(opt)
}

// CachedHealth returns the most recent recorded evaluation for a source.
func (s *Service) CachedHealth(sourceID string) (health.ScoreData, bool) {
	return s.monitor.Cached(sourceID)
}

// HealthHistory returns the recorded evaluations for a source, oldest first.
func (s *Service) HealthHistory(sourceID string) []health.ScoreData {
	return s.monitor.History(sourceID)
}

// badges derives the presentation badges for one candidate: instant
// availability, pack shape, HDR and swarm status.
func (s *Service) badges(meta source.Metadata, score health.ScoreData) []string {
	var badges []string
	if meta.Availability.Cached {
		badges = append(badges, "cached")
	}

	var size int64
	if meta.File.SizeInBytes != nil {
		size = *meta.File.SizeInBytes
	}
	pack := s.packs.Analyze(meta.File.Name, size)
	switch pack.PackType {
	case seasonpack.PackCompleteSeason:
		badges = append(badges, "season-pack")
	case seasonpack.PackPartialSeason:
		badges = append(badges, "partial-season")
	case seasonpack.PackMultiSeason:
		badges = append(badges, "multi-season")
	case seasonpack.PackCompleteSeries:
		badges = append(badges, "complete-series")
	}

	if meta.Quality.HasHDR() {
		badges = append(badges, "hdr")
	}
	badges = append(badges, "health-"+string(score.P2P.Status))
	return badges
}
