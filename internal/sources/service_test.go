package sources

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/streamrank/streamrank/internal/health"
	"github.com/streamrank/streamrank/internal/ranking"
	"github.com/streamrank/streamrank/internal/seasonpack"
	"github.com/streamrank/streamrank/internal/source"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func newTestService() *Service {
	return NewService(health.NewDefaultMonitor(), seasonpack.NewDefault(), Options{
		QualityWeight:  0.4,
		HealthWeight:   0.3,
		SizeWeight:     0.1,
		ProviderWeight: 0.2,
	}, zerolog.Nop())
}

func testCandidate(id string, mutate func(*source.Metadata)) source.Metadata {
	m := source.Metadata{
		ID: id,
		Provider: source.Provider{
			ID:          "prov-1",
			DisplayName: "Provider One",
			Type:        source.ProviderTorrent,
			Reliability: source.ReliabilityGood,
		},
		Quality: source.Quality{Resolution: source.Resolution1080p},
		Codec:   source.CodecInfo{Type: source.CodecH264},
		Release: source.Release{Type: source.ReleaseWebDL},
		File:    source.File{Name: "Some.Movie.2020.1080p.WEB-DL.x264"},
		Health:  source.Health{Seeders: intPtr(40), Leechers: intPtr(4)},
	}
	if mutate != nil {
		mutate(&m)
	}
	return m
}

func TestRankSources_QualityOrder(t *testing.T) {
	svc := newTestService()

	candidates := []source.Metadata{
		testCandidate("low", func(m *source.Metadata) { m.Quality.Resolution = source.ResolutionSD }),
		testCandidate("high", func(m *source.Metadata) { m.Quality.Resolution = source.Resolution2160p }),
		testCandidate("mid", nil),
	}

	ranked := svc.RankSources(context.Background(), candidates, ranking.SortByQuality)
	if len(ranked) != 3 {
		t.Fatalf("len = %d, want 3", len(ranked))
	}
	for i, want := range []string{"high", "mid", "low"} {
		if ranked[i].Metadata.ID != want {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Metadata.ID, want)
		}
	}
}

func TestRankSources_AttachesHealthAndBadges(t *testing.T) {
	svc := newTestService()

	candidates := []source.Metadata{
		testCandidate("pack", func(m *source.Metadata) {
			m.Provider.Type = source.ProviderDebrid
			m.Availability.Cached = true
			m.File.Name = "Breaking.Bad.S01.COMPLETE.1080p.WEB-DL.x264"
			m.File.SizeInBytes = int64Ptr(14 << 30)
			m.Health.Seeders = intPtr(500)
			m.Health.Leechers = intPtr(20)
		}),
	}

	ranked := svc.RankSources(context.Background(), candidates, ranking.SortByQuality)
	got := ranked[0]

	if got.Health.OverallScore <= 0 {
		t.Error("health evaluation must be attached")
	}
	want := map[string]bool{"cached": false, "season-pack": false}
	for _, b := range got.Badges {
		if _, ok := want[b]; ok {
			want[b] = true
		}
	}
	for badge, found := range want {
		if !found {
			t.Errorf("missing badge %q in %v", badge, got.Badges)
		}
	}
}

func TestRankSources_WeightedSort(t *testing.T) {
	svc := NewService(health.NewDefaultMonitor(), seasonpack.NewDefault(), Options{
		QualityWeight: 0.1,
		HealthWeight:  0.9,
	}, zerolog.Nop())

	candidates := []source.Metadata{
		testCandidate("pretty", func(m *source.Metadata) {
			m.Quality.Resolution = source.Resolution2160p
			m.Health.Seeders = intPtr(2)
		}),
		testCandidate("healthy", func(m *source.Metadata) {
			m.Quality.Resolution = source.Resolution720p
			m.Health.Seeders = intPtr(3000)
		}),
	}

	ranked := svc.RankSources(context.Background(), candidates, SortWeighted)
	if ranked[0].Metadata.ID != "healthy" {
		t.Errorf("health-heavy weights should rank the big swarm first, got %s", ranked[0].Metadata.ID)
	}
}

func TestRankSources_DefaultSortAndEmptyInput(t *testing.T) {
	svc := newTestService()

	if got := svc.RankSources(context.Background(), nil, ""); len(got) != 0 {
		t.Errorf("empty input must produce empty output, got %d", len(got))
	}

	candidates := []source.Metadata{
		testCandidate("b", nil),
		testCandidate("a", nil),
	}
	ranked := svc.RankSources(context.Background(), candidates, "")
	// Identical candidates: the stable ID tie-break decides.
	if ranked[0].Metadata.ID != "a" {
		t.Errorf("equal candidates must order by ID, got %s first", ranked[0].Metadata.ID)
	}
}

func TestRankSources_CanceledContext(t *testing.T) {
	svc := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := []source.Metadata{testCandidate("a", nil), testCandidate("b", nil)}
	ranked := svc.RankSources(ctx, candidates, ranking.SortByQuality)
	if len(ranked) != len(candidates) {
		t.Fatalf("canceled context must still return every candidate, got %d", len(ranked))
	}
}

func TestRankSources_RecordsHealthHistory(t *testing.T) {
	svc := newTestService()

	candidates := []source.Metadata{testCandidate("src-1", nil)}
	svc.RankSources(context.Background(), candidates, ranking.SortByQuality)

	if _, ok := svc.CachedHealth("src-1"); !ok {
		t.Error("ranking must record a health snapshot per source")
	}
	if got := len(svc.HealthHistory("src-1")); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}
}
