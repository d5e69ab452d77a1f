package ranking

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/streamrank/streamrank/internal/source"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func candidate(id string, mutate func(*source.Metadata)) source.Metadata {
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
		Health:  source.Health{Seeders: intPtr(50), Leechers: intPtr(5)},
	}
	if mutate != nil {
		mutate(&m)
	}
	return m
}

func TestQuality_ResolutionDominates(t *testing.T) {
	// A pristine 720p encode never outranks a 2160p remux, no matter how the
	// lower tiers differ.
	remux := candidate("a", func(m *source.Metadata) {
		m.Quality.Resolution = source.Resolution2160p
		m.Codec.Type = source.CodecHEVC
		m.Release.Type = source.ReleaseBlurayRemux
		m.Health.Seeders = intPtr(1)
	})
	webrip := candidate("b", func(m *source.Metadata) {
		m.Quality.Resolution = source.Resolution720p
		m.Codec.Type = source.CodecAV1
		m.Release.Type = source.ReleaseWebRip
		m.Health.Seeders = intPtr(50000)
	})

	if Quality()(&remux, &webrip) >= 0 {
		t.Error("2160p remux must outrank 720p webrip regardless of swarm size")
	}
}

func TestQuality_HDRBreaksTies(t *testing.T) {
	hdr := candidate("a", func(m *source.Metadata) { m.Quality.HDR10 = true })
	sdr := candidate("b", nil)

	if Quality()(&hdr, &sdr) >= 0 {
		t.Error("HDR must win between otherwise identical candidates")
	}

	// The HDR bump must stay within its tier: SDR at a higher release rank
	// still wins.
	better := candidate("c", func(m *source.Metadata) { m.Release.Type = source.ReleaseBluray })
	if Quality()(&better, &hdr) >= 0 {
		t.Error("a higher release tier must beat an HDR flag on a lower one")
	}
}

func TestHealth_NilSeedersSortLast(t *testing.T) {
	zero := candidate("a", func(m *source.Metadata) { m.Health.Seeders = intPtr(0) })
	unknown := candidate("b", func(m *source.Metadata) { m.Health.Seeders = nil })

	if Health()(&zero, &unknown) >= 0 {
		t.Error("a reported zero must sort before an unreported count")
	}
}

func TestSize_NilSortsLastBothDirections(t *testing.T) {
	small := candidate("a", func(m *source.Metadata) { m.File.SizeInBytes = int64Ptr(1 << 30) })
	large := candidate("b", func(m *source.Metadata) { m.File.SizeInBytes = int64Ptr(30 << 30) })
	unknown := candidate("c", func(m *source.Metadata) { m.File.SizeInBytes = nil })

	asc := SizeSmallestFirst()
	if asc(&small, &large) >= 0 {
		t.Error("ascending: smaller must come first")
	}
	if asc(&large, &unknown) >= 0 {
		t.Error("ascending: unknown sizes must sort last")
	}

	desc := SizeLargestFirst()
	if desc(&large, &small) >= 0 {
		t.Error("descending: larger must come first")
	}
	if desc(&small, &unknown) >= 0 {
		t.Error("descending: unknown sizes must still sort last")
	}
}

func TestReleaseType_RemuxFirst(t *testing.T) {
	order := []source.ReleaseType{
		source.ReleaseBlurayRemux,
		source.ReleaseBluray,
		source.ReleaseWebDL,
		source.ReleaseWebRip,
		source.ReleaseHDTV,
		source.ReleaseDVDRip,
		source.ReleaseTelesync,
		source.ReleaseCam,
	}
	cmp := ReleaseType()
	for i := 0; i < len(order)-1; i++ {
		hi := candidate("a", func(m *source.Metadata) { m.Release.Type = order[i] })
		lo := candidate("b", func(m *source.Metadata) { m.Release.Type = order[i+1] })
		if cmp(&hi, &lo) >= 0 {
			t.Errorf("%s must outrank %s", order[i], order[i+1])
		}
	}
}

func TestProviderReliability_NameTieBreak(t *testing.T) {
	alpha := candidate("a", func(m *source.Metadata) { m.Provider.DisplayName = "Alpha" })
	beta := candidate("b", func(m *source.Metadata) { m.Provider.DisplayName = "Beta" })

	if ProviderReliability()(&alpha, &beta) >= 0 {
		t.Error("equal reliability must tie-break on display name")
	}
}

func TestCachedFirst(t *testing.T) {
	cachedSD := candidate("a", func(m *source.Metadata) {
		m.Availability.Cached = true
		m.Quality.Resolution = source.ResolutionSD
	})
	uncached4K := candidate("b", func(m *source.Metadata) {
		m.Quality.Resolution = source.Resolution2160p
	})

	if CachedFirst()(&cachedSD, &uncached4K) >= 0 {
		t.Error("cached candidates must precede uncached ones regardless of quality")
	}

	// Both cached: quality decides.
	cached4K := candidate("c", func(m *source.Metadata) {
		m.Availability.Cached = true
		m.Quality.Resolution = source.Resolution2160p
	})
	if CachedFirst()(&cached4K, &cachedSD) >= 0 {
		t.Error("between cached candidates, quality must decide")
	}
}

func TestDebridFirst_ProviderTypeOrder(t *testing.T) {
	debrid := candidate("a", func(m *source.Metadata) { m.Provider.Type = source.ProviderDebrid })
	direct := candidate("b", func(m *source.Metadata) { m.Provider.Type = source.ProviderDirectStream })
	torrent := candidate("c", func(m *source.Metadata) { m.Provider.Type = source.ProviderTorrent })

	cmp := DebridFirst()
	if cmp(&debrid, &direct) >= 0 || cmp(&direct, &torrent) >= 0 {
		t.Error("want debrid before direct streams before torrents")
	}
}

func TestAddedNewestFirst(t *testing.T) {
	now := time.Now()
	fresh := candidate("a", func(m *source.Metadata) { m.File.AddedDate = timePtr(now) })
	old := candidate("b", func(m *source.Metadata) { m.File.AddedDate = timePtr(now.Add(-24 * time.Hour)) })
	unknown := candidate("c", nil)

	cmp := AddedNewestFirst()
	if cmp(&fresh, &old) >= 0 {
		t.Error("newer uploads must come first")
	}
	if cmp(&old, &unknown) >= 0 {
		t.Error("unknown dates must sort last")
	}
}

func TestAndroidTVOptimized(t *testing.T) {
	instant := candidate("a", func(m *source.Metadata) {
		m.Provider.Type = source.ProviderDebrid
		m.Availability.Cached = true
		m.Quality.Resolution = source.Resolution720p
	})
	swarm := candidate("b", func(m *source.Metadata) {
		m.Quality.Resolution = source.Resolution2160p
		m.Health.Seeders = intPtr(9000)
	})
	// Cached on a non-debrid provider is not an instant start.
	cachedTorrent := candidate("c", func(m *source.Metadata) {
		m.Availability.Cached = true
		m.Quality.Resolution = source.Resolution2160p
		m.Health.Seeders = intPtr(9000)
	})

	cmp := AndroidTVOptimized()
	if cmp(&instant, &swarm) >= 0 {
		t.Error("instant-start candidates must lead on TV profiles")
	}
	if cmp(&cachedTorrent, &instant) <= 0 {
		t.Error("cached flag without a debrid provider must not count as instant start")
	}
}

func TestChain_FallsThrough(t *testing.T) {
	a := candidate("a", func(m *source.Metadata) { m.Health.Seeders = intPtr(100) })
	b := candidate("b", func(m *source.Metadata) { m.Health.Seeders = intPtr(10) })

	// Identical quality: the chain must reach the health comparator.
	cmp := Chain(Quality(), Health())
	if cmp(&a, &b) >= 0 {
		t.Error("chain must fall through equal quality to health")
	}
	if Chain()(&a, &b) != 0 {
		t.Error("empty chain must report every pair equal")
	}
}

func TestWeighted(t *testing.T) {
	quality := candidate("a", func(m *source.Metadata) {
		m.Quality.Resolution = source.Resolution2160p
		m.Release.Type = source.ReleaseBlurayRemux
		m.Health.Seeders = intPtr(5)
	})
	healthy := candidate("b", func(m *source.Metadata) {
		m.Quality.Resolution = source.Resolution720p
		m.Health.Seeders = intPtr(2000)
	})

	qualityHeavy := Weighted(0.9, 0.1, 0, 0)
	if qualityHeavy(&quality, &healthy) >= 0 {
		t.Error("quality-heavy weights must favor the remux")
	}

	healthHeavy := Weighted(0.1, 0.9, 0, 0)
	if healthHeavy(&healthy, &quality) >= 0 {
		t.Error("health-heavy weights must favor the big swarm")
	}

	// Degenerate weights fall back to quality ordering.
	fallback := Weighted(0, 0, 0, 0)
	if fallback(&quality, &healthy) >= 0 {
		t.Error("zero weights must degrade to quality ordering")
	}
}

func TestMakeStable_TotalOrder(t *testing.T) {
	a := candidate("aaa", nil)
	b := candidate("bbb", nil)

	cmp := MakeStable(Quality())
	if cmp(&a, &b) >= 0 || cmp(&b, &a) <= 0 {
		t.Error("equal candidates must order by ID under MakeStable")
	}
	if cmp(&a, &a) != 0 {
		t.Error("a candidate must compare equal to itself")
	}
}

func TestSort_StableOnTies(t *testing.T) {
	var in []source.Metadata
	for i := 0; i < 16; i++ {
		in = append(in, candidate(string(rune('a'+i)), nil))
	}
	got := make([]source.Metadata, len(in))
	copy(got, in)

	// An always-equal comparator must leave the incoming order untouched.
	Sort(got, func(a, b *source.Metadata) int { return 0 })
	if !reflect.DeepEqual(got, in) {
		t.Error("stable sort with an always-equal comparator must preserve input order")
	}
}

func TestSort_DeterministicAcrossShuffles(t *testing.T) {
	base := []source.Metadata{
		candidate("id-1", func(m *source.Metadata) { m.Quality.Resolution = source.Resolution2160p }),
		candidate("id-2", func(m *source.Metadata) { m.Quality.Resolution = source.Resolution720p }),
		candidate("id-3", nil),
		candidate("id-4", func(m *source.Metadata) { m.Health.Seeders = intPtr(999) }),
		candidate("id-5", func(m *source.Metadata) { m.Release.Type = source.ReleaseBlurayRemux }),
	}
	cmp := MakeStable(ForSortOption(SortByQuality))

	want := make([]source.Metadata, len(base))
	copy(want, base)
	Sort(want, cmp)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]source.Metadata, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		Sort(shuffled, cmp)
		if !reflect.DeepEqual(shuffled, want) {
			t.Fatalf("trial %d: stable comparator must yield identical order for any input permutation", trial)
		}
	}
}

func TestForSortOption(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		opt    SortOption
		winner source.Metadata
		loser  source.Metadata
	}{
		{
			name:   "seeders",
			opt:    SortBySeeders,
			winner: candidate("a", func(m *source.Metadata) { m.Health.Seeders = intPtr(500) }),
			loser:  candidate("b", func(m *source.Metadata) { m.Health.Seeders = intPtr(5) }),
		},
		{
			name:   "size",
			opt:    SortBySize,
			winner: candidate("a", func(m *source.Metadata) { m.File.SizeInBytes = int64Ptr(40 << 30) }),
			loser:  candidate("b", func(m *source.Metadata) { m.File.SizeInBytes = int64Ptr(1 << 30) }),
		},
		{
			name:   "addedDate",
			opt:    SortByAddedDate,
			winner: candidate("a", func(m *source.Metadata) { m.File.AddedDate = timePtr(now) }),
			loser:  candidate("b", func(m *source.Metadata) { m.File.AddedDate = timePtr(now.Add(-time.Hour)) }),
		},
		{
			name:   "provider",
			opt:    SortByProvider,
			winner: candidate("a", func(m *source.Metadata) { m.Provider.Reliability = source.ReliabilityExcellent }),
			loser:  candidate("b", func(m *source.Metadata) { m.Provider.Reliability = source.ReliabilityPoor }),
		},
		{
			name:   "releaseType",
			opt:    SortByReleaseType,
			winner: candidate("a", func(m *source.Metadata) { m.Release.Type = source.ReleaseBlurayRemux }),
			loser:  candidate("b", func(m *source.Metadata) { m.Release.Type = source.ReleaseCam }),
		},
		{
			name:   "unknown option falls back to quality",
			opt:    SortOption("bogus"),
			winner: candidate("a", func(m *source.Metadata) { m.Quality.Resolution = source.Resolution2160p }),
			loser:  candidate("b", func(m *source.Metadata) { m.Quality.Resolution = source.ResolutionSD }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ForSortOption(tt.opt)(&tt.winner, &tt.loser) >= 0 {
				t.Errorf("option %q: expected %s before %s", tt.opt, tt.winner.ID, tt.loser.ID)
			}
		})
	}
}
