package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/streamrank/streamrank/internal/source"
)

// SortOption names a user-selectable presentation ordering.
type SortOption string

const (
	SortByQuality     SortOption = "quality"
	SortBySeeders     SortOption = "seeders"
	SortBySize        SortOption = "size"
	SortByAddedDate   SortOption = "addedDate"
	SortByProvider    SortOption = "provider"
	SortByReleaseType SortOption = "releaseType"
)

// Composite builds a three-level comparator: ties at each level fall through
// to the next.
func Composite(primary, secondary, tertiary Comparator) Comparator {
	return Chain(primary, secondary, tertiary)
}

// Chain evaluates comparators in order and returns the first non-zero
// verdict. An empty chain reports every pair as equal.
func Chain(cmps ...Comparator) Comparator {
	return func(a, b *source.Metadata) int {
		for _, cmp := range cmps {
			if d := cmp(a, b); d != 0 {
				return d
			}
		}
		return 0
	}
}

// Weighted blends quality, swarm health, file size and provider reliability
// into a single score. Each sub-score is normalized to 0-100 before
// weighting, so the weights express relative importance directly; weights
// are renormalized to sum to one, and a non-positive total falls back to
// pure quality ordering.
func Weighted(quality, health, size, provider float64) Comparator {
	total := quality + health + size + provider
	if total <= 0 {
		return Quality()
	}
	quality /= total
	health /= total
	size /= total
	provider /= total

	score := func(m *source.Metadata) float64 {
		return quality*normalizedQuality(m) +
			health*normalizedHealth(m) +
			size*normalizedSize(m) +
			provider*normalizedProvider(m)
	}
	return func(a, b *source.Metadata) int {
		sa, sb := score(a), score(b)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	}
}

func normalizedQuality(m *source.Metadata) float64 {
	return float64(QualityScore(m)) * 100 / float64(maxQualityScore)
}

// normalizedHealth maps seeder counts onto 0-100 with a log curve so the
// difference between 0 and 50 seeders matters far more than the difference
// between 1000 and 2000. Unreported counts score zero.
func normalizedHealth(m *source.Metadata) float64 {
	seeders := m.Health.SeederCount()
	if seeders <= 0 {
		return 0
	}
	s := math.Log2(1+float64(seeders)) / math.Log2(1001) * 100
	return math.Min(s, 100)
}

// normalizedSize treats larger files as a bitrate proxy, saturating at
// 100 GiB on a log curve. Unknown sizes score zero.
func normalizedSize(m *source.Metadata) float64 {
	if m.File.SizeInBytes == nil || *m.File.SizeInBytes <= 0 {
		return 0
	}
	gib := float64(*m.File.SizeInBytes) / (1 << 30)
	s := math.Log2(1+gib) / math.Log2(101) * 100
	return math.Min(s, 100)
}

func normalizedProvider(m *source.Metadata) float64 {
	return float64(m.Provider.Reliability.Rank()) * 25
}

// MakeStable wraps a comparator with a final lexicographic tie-break on
// source ID, making the induced order total whenever IDs are unique.
func MakeStable(cmp Comparator) Comparator {
	return func(a, b *source.Metadata) int {
		if d := cmp(a, b); d != 0 {
			return d
		}
		return strings.Compare(a.ID, b.ID)
	}
}

// ForSortOption maps a user-facing sort option to its comparator. Unknown
// options fall back to quality.
func ForSortOption(opt SortOption) Comparator {
	switch opt {
	case SortBySeeders:
		return Composite(Health(), Quality(), ProviderReliability())
	case SortBySize:
		return Composite(SizeLargestFirst(), Quality(), Health())
	case SortByAddedDate:
		return Composite(AddedNewestFirst(), Quality(), Health())
	case SortByProvider:
		return Composite(ProviderReliability(), Quality(), Health())
	case SortByReleaseType:
		return Composite(ReleaseType(), Quality(), Health())
	case SortByQuality:
		fallthrough
	default:
		return Composite(Quality(), Health(), ProviderReliability())
	}
}

// Sort orders candidates in place with a stable sort, preserving the
// incoming order for pairs the comparator reports as equal.
func Sort(sources []source.Metadata, cmp Comparator) {
	sort.SliceStable(sources, func(i, j int) bool {
		return cmp(&sources[i], &sources[j]) < 0
	})
}
