// Package ranking provides total-order comparators over source metadata and
// the composition utilities used to build the final presentation ordering.
//
// Every comparator follows the cmp convention: negative when a sorts before
// b, zero on ties. Comparators never panic; missing or unparsed fields always
// sort last for the metric in question.
package ranking

import (
	"strings"

	"github.com/streamrank/streamrank/internal/source"
)

// Comparator orders two source candidates. Negative means a ranks first.
type Comparator func(a, b *source.Metadata) int

// Composite quality weights. Resolution dominates, then codec efficiency,
// then release fidelity, with a small HDR bump that can only break ties
// within an otherwise identical tier.
const (
	resolutionWeight  = 1000
	codecWeight       = 100
	releaseTypeWeight = 10
	hdrBonus          = 5
)

// maxQualityScore is the highest achievable composite score, used to
// normalize quality into the common 0-100 range for weighted blending.
const maxQualityScore = 5*resolutionWeight + 5*codecWeight + 8*releaseTypeWeight + hdrBonus

// QualityScore computes the composite quality score for one candidate.
// Unknown attributes contribute zero, so fully unparsed candidates score 0
// and sort behind anything with detected metadata.
func QualityScore(m *source.Metadata) int {
	score := m.Quality.Resolution.Rank()*resolutionWeight +
		m.Codec.Type.Rank()*codecWeight +
		m.Release.Type.Rank()*releaseTypeWeight
	if m.Quality.HasHDR() {
		score += hdrBonus
	}
	return score
}

// Quality orders by composite quality score, best first.
func Quality() Comparator {
	return func(a, b *source.Metadata) int {
		return QualityScore(b) - QualityScore(a)
	}
}

// Health orders by seeder count descending. Unreported counts are treated as
// -1 so they sort behind a reported zero.
func Health() Comparator {
	return func(a, b *source.Metadata) int {
		return b.Health.SeederCount() - a.Health.SeederCount()
	}
}

// SizeSmallestFirst orders by file size ascending; unknown sizes sort last.
func SizeSmallestFirst() Comparator {
	return func(a, b *source.Metadata) int {
		return compareSize(a, b, false)
	}
}

// SizeLargestFirst orders by file size descending; unknown sizes still sort
// last, regardless of direction.
func SizeLargestFirst() Comparator {
	return func(a, b *source.Metadata) int {
		return compareSize(a, b, true)
	}
}

func compareSize(a, b *source.Metadata, largestFirst bool) int {
	sa, sb := a.File.SizeInBytes, b.File.SizeInBytes
	switch {
	case sa == nil && sb == nil:
		return 0
	case sa == nil:
		return 1
	case sb == nil:
		return -1
	}
	switch {
	case *sa == *sb:
		return 0
	case (*sa < *sb) != largestFirst:
		return -1
	default:
		return 1
	}
}

// ReleaseType orders strictly by release fidelity, remuxes first.
func ReleaseType() Comparator {
	return func(a, b *source.Metadata) int {
		return b.Release.Type.Rank() - a.Release.Type.Rank()
	}
}

// ProviderReliability orders by the configured provider reliability, best
// first, with a lexicographic display-name tie-break for full determinism.
func ProviderReliability() Comparator {
	return func(a, b *source.Metadata) int {
		if d := b.Provider.Reliability.Rank() - a.Provider.Reliability.Rank(); d != 0 {
			return d
		}
		return strings.Compare(a.Provider.DisplayName, b.Provider.DisplayName)
	}
}

// CachedFirst puts debrid-cached candidates (instant start) before everything
// else; ties fall through to quality.
func CachedFirst() Comparator {
	quality := Quality()
	return func(a, b *source.Metadata) int {
		if d := boolRank(b.Availability.Cached) - boolRank(a.Availability.Cached); d != 0 {
			return d
		}
		return quality(a, b)
	}
}

// DebridFirst orders by provider-type playback preference: debrid, then
// direct streams, then swarm-dependent sources. Ties report equal and fall
// through to whatever this comparator is chained with.
func DebridFirst() Comparator {
	return func(a, b *source.Metadata) int {
		return b.Provider.Type.Rank() - a.Provider.Type.Rank()
	}
}

// AddedNewestFirst orders by file added date, newest first; unknown dates
// sort last.
func AddedNewestFirst() Comparator {
	return func(a, b *source.Metadata) int {
		da, db := a.File.AddedDate, b.File.AddedDate
		switch {
		case da == nil && db == nil:
			return 0
		case da == nil:
			return 1
		case db == nil:
			return -1
		case da.Equal(*db):
			return 0
		case da.After(*db):
			return -1
		default:
			return 1
		}
	}
}

// AndroidTVOptimized is the fixed composite tuned for TV playback: instant
// start (cached debrid) outweighs everything, then decode-friendly quality,
// then raw swarm health.
func AndroidTVOptimized() Comparator {
	quality := Quality()
	health := Health()
	return func(a, b *source.Metadata) int {
		if d := boolRank(instantStart(b)) - boolRank(instantStart(a)); d != 0 {
			return d
		}
		if d := quality(a, b); d != 0 {
			return d
		}
		return health(a, b)
	}
}

func instantStart(m *source.Metadata) bool {
	return m.Availability.Cached && m.Provider.Type == source.ProviderDebrid
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
