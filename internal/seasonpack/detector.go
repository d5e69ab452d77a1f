// Package seasonpack classifies release titles into season-pack categories:
// single episode, partial or complete season, multi-season pack, or complete
// series. Classification is a deterministic, total function over the title
// text plus an optional byte size.
package seasonpack

import (
	"regexp"
	"sort"
	"strconv"
)

// PackType is the season-pack category of a release.
type PackType string

const (
	PackSingleEpisode  PackType = "single_episode"
	PackPartialSeason  PackType = "partial_season"
	PackCompleteSeason PackType = "complete_season"
	PackMultiSeason    PackType = "multi_season"
	PackCompleteSeries PackType = "complete_series"
	PackUnknown        PackType = "unknown"
)

// EpisodeRange is an inclusive episode range within one season.
type EpisodeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Indicators holds auxiliary signals detected alongside the pack type.
type Indicators struct {
	HasCompleteIndicator    bool    `json:"hasCompleteIndicator"`
	HasQualityPackIndicator bool    `json:"hasQualityPackIndicator"`
	AverageEpisodeSizeMB    float64 `json:"averageEpisodeSizeMB,omitempty"`
}

// Info is the classification result for one title. It is immutable once
// computed; re-running Analyze on the same inputs yields an identical value.
type Info struct {
	IsSeasonPack         bool          `json:"isSeasonPack"`
	IsSingleEpisode      bool          `json:"isSingleEpisode"`
	IsMultiSeasonPack    bool          `json:"isMultiSeasonPack"`
	IsCompleteSeriesPack bool          `json:"isCompleteSeriesPack"`
	SeasonNumbers        []int         `json:"seasonNumbers,omitempty"`
	EpisodeRange         *EpisodeRange `json:"episodeRange,omitempty"`

	// TotalEpisodes is exact for single episodes and explicit ranges. For
	// season and series packs it is an estimate derived from the configured
	// episodes-per-season average, never a promise.
	TotalEpisodes          int        `json:"totalEpisodes"`
	CompletenessPercentage int        `json:"completenessPercentage"`
	PackType               PackType   `json:"packType"`
	Confidence             int        `json:"confidence"`
	Metadata               Indicators `json:"metadata"`
}

// Config holds the tuning constants for pack detection. The episode counts are
// product-tuning estimates, not broadcast facts.
type Config struct {
	EpisodesPerSeason   int // assumed season length when none is stated (default: 20)
	MinSeriesEpisodes   int // floor for complete-series estimates (default: 50)
	QualityPackBonus    int // confidence bonus for curated quality packs (default: 10)
	PartialSeasonCapPct int // completeness ceiling for open episode ranges (default: 99)
}

// DefaultConfig returns the default detection constants.
func DefaultConfig() Config {
	return Config{
		EpisodesPerSeason:   20,
		MinSeriesEpisodes:   50,
		QualityPackBonus:    10,
		PartialSeasonCapPct: 99,
	}
}

// Detector classifies titles. It is stateless and safe for concurrent use.
type Detector struct {
	cfg Config
}

// New creates a detector with the given config.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// NewDefault creates a detector with default configuration.
func NewDefault() *Detector {
	return New(DefaultConfig())
}

var (
	// Show.S01E01-E05, Show.S01E01-05
	episodeRangePattern = regexp.MustCompile(`(?i)\b[Ss](\d{1,2})[Ee](\d{1,3})\s*-\s*[Ee]?(\d{1,3})\b`)
	// Episodes 1-5, Episodes.1-5
	episodeRangeSpelled = regexp.MustCompile(`(?i)\bepisodes?[.\s_-]+(\d{1,3})\s*-\s*(\d{1,3})\b`)

	// Show.S01E01, Show.1x05
	singleEpisodePattern  = regexp.MustCompile(`(?i)\b[Ss](\d{1,2})[Ee](\d{1,3})\b`)
	singleEpisodeXPattern = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)

	// Seasons.1-3, S01-S05
	seasonRangePattern        = regexp.MustCompile(`(?i)\b[Ss](\d{1,2})\s*-\s*[Ss]?(\d{1,2})\b`)
	seasonRangeSpelledPattern = regexp.MustCompile(`(?i)\bseasons?[.\s_-]*(\d{1,2})\s*-\s*(\d{1,2})\b`)

	// S02, Season.1
	seasonTokenPattern   = regexp.MustCompile(`(?i)\b[Ss](\d{1,2})\b`)
	seasonSpelledPattern = regexp.MustCompile(`(?i)\bseason[.\s_-]*(\d{1,2})\b`)

	completePattern       = regexp.MustCompile(`(?i)\b(?:complete|full[.\s_-]season|pack)\b`)
	completeSeriesPattern = regexp.MustCompile(`(?i)\bcomplete[.\s_-]*(?:series|collection)\b|\bfull[.\s_-]*series\b`)

	qualityPackPattern = regexp.MustCompile(`(?i)\b(?:blu-?ray|remux|web-?dl|webrip)[.\s_-]*pack\b`)
)

// Analyze classifies a release title. fileSize in bytes is optional; pass zero
// or a negative value when unknown.
//
// When a title carries several conflicting season/episode tokens the first
// branch in the fixed priority order below governs PackType; lower-priority
// signals still populate auxiliary fields such as SeasonNumbers.
func (d *Detector) Analyze(title string, fileSize int64) Info {
	info := Info{PackType: PackUnknown}

	epRange, epRangeSeason, hasEpRange := matchEpisodeRange(title)
	hasSeriesToken := completeSeriesPattern.MatchString(title)
	hasComplete := completePattern.MatchString(title) || hasSeriesToken
	seasonRange, hasSeasonRange := matchSeasonRange(title)
	seasons := collectSeasons(title)

	info.Metadata.HasCompleteIndicator = hasComplete
	info.Metadata.HasQualityPackIndicator = qualityPackPattern.MatchString(title)

	switch {
	case isSingleEpisode(title, hasEpRange, hasComplete, hasSeasonRange):
		season, _ := matchSingleEpisode(title)
		info.PackType = PackSingleEpisode
		info.IsSingleEpisode = true
		info.SeasonNumbers = []int{season}
		info.TotalEpisodes = 1
		info.CompletenessPercentage = 100
		info.Confidence = 95

	case hasEpRange:
		info.PackType = PackPartialSeason
		info.IsSeasonPack = true
		if epRangeSeason > 0 {
			info.SeasonNumbers = []int{epRangeSeason}
		}
		info.EpisodeRange = &epRange
		info.TotalEpisodes = epRange.End - epRange.Start + 1
		info.CompletenessPercentage = d.partialCompleteness(info.TotalEpisodes)
		info.Confidence = 85

	case hasComplete && !hasSeasonRange && len(seasons) == 1 && !hasSeriesToken:
		info.PackType = PackCompleteSeason
		info.IsSeasonPack = true
		info.SeasonNumbers = seasons
		info.TotalEpisodes = d.cfg.EpisodesPerSeason
		info.CompletenessPercentage = 100
		info.Confidence = 90

	case hasSeasonRange:
		info.PackType = PackMultiSeason
		info.IsSeasonPack = true
		info.IsMultiSeasonPack = true
		info.SeasonNumbers = expandRange(seasonRange.Start, seasonRange.End)
		info.TotalEpisodes = len(info.SeasonNumbers) * d.cfg.EpisodesPerSeason
		info.CompletenessPercentage = 100
		info.Confidence = 85
		if hasSeriesToken {
			info.PackType = PackCompleteSeries
			info.IsCompleteSeriesPack = true
			info.Confidence = 90
		}

	case hasSeriesToken:
		info.PackType = PackCompleteSeries
		info.IsSeasonPack = true
		info.IsMultiSeasonPack = true
		info.IsCompleteSeriesPack = true
		info.SeasonNumbers = seasons
		info.TotalEpisodes = d.seriesEpisodeEstimate(len(seasons))
		info.CompletenessPercentage = 100
		info.Confidence = 85

	default:
		info.SeasonNumbers = seasons
		info.Confidence = 30
		if len(seasons) > 0 {
			info.Confidence = 50
		}
	}

	if info.Metadata.HasQualityPackIndicator {
		info.Confidence = min(100, info.Confidence+d.cfg.QualityPackBonus)
	}

	if fileSize > 0 && info.TotalEpisodes > 0 {
		info.Metadata.AverageEpisodeSizeMB = float64(fileSize) / float64(info.TotalEpisodes) / (1 << 20)
	}

	return info
}

// QualityScore maps a classification onto a 0-300 scale for use as a tertiary
// ranking tie-break. Larger pack scopes score strictly higher, modulated by
// completeness and confidence.
func (d *Detector) QualityScore(info Info) int {
	var base int
	switch info.PackType {
	case PackCompleteSeries:
		base = 200
	case PackMultiSeason:
		base = 160
	case PackCompleteSeason:
		base = 120
	case PackPartialSeason:
		base = 60
	case PackSingleEpisode:
		base = 20
	default:
		return 0
	}
	// Modulation stays small relative to the base gaps so a confident single
	// episode can never outrank a sparse partial pack.
	score := base + info.CompletenessPercentage/4 + info.Confidence/4
	if score > 300 {
		score = 300
	}
	return score
}

func (d *Detector) partialCompleteness(episodes int) int {
	pct := episodes * 100 / d.cfg.EpisodesPerSeason
	if pct >= 100 {
		// An open range never claims a full season without a detected total.
		pct = d.cfg.PartialSeasonCapPct
	}
	if pct < 1 {
		pct = 1
	}
	return pct
}

func (d *Detector) seriesEpisodeEstimate(seasonCount int) int {
	if seasonCount > 0 {
		if est := seasonCount * d.cfg.EpisodesPerSeason; est > d.cfg.MinSeriesEpisodes {
			return est
		}
	}
	return d.cfg.MinSeriesEpisodes
}

func isSingleEpisode(title string, hasEpRange, hasComplete, hasSeasonRange bool) bool {
	if hasEpRange || hasComplete || hasSeasonRange {
		return false
	}
	_, ok := matchSingleEpisode(title)
	return ok
}

func matchSingleEpisode(title string) (season int, ok bool) {
	if m := singleEpisodePattern.FindStringSubmatch(title); m != nil {
		season, _ = strconv.Atoi(m[1])
		return season, true
	}
	if m := singleEpisodeXPattern.FindStringSubmatch(title); m != nil {
		season, _ = strconv.Atoi(m[1])
		return season, true
	}
	return 0, false
}

func matchEpisodeRange(title string) (EpisodeRange, int, bool) {
	if m := episodeRangePattern.FindStringSubmatch(title); m != nil {
		season, _ := strconv.Atoi(m[1])
		start, _ := strconv.Atoi(m[2])
		end, _ := strconv.Atoi(m[3])
		if end >= start {
			return EpisodeRange{Start: start, End: end}, season, true
		}
	}
	if m := episodeRangeSpelled.FindStringSubmatch(title); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if end >= start {
			return EpisodeRange{Start: start, End: end}, 0, true
		}
	}
	return EpisodeRange{}, 0, false
}

type seasonSpan struct {
	Start, End int
}

func matchSeasonRange(title string) (seasonSpan, bool) {
	// Episode ranges also look like S01E01-05; strip them before looking for
	// a season range so S10E01-E06 is not mistaken for seasons 10-6.
	stripped := episodeRangePattern.ReplaceAllString(title, "")
	if m := seasonRangePattern.FindStringSubmatch(stripped); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if end >= start {
			return seasonSpan{Start: start, End: end}, true
		}
	}
	if m := seasonRangeSpelledPattern.FindStringSubmatch(stripped); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if end >= start {
			return seasonSpan{Start: start, End: end}, true
		}
	}
	return seasonSpan{}, false
}

func collectSeasons(title string) []int {
	seen := map[int]bool{}
	for _, m := range seasonTokenPattern.FindAllStringSubmatch(title, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			seen[n] = true
		}
	}
	for _, m := range seasonSpelledPattern.FindAllStringSubmatch(title, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			seen[n] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	seasons := make([]int, 0, len(seen))
	for n := range seen {
		seasons = append(seasons, n)
	}
	sort.Ints(seasons)
	return seasons
}

func expandRange(start, end int) []int {
	seasons := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		seasons = append(seasons, n)
	}
	return seasons
}
