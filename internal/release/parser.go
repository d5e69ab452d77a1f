// Package release parses free-text release titles into structured metadata.
// Parsing never fails: fields that cannot be detected stay at their zero value
// (or nil for counters where absence must stay distinguishable from zero), and
// no field's absence blocks detection of another.
package release

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/streamrank/streamrank/internal/source"
)

// Info holds everything extracted from a single release title.
type Info struct {
	Title       string             `json:"title,omitempty"`
	Year        int                `json:"year,omitempty"`
	Resolution  source.Resolution  `json:"resolution,omitempty"`
	Codec       source.Codec       `json:"codec,omitempty"`
	ReleaseType source.ReleaseType `json:"releaseType,omitempty"`

	HDR10       bool `json:"hdr10,omitempty"`
	HDR10Plus   bool `json:"hdr10Plus,omitempty"`
	DolbyVision bool `json:"dolbyVision,omitempty"`

	AudioFormat string `json:"audioFormat,omitempty"`
	DolbyAtmos  bool   `json:"dolbyAtmos,omitempty"`
	DTSX        bool   `json:"dtsX,omitempty"`

	// Size preserves the exact spelling from the title ("1.5 GB" vs "1.5GB")
	// because consumers display it verbatim. SizeBytes is the parsed value.
	Size      string `json:"size,omitempty"`
	SizeBytes *int64 `json:"sizeBytes,omitempty"`

	// Seeders/Leechers are nil when the title carries no peer-count marker.
	// A reported zero is a real "dead swarm" signal and stays non-nil.
	Seeders  *int `json:"seeders,omitempty"`
	Leechers *int `json:"leechers,omitempty"`

	Group   string `json:"group,omitempty"`
	Edition string `json:"edition,omitempty"`
}

// HasHDR reports whether any HDR format token was detected.
func (i Info) HasHDR() bool {
	return i.HDR10 || i.HDR10Plus || i.DolbyVision
}

// rule binds a compiled pattern to the normalized value it detects. Rules are
// evaluated in slice order; the first matching rule wins, so priority is the
// position in the table rather than the token's position in the title.
type rule[T any] struct {
	pattern *regexp.Regexp
	value   T
}

func firstMatch[T any](rules []rule[T], title string) (T, bool) {
	for _, r := range rules {
		if r.pattern.MatchString(title) {
			return r.value, true
		}
	}
	var zero T
	return zero, false
}

var resolutionRules = []rule[source.Resolution]{
	{regexp.MustCompile(`(?i)\b(?:4320p|8k)\b`), source.Resolution4320p},
	{regexp.MustCompile(`(?i)\b(?:2160p|4k|uhd)\b`), source.Resolution2160p},
	{regexp.MustCompile(`(?i)\b1080p\b`), source.Resolution1080p},
	{regexp.MustCompile(`(?i)\b720p\b`), source.Resolution720p},
	{regexp.MustCompile(`(?i)\b(?:480p|sd)\b`), source.ResolutionSD},
}

// Codec rules check the longer, more specific tokens first so that e.g. x264
// never matches inside an unrelated longer token. Word boundaries keep "x264"
// from matching "x2645".
var codecRules = []rule[source.Codec]{
	{regexp.MustCompile(`(?i)\b(?:x\.?265|h\.?265|hevc)\b`), source.CodecHEVC},
	{regexp.MustCompile(`(?i)\b(?:x\.?264|h\.?264|avc)\b`), source.CodecH264},
	{regexp.MustCompile(`(?i)\bav1\b`), source.CodecAV1},
	{regexp.MustCompile(`(?i)\bvp9\b`), source.CodecVP9},
	{regexp.MustCompile(`(?i)\bxvid\b`), source.CodecXviD},
}

// Release-type rules run from highest to lowest fidelity. REMUX sits before
// BluRay so that "BluRay.REMUX" resolves to remux regardless of token order in
// the title.
var releaseTypeRules = []rule[source.ReleaseType]{
	{regexp.MustCompile(`(?i)\b(?:remux|bdremux)\b`), source.ReleaseBlurayRemux},
	{regexp.MustCompile(`(?i)\b(?:blu-?ray|bdrip|brrip)\b`), source.ReleaseBluray},
	{regexp.MustCompile(`(?i)\bweb-?dl\b`), source.ReleaseWebDL},
	{regexp.MustCompile(`(?i)\bweb-?rip\b`), source.ReleaseWebRip},
	{regexp.MustCompile(`(?i)\bhdtv\b`), source.ReleaseHDTV},
	{regexp.MustCompile(`(?i)\b(?:dvdrip|dvd-?r)\b`), source.ReleaseDVDRip},
	{regexp.MustCompile(`(?i)\b(?:telesync|hdts|ts)\b`), source.ReleaseTelesync},
	{regexp.MustCompile(`(?i)\b(?:hdcam|cam(?:rip)?)\b`), source.ReleaseCam},
}

var (
	// \bdv\b does not match inside "DVD" because the trailing boundary fails.
	dolbyVisionPattern = regexp.MustCompile(`(?i)\bdolby[.\s_-]?vision\b|\bdovi\b|\bdv\b`)
	hdr10PlusPattern   = regexp.MustCompile(`(?i)\bhdr10\+`)
	hdr10Pattern       = regexp.MustCompile(`(?i)\bhdr10\b`)
	hdrPattern         = regexp.MustCompile(`(?i)\bhdr\b`)

	atmosPattern = regexp.MustCompile(`(?i)\batmos\b`)
	dtsXPattern  = regexp.MustCompile(`(?i)\bdts[.\s_-]?x\b`)

	sizePattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?\s?(?:GB|MB))\b`)

	// Peer counts are anchored on an explicit marker (emoji or keyword)
	// followed by seeders/leechers as N/M. Without the marker both counts stay
	// nil: a bare "5/10" in a title is too ambiguous to trust.
	peerCountPattern = regexp.MustCompile(`(?i)(?:👤|\bseed(?:er)?s?\b|\bpeers?\b)\s*:?\s*(\d+)\s*/\s*(\d+)`)

	yearPattern = regexp.MustCompile(`[.\s_(\[-]((?:19|20)\d{2})[.\s_)\]-]`)

	groupPattern = regexp.MustCompile(`-([A-Za-z0-9]+)$`)

	editionPattern = regexp.MustCompile(`(?i)\b(extended(?:[.\s_-]cut)?|director'?s[.\s_-]cut|unrated|remastered|theatrical|imax)\b`)

	titleSeparators = regexp.MustCompile(`[.\s_-]+`)
)

var audioRules = []rule[string]{
	{regexp.MustCompile(`(?i)\bdts[.\s_-]?hd(?:[.\s_-]?ma)?\b`), "DTS-HD"},
	{regexp.MustCompile(`(?i)\btruehd\b`), "TrueHD"},
	{regexp.MustCompile(`(?i)\bdts\b`), "DTS"},
	{regexp.MustCompile(`(?i)\b(?:ddp|dd\+|e[.\s_-]?ac[.\s_-]?3)`), "DD+"},
	{regexp.MustCompile(`(?i)\bac[.\s_-]?3\b`), "DD"},
	{regexp.MustCompile(`(?i)\baac\b`), "AAC"},
	{regexp.MustCompile(`(?i)\bflac\b`), "FLAC"},
}

// Parse extracts structured metadata from a release title. Every field is
// detected independently; partial extraction is success.
func Parse(title string) Info {
	info := Info{}
	if strings.TrimSpace(title) == "" {
		return info
	}

	if res, ok := firstMatch(resolutionRules, title); ok {
		info.Resolution = res
	}
	if codec, ok := firstMatch(codecRules, title); ok {
		info.Codec = codec
	}
	if rel, ok := firstMatch(releaseTypeRules, title); ok {
		info.ReleaseType = rel
	}

	// Dolby Vision is detected independently: hybrid releases carry both DV
	// and HDR10 tokens and both flags must survive.
	if dolbyVisionPattern.MatchString(title) {
		info.DolbyVision = true
	}
	switch {
	case hdr10PlusPattern.MatchString(title):
		info.HDR10Plus = true
	case hdr10Pattern.MatchString(title):
		info.HDR10 = true
	case hdrPattern.MatchString(title):
		info.HDR10 = true
	}

	if format, ok := firstMatch(audioRules, title); ok {
		info.AudioFormat = format
	}
	if atmosPattern.MatchString(title) {
		info.DolbyAtmos = true
	}
	if dtsXPattern.MatchString(title) {
		info.DTSX = true
	}

	if m := sizePattern.FindStringSubmatch(title); m != nil {
		info.Size = m[1]
		if bytes, ok := parseSizeBytes(m[1]); ok {
			info.SizeBytes = &bytes
		}
	}

	if m := peerCountPattern.FindStringSubmatch(title); m != nil {
		seeders, _ := strconv.Atoi(m[1])
		leechers, _ := strconv.Atoi(m[2])
		info.Seeders = &seeders
		info.Leechers = &leechers
	}

	if m := yearPattern.FindStringSubmatch(title); m != nil {
		info.Year, _ = strconv.Atoi(m[1])
	}

	if m := editionPattern.FindStringSubmatch(title); m != nil {
		info.Edition = cleanToken(m[1])
	}

	if m := groupPattern.FindStringSubmatch(title); m != nil {
		info.Group = m[1]
	}

	info.Title = extractBaseTitle(title)

	return info
}

// extractBaseTitle returns the cleaned show/movie name: everything before the
// first technical token (year, resolution, season marker).
func extractBaseTitle(title string) string {
	cut := len(title)
	for _, p := range []*regexp.Regexp{
		yearPattern,
		regexp.MustCompile(`(?i)[.\s_-][Ss]\d{1,2}(?:[Ee]\d{1,3})?\b`),
		resolutionRules[0].pattern, resolutionRules[1].pattern,
		resolutionRules[2].pattern, resolutionRules[3].pattern,
		resolutionRules[4].pattern,
	} {
		if loc := p.FindStringIndex(title); loc != nil && loc[0] < cut {
			cut = loc[0]
		}
	}
	return cleanToken(title[:cut])
}

func cleanToken(s string) string {
	return strings.TrimSpace(titleSeparators.ReplaceAllString(s, " "))
}

// ParseSize converts a human size string ("14.2 GB", "700MB") to bytes.
func ParseSize(s string) (int64, bool) {
	return parseSizeBytes(s)
}

func parseSizeBytes(s string) (int64, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	var unit int64
	switch {
	case strings.HasSuffix(upper, "GB"):
		unit = 1 << 30
		upper = strings.TrimSuffix(upper, "GB")
	case strings.HasSuffix(upper, "MB"):
		unit = 1 << 20
		upper = strings.TrimSuffix(upper, "MB")
	default:
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(upper), 64)
	if err != nil {
		return 0, false
	}
	return int64(value * float64(unit)), true
}
