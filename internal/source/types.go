// Package source contains the canonical data model for discovered stream
// candidates. A Metadata record is assembled once per candidate by the scraper
// layer and treated as immutable by everything downstream.
package source

import "time"

// ProviderType classifies how a provider delivers content.
type ProviderType string

const (
	ProviderTorrent      ProviderType = "torrent"
	ProviderDebrid       ProviderType = "debrid"
	ProviderDirectStream ProviderType = "direct_stream"
	ProviderUsenet       ProviderType = "usenet"
)

// Reliability is the configured trust level for a provider.
type Reliability string

const (
	ReliabilityPoor      Reliability = "poor"
	ReliabilityFair      Reliability = "fair"
	ReliabilityGood      Reliability = "good"
	ReliabilityExcellent Reliability = "excellent"
)

// Resolution is a normalized video resolution tier.
type Resolution string

const (
	ResolutionSD    Resolution = "480p"
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution2160p Resolution = "2160p"
	Resolution4320p Resolution = "4320p"
)

// Codec is a normalized video codec identifier.
type Codec string

const (
	CodecH264 Codec = "h264"
	CodecHEVC Codec = "hevc"
	CodecAV1  Codec = "av1"
	CodecVP9  Codec = "vp9"
	CodecXviD Codec = "xvid"
)

// ReleaseType is a normalized release source, from camcorder rips up to
// lossless disc remuxes.
type ReleaseType string

const (
	ReleaseCam         ReleaseType = "cam"
	ReleaseTelesync    ReleaseType = "telesync"
	ReleaseDVDRip      ReleaseType = "dvdrip"
	ReleaseHDTV        ReleaseType = "hdtv"
	ReleaseWebRip      ReleaseType = "webrip"
	ReleaseWebDL       ReleaseType = "webdl"
	ReleaseBluray      ReleaseType = "bluray"
	ReleaseBlurayRemux ReleaseType = "remux"
)

// Provider identifies the indexer or service a candidate came from.
type Provider struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"displayName"`
	Type         ProviderType `json:"type"`
	Reliability  Reliability  `json:"reliability"`
	Capabilities []string     `json:"capabilities,omitempty"`
}

// Quality holds video quality attributes parsed from the release title.
type Quality struct {
	Resolution  Resolution `json:"resolution,omitempty"`
	Bitrate     int64      `json:"bitrate,omitempty"`
	HDR10       bool       `json:"hdr10,omitempty"`
	HDR10Plus   bool       `json:"hdr10Plus,omitempty"`
	DolbyVision bool       `json:"dolbyVision,omitempty"`
	FrameRate   int        `json:"frameRate,omitempty"`
}

// HasHDR reports whether any HDR format was detected.
func (q Quality) HasHDR() bool {
	return q.HDR10 || q.HDR10Plus || q.DolbyVision
}

// CodecInfo holds video codec attributes.
type CodecInfo struct {
	Type    Codec  `json:"type,omitempty"`
	Profile string `json:"profile,omitempty"`
	Level   string `json:"level,omitempty"`
}

// Audio holds audio track attributes.
type Audio struct {
	Format     string `json:"format,omitempty"`
	Channels   string `json:"channels,omitempty"`
	Bitrate    int64  `json:"bitrate,omitempty"`
	Language   string `json:"language,omitempty"`
	DolbyAtmos bool   `json:"dolbyAtmos,omitempty"`
	DTSX       bool   `json:"dtsX,omitempty"`
}

// Release holds release attributes.
type Release struct {
	Type    ReleaseType `json:"type,omitempty"`
	Group   string      `json:"group,omitempty"`
	Edition string      `json:"edition,omitempty"`
	Year    int         `json:"year,omitempty"`
}

// File holds file-level attributes.
type File struct {
	Name        string     `json:"name,omitempty"`
	SizeInBytes *int64     `json:"sizeInBytes,omitempty"`
	Extension   string     `json:"extension,omitempty"`
	Hash        string     `json:"hash,omitempty"`
	AddedDate   *time.Time `json:"addedDate,omitempty"`
}

// Health holds raw, unscored P2P counters as reported by the provider.
// Seeders and Leechers are pointers: nil means "not reported", which must stay
// distinguishable from an actual zero.
type Health struct {
	Seeders       *int       `json:"seeders,omitempty"`
	Leechers      *int       `json:"leechers,omitempty"`
	DownloadSpeed int64      `json:"downloadSpeed,omitempty"` // bytes/sec
	UploadSpeed   int64      `json:"uploadSpeed,omitempty"`   // bytes/sec
	Availability  float64    `json:"availability,omitempty"`  // 0.0-1.0
	LastChecked   *time.Time `json:"lastChecked,omitempty"`
}

// SeederCount returns the reported seeder count, or -1 when unreported.
func (h Health) SeederCount() int {
	if h.Seeders == nil {
		return -1
	}
	return *h.Seeders
}

// Availability describes whether a candidate is immediately playable.
type Availability struct {
	IsAvailable bool `json:"isAvailable"`
	// Cached means the content is already resident on a debrid service and
	// starts without any download wait.
	Cached bool `json:"cached"`
}

// Metadata is the canonical record for one discovered stream candidate.
type Metadata struct {
	ID           string       `json:"id"`
	Provider     Provider     `json:"provider"`
	Quality      Quality      `json:"quality"`
	Codec        CodecInfo    `json:"codec"`
	Audio        Audio        `json:"audio"`
	Release      Release      `json:"release"`
	File         File         `json:"file"`
	Health       Health       `json:"health"`
	Availability Availability `json:"availability"`
}
