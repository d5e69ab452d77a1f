package source

// Explicit rank tables for the ordered attribute enums. All scoring and
// comparison logic goes through these tables rather than declaration order, so
// the ranking contract is data and can be tested in isolation. Higher rank is
// always better; an unknown value ranks 0 and therefore sorts last.

var resolutionRank = map[Resolution]int{
	ResolutionSD:    1,
	Resolution720p:  2,
	Resolution1080p: 3,
	Resolution2160p: 4,
	Resolution4320p: 5,
}

// Rank returns the ordinal quality rank of the resolution, 0 for unknown.
func (r Resolution) Rank() int {
	return resolutionRank[r]
}

var codecRank = map[Codec]int{
	CodecXviD: 1,
	CodecVP9:  2,
	CodecH264: 3,
	CodecHEVC: 4,
	CodecAV1:  5,
}

// Rank returns the ordinal efficiency rank of the codec, 0 for unknown.
func (c Codec) Rank() int {
	return codecRank[c]
}

var releaseTypeRank = map[ReleaseType]int{
	ReleaseCam:         1,
	ReleaseTelesync:    2,
	ReleaseDVDRip:      3,
	ReleaseHDTV:        4,
	ReleaseWebRip:      5,
	ReleaseWebDL:       6,
	ReleaseBluray:      7,
	ReleaseBlurayRemux: 8,
}

// Rank returns the ordinal fidelity rank of the release type, 0 for unknown.
func (t ReleaseType) Rank() int {
	return releaseTypeRank[t]
}

var reliabilityRank = map[Reliability]int{
	ReliabilityPoor:      1,
	ReliabilityFair:      2,
	ReliabilityGood:      3,
	ReliabilityExcellent: 4,
}

// Rank returns the ordinal trust rank of the reliability level, 0 for unknown.
func (r Reliability) Rank() int {
	return reliabilityRank[r]
}

// providerTypeRank orders provider types for playback preference: debrid
// sources start instantly, direct streams avoid swarm dependency, torrents
// depend on P2P health, and everything else sorts below torrents.
var providerTypeRank = map[ProviderType]int{
	ProviderUsenet:       1,
	ProviderTorrent:      2,
	ProviderDirectStream: 3,
	ProviderDebrid:       4,
}

// Rank returns the playback-preference rank of the provider type, 0 for unknown.
func (t ProviderType) Rank() int {
	return providerTypeRank[t]
}
