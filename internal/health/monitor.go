// Package health converts raw P2P and provider counters into normalized
// 0-100 health scores with sub-scores, risk classification, staleness
// detection, and trend inference over a bounded per-source snapshot history.
//
// Scoring itself is a pure computation with no failure states: missing
// counters are normalized to zero/unknown, never propagated as errors. The
// only state a Monitor carries is the snapshot history used for trends.
package health

import (
	"encoding/json"
	"math"
	"time"

	"github.com/streamrank/streamrank/internal/source"
)

// Status is the coarse health bucket, derived from the seeder count alone.
type Status string

const (
	StatusDead      Status = "dead"
	StatusPoor      Status = "poor"
	StatusFair      Status = "fair"
	StatusGood      Status = "good"
	StatusExcellent Status = "excellent"
)

// RiskLevel classifies the likelihood that a source fails to play.
type RiskLevel string

const (
	RiskMinimal RiskLevel = "minimal"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

var riskOrder = map[RiskLevel]int{
	RiskMinimal: 0,
	RiskLow:     1,
	RiskMedium:  2,
	RiskHigh:    3,
}

// Trend is the direction of health movement across the retained history.
type Trend string

const (
	TrendUnknown   Trend = "unknown"
	TrendStable    Trend = "stable"
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
)

// P2PHealth holds the swarm sub-scores, all on a 0-100 scale.
type P2PHealth struct {
	Seeders       int     `json:"seeders"`
	Leechers      int     `json:"leechers"`
	Ratio         float64 `json:"ratio"` // math.Inf(1) when leechers == 0 and seeders > 0
	TotalPeers    int     `json:"totalPeers"`
	SeederScore   float64 `json:"seederScore"`
	RatioScore    float64 `json:"ratioScore"`
	ActivityScore float64 `json:"activityScore"`
	SpeedScore    float64 `json:"speedScore"`
	OverallScore  float64 `json:"overallScore"`
	Status        Status  `json:"status"`
}

// MarshalJSON emits the infinite-ratio sentinel as null; encoding/json
// cannot represent +Inf and would otherwise fail the whole payload.
func (p P2PHealth) MarshalJSON() ([]byte, error) {
	type alias P2PHealth
	out := struct {
		alias
		Ratio *float64 `json:"ratio"`
	}{alias: alias(p)}
	if !math.IsInf(p.Ratio, 0) {
		out.Ratio = &p.Ratio
	}
	return json.Marshal(out)
}

// ScoreData is the full derived health assessment for one source.
type ScoreData struct {
	SourceID                     string    `json:"sourceId,omitempty"`
	OverallScore                 float64   `json:"overallScore"`
	P2P                          P2PHealth `json:"p2pHealth"`
	ProviderReliability          float64   `json:"providerReliability"`
	SourceAuthority              float64   `json:"sourceAuthority"`
	FreshnessIndicator           float64   `json:"freshnessIndicator"`
	AvailabilityPercentage       float64   `json:"availabilityPercentage"`
	IsStale                      bool      `json:"isStale"`
	RiskLevel                    RiskLevel `json:"riskLevel"`
	RiskFactors                  []string  `json:"riskFactors,omitempty"`
	EstimatedDownloadTimeMinutes float64   `json:"estimatedDownloadTimeMinutes,omitempty"`
	Trend                        Trend     `json:"healthTrend"`
	CheckedAt                    time.Time `json:"checkedAt"`
}

// Config holds the scoring thresholds. Every constant here is a product
// tuning knob, surfaced so the curves can be adjusted without code changes.
type Config struct {
	// SeederSaturation is the seeder count treated as "as healthy as it
	// gets"; the seeder sub-score saturates logarithmically toward it.
	SeederSaturation int

	// RatioMaxAt is the seeders/leechers ratio that earns a full ratio score.
	RatioMaxAt float64

	// ActivitySaturation is the total peer count that earns a full activity score.
	ActivitySaturation int

	// SpeedSaturation is the combined transfer speed (bytes/sec) treated as maximal.
	SpeedSaturation int64

	// StaleAfter flags IsStale; FreshnessFloorAfter is where the continuous
	// freshness decay bottoms out at FreshnessFloor.
	StaleAfter          time.Duration
	FreshnessFloorAfter time.Duration
	FreshnessFloor      float64

	// DebridBonus is added to provider reliability for debrid providers;
	// CapabilityBonus is added per declared capability, capped at
	// CapabilityBonusMax.
	DebridBonus        float64
	CapabilityBonus    float64
	CapabilityBonusMax float64

	// AssumedFileSize is the size context for download-time estimates when a
	// candidate reports a transfer speed but no size.
	AssumedFileSize int64

	// TrendDelta is the minimum overall-score movement across the history
	// window before a trend is called instead of "stable".
	TrendDelta float64

	// HistoryDepth bounds snapshots retained per source; MaxTrackedSources
	// bounds the number of sources (least recently updated evicted first).
	HistoryDepth      int
	MaxTrackedSources int
}

// DefaultConfig returns the default scoring thresholds.
func DefaultConfig() Config {
	return Config{
		SeederSaturation:    1000,
		RatioMaxAt:          4.0,
		ActivitySaturation:  2000,
		SpeedSaturation:     100 << 20, // 100 MiB/s combined
		StaleAfter:          time.Hour,
		FreshnessFloorAfter: 24 * time.Hour,
		FreshnessFloor:      10,
		DebridBonus:         15,
		CapabilityBonus:     2,
		CapabilityBonusMax:  10,
		AssumedFileSize:     2 << 30,
		TrendDelta:          5,
		HistoryDepth:        10,
		MaxTrackedSources:   1024,
	}
}

// Sub-score weights for the combined P2P score. Weights of unreported
// signals are renormalized away instead of dragging the average down.
const (
	seederWeight   = 0.40
	ratioWeight    = 0.25
	activityWeight = 0.20
	speedWeight    = 0.15
)

// Top-level blend of swarm health, provider standing, and data freshness.
const (
	p2pWeight       = 0.60
	providerWeight  = 0.20
	freshnessWeight = 0.20
)

// Monitor computes health scores and tracks per-source snapshot history for
// trend inference. Score is pure and safe for unbounded concurrency; the
// history store is internally synchronized.
type Monitor struct {
	cfg   Config
	store *historyStore
	now   func() time.Time
}

// NewMonitor creates a monitor with the given config.
func NewMonitor(cfg Config) *Monitor {
	return &Monitor{
		cfg:   cfg,
		store: newHistoryStore(cfg.HistoryDepth, cfg.MaxTrackedSources),
		now:   time.Now,
	}
}

// NewDefaultMonitor creates a monitor with default thresholds.
func NewDefaultMonitor() *Monitor {
	return NewMonitor(DefaultConfig())
}

// Score computes the health assessment for one source. It never fails:
// unreported counters are treated as zero/unknown. The returned Trend is
// always TrendUnknown; use Evaluate to fold in history.
func (m *Monitor) Score(h source.Health, p source.Provider) ScoreData {
	now := m.now()

	p2p := m.scoreP2P(h)
	providerScore, authority := m.scoreProvider(p)
	freshness, stale := m.scoreFreshness(h.LastChecked, now)

	overall := clamp100(p2p.OverallScore*p2pWeight + providerScore*providerWeight + freshness*freshnessWeight)

	data := ScoreData{
		OverallScore:           overall,
		P2P:                    p2p,
		ProviderReliability:    providerScore,
		SourceAuthority:        authority,
		FreshnessIndicator:     freshness,
		AvailabilityPercentage: clamp100(h.Availability * 100),
		IsStale:                stale,
		Trend:                  TrendUnknown,
		CheckedAt:              now,
	}

	data.RiskLevel, data.RiskFactors = m.assessRisk(h, p2p, stale)
	data.EstimatedDownloadTimeMinutes = m.estimateDownloadMinutes(h)

	return data
}

// Evaluate scores a source, derives the trend from its recorded history, and
// records the new snapshot.
func (m *Monitor) Evaluate(sourceID string, h source.Health, p source.Provider) ScoreData {
	data := m.Score(h, p)
	data.SourceID = sourceID
	data.Trend = m.trendWith(sourceID, data)
	m.Record(sourceID, data)
	return data
}

// Record caches a snapshot for trend computation. The per-source history is
// bounded; the oldest snapshot is evicted on overflow.
func (m *Monitor) Record(sourceID string, data ScoreData) {
	data.SourceID = sourceID
	m.store.record(sourceID, data)
}

// Cached returns the most recent recorded snapshot for a source.
func (m *Monitor) Cached(sourceID string) (ScoreData, bool) {
	return m.store.latest(sourceID)
}

// History returns the retained snapshots for a source, oldest first.
func (m *Monitor) History(sourceID string) []ScoreData {
	return m.store.snapshots(sourceID)
}

// TrackedSources returns how many sources currently hold history.
func (m *Monitor) TrackedSources() int {
	return m.store.size()
}

// PruneStale drops history for sources not updated within maxAge. Used by the
// scheduled maintenance task.
func (m *Monitor) PruneStale(maxAge time.Duration) int {
	return m.store.pruneOlderThan(m.now().Add(-maxAge))
}

func (m *Monitor) scoreP2P(h source.Health) P2PHealth {
	seeders := 0
	if h.Seeders != nil {
		seeders = max(0, *h.Seeders)
	}
	leechers := 0
	if h.Leechers != nil {
		leechers = max(0, *h.Leechers)
	}

	p2p := P2PHealth{
		Seeders:    seeders,
		Leechers:   leechers,
		TotalPeers: seeders + leechers,
		Status:     bucketStatus(seeders),
	}

	// Seeder score saturates logarithmically: the jump from 5 to 50 seeders
	// matters far more than 500 to 1000.
	if seeders > 0 {
		p2p.SeederScore = clamp100(100 * math.Log2(float64(seeders)+1) / math.Log2(float64(m.cfg.SeederSaturation)+1))
	}

	switch {
	case seeders == 0:
		p2p.Ratio = 0
		p2p.RatioScore = 0
	case leechers == 0:
		// No leechers with live seeders is effectively infinite supply.
		p2p.Ratio = math.Inf(1)
		p2p.RatioScore = 100
	default:
		p2p.Ratio = float64(seeders) / float64(leechers)
		p2p.RatioScore = clamp100(p2p.Ratio / m.cfg.RatioMaxAt * 100)
	}

	if p2p.TotalPeers > 0 {
		p2p.ActivityScore = clamp100(100 * math.Log2(float64(p2p.TotalPeers)+1) / math.Log2(float64(m.cfg.ActivitySaturation)+1))
	}

	combinedSpeed := h.DownloadSpeed + h.UploadSpeed
	speedReported := combinedSpeed > 0
	if speedReported {
		p2p.SpeedScore = clamp100(100 * math.Log2(float64(combinedSpeed)+1) / math.Log2(float64(m.cfg.SpeedSaturation)+1))
	}

	weighted := p2p.SeederScore*seederWeight + p2p.RatioScore*ratioWeight + p2p.ActivityScore*activityWeight
	totalWeight := seederWeight + ratioWeight + activityWeight
	if speedReported {
		weighted += p2p.SpeedScore * speedWeight
		totalWeight += speedWeight
	}
	p2p.OverallScore = clamp100(weighted / totalWeight)

	return p2p
}

func (m *Monitor) scoreProvider(p source.Provider) (score, authority float64) {
	switch p.Reliability {
	case source.ReliabilityExcellent:
		score = 100
	case source.ReliabilityGood:
		score = 75
	case source.ReliabilityFair:
		score = 50
	case source.ReliabilityPoor:
		score = 25
	default:
		score = 40
	}

	// Debrid content is pre-verified server-side and has no swarm dependency.
	if p.Type == source.ProviderDebrid {
		score += m.cfg.DebridBonus
	}

	// Richer capability sets correlate with better maintained indexers.
	authority = math.Min(m.cfg.CapabilityBonusMax, float64(len(p.Capabilities))*m.cfg.CapabilityBonus)
	score = clamp100(score + authority)

	return score, authority
}

func (m *Monitor) scoreFreshness(lastChecked *time.Time, now time.Time) (float64, bool) {
	if lastChecked == nil {
		// Never checked: neutral freshness, not flagged stale.
		return 50, false
	}

	age := now.Sub(*lastChecked)
	if age < 0 {
		age = 0
	}

	stale := age > m.cfg.StaleAfter

	if age >= m.cfg.FreshnessFloorAfter {
		return m.cfg.FreshnessFloor, stale
	}
	span := float64(m.cfg.FreshnessFloorAfter)
	decay := (100 - m.cfg.FreshnessFloor) * (float64(age) / span)
	return 100 - decay, stale
}

// assessRisk walks a fixed, ordered list of risk predicates. Each matching
// predicate appends a reason and can only escalate the risk bucket.
func (m *Monitor) assessRisk(h source.Health, p2p P2PHealth, stale bool) (RiskLevel, []string) {
	level := RiskMinimal
	var factors []string

	escalate := func(to RiskLevel, reason string) {
		factors = append(factors, reason)
		if riskOrder[to] > riskOrder[level] {
			level = to
		}
	}

	if p2p.Seeders == 0 {
		escalate(RiskHigh, "no active seeders, download will not start")
	} else if p2p.Seeders < 5 {
		escalate(RiskMedium, "very low seeder count")
	}

	if p2p.Seeders > 0 && p2p.Ratio < 1 {
		escalate(RiskLow, "demand exceeds supply, speeds may suffer")
	}

	if stale {
		escalate(RiskLow, "health data has not been refreshed recently")
	}

	if h.Availability > 0 && h.Availability < 0.5 {
		escalate(RiskMedium, "low reported piece availability")
	}

	return level, factors
}

// estimateDownloadMinutes derives a rough wait estimate from the reported
// download speed. Zero speed means the estimate is unknown, never infinite.
func (m *Monitor) estimateDownloadMinutes(h source.Health) float64 {
	if h.DownloadSpeed <= 0 {
		return 0
	}
	seconds := float64(m.cfg.AssumedFileSize) / float64(h.DownloadSpeed)
	return seconds / 60
}

func (m *Monitor) trendWith(sourceID string, latest ScoreData) Trend {
	history := m.store.snapshots(sourceID)
	if len(history) == 0 {
		return TrendUnknown
	}

	oldest := history[0]
	delta := latest.OverallScore - oldest.OverallScore
	switch {
	case delta > m.cfg.TrendDelta:
		return TrendImproving
	case delta < -m.cfg.TrendDelta:
		return TrendDegrading
	default:
		return TrendStable
	}
}

// bucketStatus maps the seeder count to the coarse status bucket. Seeders are
// the cheapest signal to reason about and dominate perceived health.
func bucketStatus(seeders int) Status {
	switch {
	case seeders <= 0:
		return StatusDead
	case seeders < 10:
		return StatusPoor
	case seeders < 50:
		return StatusFair
	case seeders < 100:
		return StatusGood
	default:
		return StatusExcellent
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
