package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// HealthPruner evicts stale per-source health histories.
type HealthPruner interface {
	PruneStale(maxAge time.Duration) int
}

// HealthPruneTask builds the recurring task that drops health histories not
// touched within maxAge, keeping the tracked-source map bounded over time.
func HealthPruneTask(pruner HealthPruner, cron string, maxAge time.Duration, log zerolog.Logger) TaskConfig {
	taskLog := log.With().Str("component", "health-prune").Logger()
	return TaskConfig{
		ID:          "health-prune",
		Name:        "Health History Prune",
		Description: "Evicts health histories for sources not evaluated recently",
		Cron:        cron,
		Func: func(ctx context.Context) error {
			removed := pruner.PruneStale(maxAge)
			if removed > 0 {
				taskLog.Info().Int("removed", removed).Dur("maxAge", maxAge).Msg("Pruned stale health histories")
			}
			return nil
		},
	}
}
