package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/streamrank/streamrank/internal/api"
	"github.com/streamrank/streamrank/internal/config"
	"github.com/streamrank/streamrank/internal/health"
	"github.com/streamrank/streamrank/internal/logger"
	"github.com/streamrank/streamrank/internal/ranking"
	"github.com/streamrank/streamrank/internal/scheduler"
	"github.com/streamrank/streamrank/internal/scraper"
	"github.com/streamrank/streamrank/internal/seasonpack"
	"github.com/streamrank/streamrank/internal/sources"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   cfg.Logging.Path,
	})
	defer log.Close()

	healthCfg := health.DefaultConfig()
	if cfg.Health.SeederSaturation > 0 {
		healthCfg.SeederSaturation = cfg.Health.SeederSaturation
	}
	if cfg.Health.StalenessMinutes > 0 {
		healthCfg.StaleAfter = time.Duration(cfg.Health.StalenessMinutes) * time.Minute
	}
	if cfg.Health.MaxTrackedSources > 0 {
		healthCfg.MaxTrackedSources = cfg.Health.MaxTrackedSources
	}
	monitor := health.NewMonitor(healthCfg)

	packCfg := seasonpack.DefaultConfig()
	if cfg.Packs.EpisodesPerSeason > 0 {
		packCfg.EpisodesPerSeason = cfg.Packs.EpisodesPerSeason
	}
	if cfg.Packs.MinSeriesEpisodes > 0 {
		packCfg.MinSeriesEpisodes = cfg.Packs.MinSeriesEpisodes
	}
	packs := seasonpack.New(packCfg)

	sourceService := sources.NewService(monitor, packs, sources.Options{
		Workers:        cfg.Ranking.Workers,
		DefaultSort:    ranking.SortOption(cfg.Ranking.DefaultSort),
		QualityWeight:  cfg.Ranking.QualityWeight,
		HealthWeight:   cfg.Ranking.HealthWeight,
		SizeWeight:     cfg.Ranking.SizeWeight,
		ProviderWeight: cfg.Ranking.ProviderWeight,
	}, log.Logger)

	manifests, err := scraper.LoadManifestDir(cfg.Scraper.ManifestDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.Scraper.ManifestDir).Msg("no provider manifests loaded")
	} else {
		log.Info().Int("providers", len(manifests)).Msg("loaded provider manifests")
	}

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	pruneAge := time.Duration(cfg.Health.PruneMaxAgeHours) * time.Hour
	if err := sched.RegisterTask(scheduler.HealthPruneTask(monitor, cfg.Health.PruneCron, pruneAge, log.Logger)); err != nil {
		log.Fatal().Err(err).Msg("failed to register health prune task")
	}
	sched.Start()

	server := api.NewServer(cfg, sourceService, packs, sched, manifests, log.Logger)
	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
	log.Info().Msg("shutdown complete")
}
