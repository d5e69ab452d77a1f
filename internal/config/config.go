// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Ranking RankingConfig `mapstructure:"ranking"`
	Health  HealthConfig  `mapstructure:"health"`
	Packs   PacksConfig   `mapstructure:"packs"`
	Scraper ScraperConfig `mapstructure:"scraper"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// RankingConfig holds the ranking tuning knobs: the default sort option, the
// scoring fan-out bound and the four weighted-blend weights.
type RankingConfig struct {
	DefaultSort    string  `mapstructure:"default_sort"`
	Workers        int     `mapstructure:"workers"`
	QualityWeight  float64 `mapstructure:"quality_weight"`
	HealthWeight   float64 `mapstructure:"health_weight"`
	SizeWeight     float64 `mapstructure:"size_weight"`
	ProviderWeight float64 `mapstructure:"provider_weight"`
}

// HealthConfig holds health-scoring thresholds and the prune schedule.
type HealthConfig struct {
	SeederSaturation  int    `mapstructure:"seeder_saturation"`
	StalenessMinutes  int    `mapstructure:"staleness_minutes"`
	MaxTrackedSources int    `mapstructure:"max_tracked_sources"`
	PruneCron         string `mapstructure:"prune_cron"`
	PruneMaxAgeHours  int    `mapstructure:"prune_max_age_hours"`
}

// PacksConfig holds season-pack detection estimates.
type PacksConfig struct {
	EpisodesPerSeason int `mapstructure:"episodes_per_season"`
	MinSeriesEpisodes int `mapstructure:"min_series_episodes"`
}

// ScraperConfig holds provider manifest settings.
type ScraperConfig struct {
	ManifestDir string `mapstructure:"manifest_dir"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.streamrank")
	}

	v.SetEnvPrefix("STREAMRANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults plus environment.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")

	v.SetDefault("ranking.default_sort", "quality")
	v.SetDefault("ranking.workers", 8)
	v.SetDefault("ranking.quality_weight", 0.4)
	v.SetDefault("ranking.health_weight", 0.3)
	v.SetDefault("ranking.size_weight", 0.1)
	v.SetDefault("ranking.provider_weight", 0.2)

	v.SetDefault("health.seeder_saturation", 1000)
	v.SetDefault("health.staleness_minutes", 60)
	v.SetDefault("health.max_tracked_sources", 1024)
	v.SetDefault("health.prune_cron", "0 * * * *")
	v.SetDefault("health.prune_max_age_hours", 24)

	v.SetDefault("packs.episodes_per_season", 20)
	v.SetDefault("packs.min_series_episodes", 50)

	v.SetDefault("scraper.manifest_dir", "./providers")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
