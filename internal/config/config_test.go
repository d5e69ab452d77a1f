package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Ranking.DefaultSort != "quality" {
		t.Errorf("Ranking.DefaultSort = %q, want quality", cfg.Ranking.DefaultSort)
	}
	total := cfg.Ranking.QualityWeight + cfg.Ranking.HealthWeight + cfg.Ranking.SizeWeight + cfg.Ranking.ProviderWeight
	if total < 0.99 || total > 1.01 {
		t.Errorf("default weights sum = %f, want 1.0", total)
	}
	if cfg.Health.SeederSaturation != 1000 {
		t.Errorf("Health.SeederSaturation = %d, want 1000", cfg.Health.SeederSaturation)
	}
	if cfg.Packs.EpisodesPerSeason != 20 {
		t.Errorf("Packs.EpisodesPerSeason = %d, want 20", cfg.Packs.EpisodesPerSeason)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STREAMRANK_SERVER_PORT", "9090")
	t.Setenv("STREAMRANK_RANKING_DEFAULT_SORT", "seeders")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want env override 9090", cfg.Server.Port)
	}
	if cfg.Ranking.DefaultSort != "seeders" {
		t.Errorf("Ranking.DefaultSort = %q, want seeders", cfg.Ranking.DefaultSort)
	}
}

func TestAddress(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := c.Address(); got != "127.0.0.1:8080" {
		t.Errorf("Address() = %q", got)
	}
}
