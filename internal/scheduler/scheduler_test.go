package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRegisterTask(t *testing.T) {
	s, err := New(zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Stop()

	cfg := TaskConfig{
		ID:   "noop",
		Name: "Noop",
		Cron: "0 0 * * *",
		Func: func(ctx context.Context) error { return nil },
	}
	if err := s.RegisterTask(cfg); err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}
	if err := s.RegisterTask(cfg); err == nil {
		t.Error("duplicate task IDs must be rejected")
	}

	tasks := s.ListTasks()
	if len(tasks) != 1 || tasks[0].ID != "noop" {
		t.Errorf("ListTasks = %+v, want one noop entry", tasks)
	}
}

func TestRunNow(t *testing.T) {
	s, err := New(zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Stop()

	var runs atomic.Int32
	done := make(chan struct{})
	err = s.RegisterTask(TaskConfig{
		ID:   "counter",
		Name: "Counter",
		Cron: "0 0 * * *",
		Func: func(ctx context.Context) error {
			runs.Add(1)
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}

	if err := s.RunNow("missing"); err == nil {
		t.Error("unknown task must error")
	}
	if err := s.RunNow("counter"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}
}

type fakePruner struct {
	gotAge  time.Duration
	removed int
}

func (f *fakePruner) PruneStale(maxAge time.Duration) int {
	f.gotAge = maxAge
	return f.removed
}

func TestHealthPruneTask(t *testing.T) {
	pruner := &fakePruner{removed: 3}
	cfg := HealthPruneTask(pruner, "0 * * * *", 24*time.Hour, zerolog.Nop())

	if cfg.ID != "health-prune" {
		t.Errorf("ID = %q", cfg.ID)
	}
	if err := cfg.Func(context.Background()); err != nil {
		t.Fatalf("Func: %v", err)
	}
	if pruner.gotAge != 24*time.Hour {
		t.Errorf("maxAge = %v, want 24h", pruner.gotAge)
	}
}
