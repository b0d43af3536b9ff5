package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pdexport/internal/app"
)

func TestNewSchedulerDisabledWithoutCron(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.Job.Cron = "  "
	if s := NewScheduler(cfg, nil, nil); s != nil {
		t.Fatalf("expected nil scheduler")
	}
	// nil 调度器可以安全启动
	var s *Scheduler
	s.Start(context.Background())()
}

func TestSchedulerRunOnce(t *testing.T) {
	calls := 0
	s := NewScheduler(app.DefaultConfig(), func(context.Context) error {
		calls++
		return errors.New("boom")
	}, nil)
	s.runOnce()
	s.runOnce()
	if calls != 2 {
		t.Fatalf("expect 2 calls, got %d", calls)
	}
	if s.running {
		t.Fatalf("running flag should be reset after failure")
	}
}

func TestSchedulerSkipsWhenRunning(t *testing.T) {
	calls := 0
	s := NewScheduler(app.DefaultConfig(), func(context.Context) error {
		calls++
		return nil
	}, nil)
	s.running = true
	s.runOnce()
	if calls != 0 {
		t.Fatalf("overlapping run should be skipped")
	}
}

func TestSchedulerSkipsAfterCancel(t *testing.T) {
	calls := 0
	s := NewScheduler(app.DefaultConfig(), func(context.Context) error {
		calls++
		return nil
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.parent = ctx
	s.runOnce()
	if calls != 0 {
		t.Fatalf("cancelled scheduler should not export")
	}
}

func TestPrunerKeepsNewest(t *testing.T) {
	root := t.TempDir()
	names := []string{
		"pagerduty_export_20261015_0700",
		"pagerduty_export_20261016_0700",
		"pagerduty_export_20261017_0700",
		"pagerduty_export_20261017_0800",
	}
	for _, n := range names {
		if err := os.MkdirAll(filepath.Join(root, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "pagerduty_export_notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "other_20200101_0000"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := app.DefaultConfig()
	cfg.Export.OutputRoot = root
	cfg.Export.RetainRuns = 2
	p := NewPruner(cfg, nil)

	removed, err := p.Prune()
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expect 2 removed, got %v", removed)
	}
	for _, n := range names[:2] {
		if _, err := os.Stat(filepath.Join(root, n)); !os.IsNotExist(err) {
			t.Fatalf("%s should be removed", n)
		}
	}
	for _, n := range append(names[2:], "pagerduty_export_notes.txt", "other_20200101_0000") {
		if _, err := os.Stat(filepath.Join(root, n)); err != nil {
			t.Fatalf("%s should remain: %v", n, err)
		}
	}
}

func TestNewPrunerDisabled(t *testing.T) {
	if p := NewPruner(app.DefaultConfig(), nil); p != nil {
		t.Fatalf("retain_runs 0 should disable pruner")
	}
}
