package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.Solver != defaults {
		t.Errorf("solver settings mismatch: config=%+v defaults=%+v", cfg.Solver, defaults)
	}
	if cfg.ExportDir != "" {
		t.Errorf("expected empty export dir, got %s", cfg.ExportDir)
	}
	if cfg.RecentInputs == nil {
		t.Error("RecentInputs should not be nil")
	}
}

func TestDefaultSettingsEnableAllPruning(t *testing.T) {
	s := DefaultSettings()
	if !s.MostConstrainedFirst || !s.Memoize || !s.AreaPrecheck {
		t.Errorf("expected every search aid enabled by default, got %+v", s)
	}
}

func TestAddRecentInput(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentInput("a.txt")
	cfg.AddRecentInput("b.txt")
	cfg.AddRecentInput("a.txt")

	if len(cfg.RecentInputs) != 2 {
		t.Fatalf("expected 2 recent inputs, got %v", cfg.RecentInputs)
	}
	if cfg.RecentInputs[0] != "a.txt" || cfg.RecentInputs[1] != "b.txt" {
		t.Errorf("unexpected order %v", cfg.RecentInputs)
	}
}

func TestAddRecentInputTrims(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < MaxRecentInputs+5; i++ {
		cfg.AddRecentInput(string(rune('a' + i)))
	}
	if len(cfg.RecentInputs) != MaxRecentInputs {
		t.Errorf("expected %d recent inputs, got %d", MaxRecentInputs, len(cfg.RecentInputs))
	}
}
