package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	p := cfg.Policy()
	if p.WeightHigh <= p.WeightMedium || p.WeightMedium <= p.WeightLow {
		t.Fatalf("default weights not ordered: %+v", p)
	}
	if p.DeadlineHorizon != 365*24*time.Hour {
		t.Fatalf("horizon = %v", p.DeadlineHorizon)
	}
}

func TestValidateOrdering(t *testing.T) {
	cfg := Default()
	cfg.WEIGHT_MEDIUM = cfg.WEIGHT_HIGH + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("inverted weights must fail validation")
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slipsentry.yml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WEIGHT_HIGH != Default().WEIGHT_HIGH {
		t.Fatalf("created config differs from default")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}

	// round-trip through the written file
	cfg.MAX_PATH_HOPS = 7
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.MAX_PATH_HOPS != 7 {
		t.Fatalf("MAX_PATH_HOPS = %d", again.MAX_PATH_HOPS)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SLIPSENTRY_MAX_PATH_HOPS", "9")
	path := filepath.Join(t.TempDir(), "slipsentry.yml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MAX_PATH_HOPS != 9 {
		t.Fatalf("env override ignored: %d", cfg.MAX_PATH_HOPS)
	}
}
