package environment_test

import (
	"testing"
	"time"

	"github.com/jrazmi/taskboard/sdk/environment"
)

type testConfig struct {
	Name     string        `env:"NAME" default:"taskboard"`
	Workers  int           `env:"WORKERS" default:"2"`
	Rate     float64       `env:"RATE" default:"0.125"`
	Enabled  bool          `env:"ENABLED" default:"true"`
	Timeout  time.Duration `env:"TIMEOUT" default:"5s"`
	Origins  []string      `env:"ORIGINS" default:"a, b" separator:","`
	Untagged string
}

func TestParseEnvTagsDefaults(t *testing.T) {
	var cfg testConfig
	if err := environment.ParseEnvTags("TBTEST", &cfg); err != nil {
		t.Fatalf("ParseEnvTags: %v", err)
	}

	if cfg.Name != "taskboard" || cfg.Workers != 2 || !cfg.Enabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Rate != 0.125 {
		t.Errorf("expected rate 0.125, got %v", cfg.Rate)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "b" {
		t.Errorf("expected trimmed origins, got %q", cfg.Origins)
	}
}

func TestParseEnvTagsPrefixedOverrides(t *testing.T) {
	t.Setenv("TBTEST_WORKERS", "7")
	t.Setenv("TBTEST_RATE", "0.5")
	t.Setenv("TBTEST_ENABLED", "false")

	var cfg testConfig
	if err := environment.ParseEnvTags("TBTEST", &cfg); err != nil {
		t.Fatalf("ParseEnvTags: %v", err)
	}
	if cfg.Workers != 7 || cfg.Rate != 0.5 || cfg.Enabled {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestParseEnvTagsRequired(t *testing.T) {
	var cfg struct {
		Key string `env:"KEY" required:"true"`
	}
	if err := environment.ParseEnvTags("TBTEST_MISSING", &cfg); err == nil {
		t.Fatal("expected error for missing required variable")
	}
}

func TestParseEnvTagsRejectsNonPointer(t *testing.T) {
	var cfg testConfig
	if err := environment.ParseEnvTags("", cfg); err == nil {
		t.Fatal("expected error for non-pointer config")
	}
}
