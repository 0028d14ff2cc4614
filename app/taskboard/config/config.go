// Package config holds the taskboard service wiring.
package config

import (
	"fmt"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/usecases/taskstore"
	"github.com/jrazmi/taskboard/sdk/environment"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/telemetry"
)

// site wide globals.
const (
	ApiRoute = "/api/v1"
)

// Fixture sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// StoreOptions configures where tasks come from and how the simulated
// network behaves.
type StoreOptions struct {
	FixtureSource   string  `env:"FIXTURE_SOURCE" default:"file"`
	FixturePath     string  `env:"FIXTURE_PATH"`
	FixtureName     string  `env:"FIXTURE_NAME" default:"default"`
	SimulateLatency bool    `env:"SIMULATE_LATENCY" default:"true"`
	FailureRate     float64 `env:"FAILURE_RATE" default:"0.125"`
	RacePolicy      string  `env:"RACE_POLICY" default:"last_issued"`
}

// LoadStoreOptions reads StoreOptions from the environment and validates them.
func LoadStoreOptions(prefix string) (StoreOptions, error) {
	var o StoreOptions
	if err := environment.ParseEnvTags(prefix, &o); err != nil {
		return StoreOptions{}, fmt.Errorf("parsing store config: %w", err)
	}
	if err := o.Validate(); err != nil {
		return StoreOptions{}, err
	}
	return o, nil
}

// Validate checks the enum and range fields.
func (o StoreOptions) Validate() error {
	switch o.FixtureSource {
	case SourceFile, SourcePostgres:
	default:
		return fmt.Errorf("unknown fixture source %q", o.FixtureSource)
	}
	if o.FailureRate < 0 || o.FailureRate > 1 {
		return fmt.Errorf("failure rate %v out of range [0,1]", o.FailureRate)
	}
	if !taskstore.RacePolicy(o.RacePolicy).Valid() {
		return fmt.Errorf("unknown race policy %q", o.RacePolicy)
	}
	return nil
}

// RepositoryOptions translates the simulation settings into repository
// options.
func (o StoreOptions) RepositoryOptions() []tasksrepo.Option {
	opts := []tasksrepo.Option{
		tasksrepo.WithFailurePolicy(tasksrepo.SimulatedFailure(o.FailureRate)),
	}
	if !o.SimulateLatency {
		opts = append(opts, tasksrepo.WithDelayPolicy(tasksrepo.NoDelay))
	}
	return opts
}

// TaskstoreOptions returns the store options for the configured race policy.
func (o StoreOptions) TaskstoreOptions(log *logger.Logger) []taskstore.Option {
	return []taskstore.Option{
		taskstore.WithLogger(log),
		taskstore.WithRacePolicy(taskstore.RacePolicy(o.RacePolicy)),
	}
}

// Taskboard is the overall configuration for the taskboard service.
type Taskboard struct {
	Build     string
	Logger    *logger.Logger
	Telemetry telemetry.Telemetry
	Store     StoreOptions
}
