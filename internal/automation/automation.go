package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/periodsweep/internal/config"
	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/metrics"
	"github.com/san-kum/periodsweep/internal/storage"
	"github.com/san-kum/periodsweep/internal/sweep"
)

// Scenario defines a scripted sequence of sweeps, e.g. the same plan at
// several timesteps.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single sweep. Unset fields keep the preset's values.
type ScenarioStep struct {
	Preset          string            `yaml:"preset"`
	Dt              *float64          `yaml:"dt"`
	Orbits          *int              `yaml:"orbits"`
	Samples         *int              `yaml:"samples"`
	Range           *float64          `yaml:"range"`
	CollisionRadius *float64          `yaml:"collision_radius"`
	AngleMode       *dynamo.AngleMode `yaml:"angle_mode"`
	SaveAs          string            `yaml:"save_as"`
}

// StepResult describes one finished step.
type StepResult struct {
	Name    string
	RunID   string
	Summary sweep.Summary
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config builds the sweep configuration of a step.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "leo"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Dt != nil {
		cfg.Dt = *s.Dt
	}
	if s.Orbits != nil {
		cfg.Orbits = *s.Orbits
	}
	if s.Samples != nil {
		cfg.Sweep.Samples = *s.Samples
	}
	if s.Range != nil {
		cfg.SetSymmetricRange(*s.Range)
	}
	if s.CollisionRadius != nil {
		cfg.CollisionRadius = *s.CollisionRadius
	}
	if s.AngleMode != nil {
		cfg.AngleMode = *s.AngleMode
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in a scenario, storing each as a run.
// Every step is validated before the first one starts.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log io.Writer) ([]StepResult, error) {
	configs := make([]*config.Config, len(scenario.Steps))
	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		configs[i] = cfg
	}

	results := make([]StepResult, 0, len(configs))
	for i, cfg := range configs {
		fmt.Fprintf(log, "running step %d/%d: %s (dt=%g, %d orbits)\n", i+1, len(configs), cfg.Name, cfg.Dt, cfg.Orbits)

		run, err := st.Create(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		driver := sweep.NewDriver(cfg.SimConfig(), cfg.Plan()).
			WithWorkers(cfg.Sweep.Workers).
			WithMetrics(metrics.Standard)
		summary, runErr := driver.Run(ctx, run)

		if err := run.Finish(summary, runErr); err != nil {
			return results, fmt.Errorf("step %d save: %w", i+1, err)
		}
		if runErr != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, runErr)
		}

		results = append(results, StepResult{Name: cfg.Name, RunID: run.ID(), Summary: summary})
	}

	return results, nil
}
