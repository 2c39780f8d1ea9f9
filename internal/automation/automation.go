// Package automation runs yaml scenarios: ordered pointer scripts, each with
// its own preset, parameter overrides and seed.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slrsim/internal/config"
	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/experiment"
	"github.com/san-kum/slrsim/internal/observability"
	"github.com/san-kum/slrsim/internal/physics"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Script is a registry name or an inline script.
type ScenarioStep struct {
	Script  string             `yaml:"script"`
	Preset  string             `yaml:"preset"`
	Params  map[string]float64 `yaml:"params"`
	Seed    uint64             `yaml:"seed"`
	Startup bool               `yaml:"startup"`
	SaveAs  string             `yaml:"save_as"`
}

// StepResult pairs a step's run name with its trace.
type StepResult struct {
	Name  string
	Step  ScenarioStep
	Trace *experiment.Trace
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", path, dynamo.ErrEmptyScript)
	}

	return &scenario, nil
}

// RunScenario executes all steps in order over base. Results gathered before
// a failing step are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, base experiment.Config) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	log := base.Logger
	if log == nil {
		log = observability.Discard()
	}

	for i, step := range scenario.Steps {
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "script", step.Script)

		script, err := registry.Resolve(step.Script)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		cfg, err := stepConfig(base, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		trace, err := experiment.Run(ctx, script, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_%d", scenario.Name, i+1)
		}
		results = append(results, StepResult{Name: name, Step: step, Trace: trace})
	}

	return results, nil
}

func stepConfig(base experiment.Config, step ScenarioStep) (experiment.Config, error) {
	cfg := base
	if step.Preset != "" {
		p, err := config.GetPreset(step.Preset)
		if err != nil {
			return cfg, err
		}
		cfg.Params = p.PhysicsParams()
		cfg.Render = p.RenderOptions()
		cfg.Input = p.ControlInput()
		cfg.ResetDelay = p.Input.ResetDelay
	}
	if cfg.Params == (physics.Params{}) {
		cfg.Params = physics.DefaultParams()
	}
	for name, v := range step.Params {
		if err := cfg.Params.SetParam(name, v); err != nil {
			return cfg, err
		}
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	cfg.Startup = cfg.Startup || step.Startup
	return cfg, nil
}
