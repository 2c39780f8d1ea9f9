package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/experiment"
	"github.com/san-kum/slrsim/internal/physics"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `name: demo
description: hover then flick
steps:
  - script: hover
    preset: calm
    seed: 9
  - script: "move:0.2,wait:20,leave"
    params:
      damping: 0.8
    save_as: quick
`)

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[0].Preset != "calm" || sc.Steps[0].Seed != 9 {
		t.Errorf("step 1 = %+v", sc.Steps[0])
	}
	if sc.Steps[1].Params["damping"] != 0.8 || sc.Steps[1].SaveAs != "quick" {
		t.Errorf("step 2 = %+v", sc.Steps[1])
	}
}

func TestLoadScenario_NoSteps(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); !errors.Is(err, dynamo.ErrEmptyScript) {
		t.Errorf("expected ErrEmptyScript, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	sc := &Scenario{Name: "demo", Steps: []ScenarioStep{
		{Script: "move:0.5,wait:10,leave", Params: map[string]float64{"damping": 0.8}},
		{Script: "touch:0.3,wait:10,touch-end", SaveAs: "touchy", Seed: 4},
	}}

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), experiment.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "demo_1" || results[1].Name != "touchy" {
		t.Errorf("names = %q, %q", results[0].Name, results[1].Name)
	}
	for _, r := range results {
		if !r.Trace.Settled {
			t.Errorf("%s did not settle", r.Name)
		}
	}
}

func TestRunScenario_StopsAtBadStep(t *testing.T) {
	sc := &Scenario{Name: "demo", Steps: []ScenarioStep{
		{Script: "hover"},
		{Script: "jump:0.5"},
	}}

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), experiment.DefaultConfig())
	if err == nil {
		t.Fatal("expected an error for an unparseable script")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step's result, got %d", len(results))
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := stepConfig(experiment.Config{Seed: 1}, ScenarioStep{
		Preset: "sluggish",
		Params: map[string]float64{"wave_kick": 0.02},
		Seed:   5,
	})
	if err != nil {
		t.Fatalf("step config failed: %v", err)
	}
	if cfg.Params.Damping != 0.85 || cfg.Params.WaveKick != 0.02 || cfg.Seed != 5 {
		t.Errorf("unexpected config %+v", cfg.Params)
	}

	if _, err := stepConfig(experiment.Config{}, ScenarioStep{Preset: "nope"}); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}

	cfg, err = stepConfig(experiment.Config{}, ScenarioStep{Params: map[string]float64{"damping": 0.7}})
	if err != nil {
		t.Fatalf("step config over zero base failed: %v", err)
	}
	want := physics.DefaultParams()
	want.Damping = 0.7
	if cfg.Params != want {
		t.Errorf("params = %+v", cfg.Params)
	}

	if _, err := stepConfig(experiment.Config{}, ScenarioStep{Params: map[string]float64{"damping": 2}}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
