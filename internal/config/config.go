package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slrsim/internal/control"
	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/observability"
	"github.com/san-kum/slrsim/internal/physics"
	"github.com/san-kum/slrsim/internal/render"
)

const (
	DefaultFPS            = 60
	DefaultTheme          = "ocean"
	DefaultCostCeiling    = 15.0
	DefaultDataDir        = ".slrsim"
	DefaultDropletChance  = 0.3
	DefaultDropletSpeed   = 0.5
	DefaultSplashVelocity = 2.0
	DefaultSmoothing      = 0.3
	DefaultResetDelay     = 300 * time.Millisecond
	DefaultStartupDelay   = 500 * time.Millisecond
	DefaultStartupWave    = 0.2
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

type Config struct {
	Physics PhysicsConfig           `yaml:"physics"`
	Render  RenderConfig            `yaml:"render"`
	Input   InputConfig             `yaml:"input"`
	Chart   ChartConfig             `yaml:"chart"`
	Log     observability.LogConfig `yaml:"log"`
	Seed    int64                   `yaml:"seed"`
	DataDir string                  `yaml:"data_dir"`
}

type PhysicsConfig struct {
	BaseStrength   float64 `yaml:"base_strength"`
	VelocityGain   float64 `yaml:"velocity_gain"`
	VelocityCap    float64 `yaml:"velocity_cap"`
	Damping        float64 `yaml:"damping"`
	WaveResponse   float64 `yaml:"wave_response"`
	WaveKick       float64 `yaml:"wave_kick"`
	WaveDecay      float64 `yaml:"wave_decay"`
	WaveAdvance    float64 `yaml:"wave_advance"`
	PointerDecay   float64 `yaml:"pointer_decay"`
	DropletGravity float64 `yaml:"droplet_gravity"`
	SplashGravity  float64 `yaml:"splash_gravity"`
	MaxParticles   int     `yaml:"max_particles"`
}

type RenderConfig struct {
	Samples       int     `yaml:"samples"`
	WaveFrequency float64 `yaml:"wave_frequency"`
	Tension       float64 `yaml:"tension"`
}

type InputConfig struct {
	Smoothing      float64       `yaml:"smoothing"`
	DropletChance  float64       `yaml:"droplet_chance"`
	DropletSpeed   float64       `yaml:"droplet_speed"`
	SplashVelocity float64       `yaml:"splash_velocity"`
	ResetDelay     time.Duration `yaml:"reset_delay"`
	StartupDelay   time.Duration `yaml:"startup_delay"`
	StartupWave    float64       `yaml:"startup_wave"`
}

type ChartConfig struct {
	FPS         int     `yaml:"fps"`
	Theme       string  `yaml:"theme"`
	CostCeiling float64 `yaml:"cost_ceiling"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Physics: PhysicsConfig{
			BaseStrength:   p.BaseStrength,
			VelocityGain:   p.VelocityGain,
			VelocityCap:    p.VelocityCap,
			Damping:        p.Damping,
			WaveResponse:   p.WaveResponse,
			WaveKick:       p.WaveKick,
			WaveDecay:      p.WaveDecay,
			WaveAdvance:    p.WaveAdvance,
			PointerDecay:   p.PointerDecay,
			DropletGravity: p.DropletGravity,
			SplashGravity:  p.SplashGravity,
			MaxParticles:   p.MaxParticles,
		},
		Render: RenderConfig{
			Samples:       render.DefaultSamples,
			WaveFrequency: render.DefaultWaveFrequency,
			Tension:       render.DefaultTension,
		},
		Input: InputConfig{
			Smoothing:      DefaultSmoothing,
			DropletChance:  DefaultDropletChance,
			DropletSpeed:   DefaultDropletSpeed,
			SplashVelocity: DefaultSplashVelocity,
			ResetDelay:     DefaultResetDelay,
			StartupDelay:   DefaultStartupDelay,
			StartupWave:    DefaultStartupWave,
		},
		Chart: ChartConfig{
			FPS:         DefaultFPS,
			Theme:       DefaultTheme,
			CostCeiling: DefaultCostCeiling,
		},
		Log: observability.LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		DataDir: DefaultDataDir,
	}
}

// Load reads a yaml file over the defaults, so omitted keys keep their default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.PhysicsParams().Validate(); err != nil {
		return err
	}
	if c.Render.Samples < 1 {
		return &dynamo.ParamError{Name: "samples", Value: float64(c.Render.Samples)}
	}
	if c.Chart.FPS < 1 || c.Chart.FPS > 240 {
		return &dynamo.ParamError{Name: "fps", Value: float64(c.Chart.FPS)}
	}
	if c.Chart.CostCeiling <= 0 {
		return &dynamo.ParamError{Name: "cost_ceiling", Value: c.Chart.CostCeiling}
	}
	for name, v := range map[string]float64{
		"smoothing":      c.Input.Smoothing,
		"droplet_chance": c.Input.DropletChance,
	} {
		if v < 0 || v > 1 {
			return &dynamo.ParamError{Name: name, Value: v}
		}
	}
	if c.Input.ResetDelay < 0 {
		return &dynamo.ParamError{Name: "reset_delay", Value: c.Input.ResetDelay.Seconds()}
	}
	return nil
}

func (c *Config) PhysicsParams() physics.Params {
	p := physics.DefaultParams()
	p.BaseStrength = c.Physics.BaseStrength
	p.VelocityGain = c.Physics.VelocityGain
	p.VelocityCap = c.Physics.VelocityCap
	p.Damping = c.Physics.Damping
	p.WaveResponse = c.Physics.WaveResponse
	p.WaveKick = c.Physics.WaveKick
	p.WaveDecay = c.Physics.WaveDecay
	p.WaveAdvance = c.Physics.WaveAdvance
	p.PointerDecay = c.Physics.PointerDecay
	p.DropletGravity = c.Physics.DropletGravity
	p.SplashGravity = c.Physics.SplashGravity
	p.MaxParticles = c.Physics.MaxParticles
	return p
}

func (c *Config) RenderOptions() render.Options {
	o := render.DefaultOptions()
	o.Samples = c.Render.Samples
	o.WaveFrequency = c.Render.WaveFrequency
	o.Tension = c.Render.Tension
	return o
}

// FrameInterval is the tick period for the configured frame rate.
func (c *Config) FrameInterval() time.Duration {
	if c.Chart.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Chart.FPS)
}

// ControlInput is the pointer handling section as controller options.
func (c *Config) ControlInput() control.Input {
	return control.Input{
		Smoothing:      c.Input.Smoothing,
		DropletChance:  c.Input.DropletChance,
		DropletSpeed:   c.Input.DropletSpeed,
		SplashVelocity: c.Input.SplashVelocity,
		StartupWave:    c.Input.StartupWave,
	}
}
