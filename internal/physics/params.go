package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/slrsim/internal/dynamo"
)

const (
	DefaultBaseStrength   = 0.3
	DefaultVelocityGain   = 0.5
	DefaultVelocityCap    = 2.0
	DefaultDamping        = 0.75
	DefaultWaveResponse   = 0.02
	DefaultWaveKick       = 0.015
	DefaultWaveDecay      = 0.995
	DefaultWaveAdvance    = 0.03
	DefaultPointerDecay   = 0.95
	DefaultDropletGravity = 0.3
	DefaultSplashGravity  = 0.15
	DefaultFloorY         = 100.0
	DefaultSettleVelocity = 0.1
	DefaultSettleWave     = 0.001
	DefaultMaxParticles   = 256
)

// Params holds the per-frame constants of the fluid model.
type Params struct {
	BaseStrength   float64
	VelocityGain   float64
	VelocityCap    float64
	Damping        float64
	WaveResponse   float64
	WaveKick       float64
	WaveDecay      float64
	WaveAdvance    float64
	PointerDecay   float64
	DropletGravity float64
	SplashGravity  float64
	FloorY         float64
	SettleVelocity float64
	SettleWave     float64
	MaxParticles   int
}

func DefaultParams() Params {
	return Params{
		BaseStrength:   DefaultBaseStrength,
		VelocityGain:   DefaultVelocityGain,
		VelocityCap:    DefaultVelocityCap,
		Damping:        DefaultDamping,
		WaveResponse:   DefaultWaveResponse,
		WaveKick:       DefaultWaveKick,
		WaveDecay:      DefaultWaveDecay,
		WaveAdvance:    DefaultWaveAdvance,
		PointerDecay:   DefaultPointerDecay,
		DropletGravity: DefaultDropletGravity,
		SplashGravity:  DefaultSplashGravity,
		FloorY:         DefaultFloorY,
		SettleVelocity: DefaultSettleVelocity,
		SettleWave:     DefaultSettleWave,
		MaxParticles:   DefaultMaxParticles,
	}
}

// Validate rejects parameters that would make the loop diverge or never settle.
func (p Params) Validate() error {
	unit := map[string]float64{
		"damping":       p.Damping,
		"wave_decay":    p.WaveDecay,
		"pointer_decay": p.PointerDecay,
	}
	for _, name := range sortedKeys(unit) {
		if v := unit[name]; !(v > 0 && v <= 1) {
			return &dynamo.ParamError{Name: name, Value: v}
		}
	}

	nonNeg := map[string]float64{
		"base_strength":   p.BaseStrength,
		"velocity_gain":   p.VelocityGain,
		"velocity_cap":    p.VelocityCap,
		"wave_response":   p.WaveResponse,
		"wave_kick":       p.WaveKick,
		"wave_advance":    p.WaveAdvance,
		"droplet_gravity": p.DropletGravity,
		"splash_gravity":  p.SplashGravity,
		"settle_velocity": p.SettleVelocity,
		"settle_wave":     p.SettleWave,
	}
	for _, name := range sortedKeys(nonNeg) {
		if v := nonNeg[name]; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return &dynamo.ParamError{Name: name, Value: v}
		}
	}
	if p.BaseStrength == 0 {
		return &dynamo.ParamError{Name: "base_strength", Value: 0}
	}
	if p.MaxParticles < 0 {
		return &dynamo.ParamError{Name: "max_particles", Value: float64(p.MaxParticles)}
	}
	return nil
}

// GetParams exposes the tunable constants by name.
func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"base_strength": p.BaseStrength,
		"damping":       p.Damping,
		"wave_response": p.WaveResponse,
		"wave_kick":     p.WaveKick,
		"wave_decay":    p.WaveDecay,
		"wave_advance":  p.WaveAdvance,
	}
}

func (p *Params) SetParam(name string, v float64) error {
	next := *p
	switch name {
	case "base_strength":
		next.BaseStrength = v
	case "damping":
		next.Damping = v
	case "wave_response":
		next.WaveResponse = v
	case "wave_kick":
		next.WaveKick = v
	case "wave_decay":
		next.WaveDecay = v
	case "wave_advance":
		next.WaveAdvance = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
