package physics

import (
	"time"

	"github.com/san-kum/slrsim/internal/projection"
)

// Droplet is a falling water drop in chart percent coordinates (y down).
type Droplet struct {
	X, Y   float64
	Fall   float64
	Life   float64
	Radius float64
}

// Splash is an impact spray particle.
type Splash struct {
	X, Y    float64
	VX, VY  float64
	Life    float64
	MaxLife float64
	Opacity float64
	Radius  float64
}

// State is the single mutable simulation record owned by the chart.
// Positions are percentages of the chart (0-100).
type State struct {
	TargetX, TargetCost float64
	X, Cost             float64
	VelX, VelCost       float64

	WaveOffset   float64
	WaveVelocity float64

	Animating bool

	LastPointerX    float64
	LastPointerAt   time.Time
	PointerVelocity float64

	Droplets []Droplet
	Splashes []Splash
}

// NewState rests both the displayed value and the target at the given sample.
func NewState(rest projection.Sample) State {
	return State{
		TargetX:    rest.XPercent,
		TargetCost: rest.CostPercent,
		X:          rest.XPercent,
		Cost:       rest.CostPercent,
	}
}

func (s State) Clone() State {
	c := s
	c.Droplets = append([]Droplet(nil), s.Droplets...)
	c.Splashes = append([]Splash(nil), s.Splashes...)
	return c
}

// Energy is a kinetic proxy used to watch the loop wind down.
func (s State) Energy() float64 {
	return s.VelX*s.VelX + s.VelCost*s.VelCost + s.WaveVelocity*s.WaveVelocity
}

func (s State) Particles() int {
	return len(s.Droplets) + len(s.Splashes)
}

// SetTarget overwrites the spring targets. Later samples replace earlier ones.
func (s *State) SetTarget(x, cost float64) {
	s.TargetX, s.TargetCost = x, cost
}

// Kick sets the wave velocity, e.g. for the gentle startup ripple.
func (s *State) Kick(wave float64) {
	s.WaveVelocity = wave
}

// AddDroplet appends d, dropping the oldest droplets beyond max (0 means unbounded).
func (s *State) AddDroplet(d Droplet, max int) {
	s.Droplets = append(s.Droplets, d)
	if max > 0 && len(s.Droplets) > max {
		s.Droplets = append([]Droplet(nil), s.Droplets[len(s.Droplets)-max:]...)
	}
}

func (s *State) AddSplash(sp Splash, max int) {
	s.Splashes = append(s.Splashes, sp)
	if max > 0 && len(s.Splashes) > max {
		s.Splashes = append([]Splash(nil), s.Splashes[len(s.Splashes)-max:]...)
	}
}
