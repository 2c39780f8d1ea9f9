package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/san-kum/slrsim/internal/control"
	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/metrics"
	"github.com/san-kum/slrsim/internal/observability"
	"github.com/san-kum/slrsim/internal/physics"
	"github.com/san-kum/slrsim/internal/projection"
	"github.com/san-kum/slrsim/internal/render"
)

const (
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultMaxFrames     = 6000
	DefaultWidth         = 800.0
)

// epoch pins the fake clock so traces are reproducible.
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type Config struct {
	Dataset       *projection.Dataset
	Params        physics.Params
	Render        render.Options
	Input         control.Input
	ResetDelay    time.Duration
	FrameInterval time.Duration
	MaxFrames     int
	// Width is the virtual chart width in pixels.
	Width float64
	Seed  uint64
	// Startup plays the resting ripple before the script begins.
	Startup bool

	Recorder *metrics.Recorder
	Logger   *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Dataset:       projection.Default(),
		Params:        physics.DefaultParams(),
		Render:        render.DefaultOptions(),
		Input:         control.DefaultInput(),
		ResetDelay:    control.DefaultResetDelay,
		FrameInterval: DefaultFrameInterval,
		MaxFrames:     DefaultMaxFrames,
		Width:         DefaultWidth,
		Seed:          1,
	}
}

// Row is the state after one frame tick. Event names the input applied just
// before the tick, if any.
type Row struct {
	Frame        int
	TimeMs       float64
	Event        string
	X            float64
	Cost         float64
	VelX         float64
	VelCost      float64
	WaveOffset   float64
	WaveVelocity float64
	Droplets     int
	Splashes     int
	Animating    bool
}

// Trace is the outcome of one scripted run.
type Trace struct {
	Script      string
	Rows        []Row
	Settled     bool
	SettleFrame int
	Truncated   bool
	Readout     control.Readout
}

// Summary condenses a trace into a few numbers for listings.
func (t *Trace) Summary() map[string]float64 {
	out := map[string]float64{
		"frames":       float64(len(t.Rows)),
		"settle_frame": float64(t.SettleFrame),
	}
	var peakVel, peakWave, peakParticles float64
	for _, r := range t.Rows {
		peakVel = math.Max(peakVel, math.Abs(r.VelCost))
		peakWave = math.Max(peakWave, math.Abs(r.WaveVelocity))
		peakParticles = math.Max(peakParticles, float64(r.Droplets+r.Splashes))
	}
	out["peak_cost_velocity"] = peakVel
	out["peak_wave_velocity"] = peakWave
	out["peak_particles"] = peakParticles
	if n := len(t.Rows); n > 0 {
		out["final_x"] = t.Rows[n-1].X
		out["final_cost"] = t.Rows[n-1].Cost
	}
	return out
}

// Series extracts one column of the trace by name.
func (t *Trace) Series(name string) ([]float64, error) {
	pick, ok := columns[name]
	if !ok {
		return nil, fmt.Errorf("experiment: unknown series %q", name)
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = pick(r)
	}
	return out, nil
}

var columns = map[string]func(Row) float64{
	"x":             func(r Row) float64 { return r.X },
	"cost":          func(r Row) float64 { return r.Cost },
	"vel_x":         func(r Row) float64 { return r.VelX },
	"vel_cost":      func(r Row) float64 { return r.VelCost },
	"wave_offset":   func(r Row) float64 { return r.WaveOffset },
	"wave_velocity": func(r Row) float64 { return r.WaveVelocity },
	"particles":     func(r Row) float64 { return float64(r.Droplets + r.Splashes) },
}

// runner drives a controller with a fake clock, one frame per tick.
type runner struct {
	ctx   context.Context
	cfg   Config
	clock *clockwork.FakeClock
	sched *control.ManualScheduler
	ctrl  *control.Controller
	loop  *control.Loop
	trace *Trace
	event string
}

// Run plays script against a fresh controller. It returns when the script is
// done and the fluid has settled, at MaxFrames, or when ctx is cancelled.
func Run(ctx context.Context, script Script, cfg Config) (*Trace, error) {
	if len(script) == 0 {
		return nil, dynamo.ErrEmptyScript
	}
	cfg = withDefaults(cfg)

	clock := clockwork.NewFakeClockAt(epoch)
	sched := &control.ManualScheduler{}
	ctrl, err := control.New(cfg.Dataset, cfg.Params,
		control.WithClock(clock),
		control.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))),
		control.WithRecorder(cfg.Recorder),
		control.WithLogger(cfg.Logger),
		control.WithResetDelay(cfg.ResetDelay),
		control.WithBounds(control.Rect{Width: cfg.Width, Height: cfg.Width / 2}),
		control.WithInput(cfg.Input),
		control.WithRenderOptions(cfg.Render),
	)
	if err != nil {
		return nil, err
	}

	r := &runner{
		ctx:   ctx,
		cfg:   cfg,
		clock: clock,
		sched: sched,
		ctrl:  ctrl,
		loop:  control.NewLoop(ctrl, sched),
		trace: &Trace{Script: script.String()},
	}
	cfg.Logger.Info("experiment started", "script", r.trace.Script, "seed", cfg.Seed)

	err = r.play(script)
	r.trace.Readout = ctrl.Readout()
	r.trace.Settled = !ctrl.Animating()
	if err != nil {
		return r.trace, err
	}

	cfg.Logger.Info("experiment finished",
		"frames", len(r.trace.Rows),
		"settled", r.trace.Settled,
		"settle_frame", r.trace.SettleFrame,
		"truncated", r.trace.Truncated)
	return r.trace, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Dataset == nil {
		cfg.Dataset = def.Dataset
	}
	if cfg.Params == (physics.Params{}) {
		cfg.Params = def.Params
	}
	if cfg.Render == (render.Options{}) {
		cfg.Render = def.Render
	}
	if cfg.Input == (control.Input{}) {
		cfg.Input = def.Input
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = def.FrameInterval
	}
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = def.MaxFrames
	}
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.Discard()
	}
	return cfg
}

func (r *runner) play(script Script) error {
	if r.cfg.Startup {
		r.event = "start"
		r.loop.Kick(r.ctrl.Start())
	}

	for _, e := range script {
		if r.trace.Truncated {
			return nil
		}
		if e.Kind != Wait {
			r.event = e.String()
		}
		switch e.Kind {
		case Move:
			r.loop.Kick(r.ctrl.PointerMove(e.X * r.cfg.Width))
		case Touch:
			r.loop.Kick(r.ctrl.TouchMove(e.X * r.cfg.Width))
		case Leave:
			r.loop.Kick(r.ctrl.PointerLeave())
		case TouchEnd:
			r.loop.Kick(r.ctrl.TouchEnd())
		case Wait:
			for i := 0; i < e.Frames && !r.trace.Truncated; i++ {
				if err := r.tick(); err != nil {
					return err
				}
			}
		}
	}

	for !r.trace.Truncated && r.busy() {
		if err := r.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) busy() bool {
	_, pending := r.ctrl.ResetDue()
	return r.sched.Pending() > 0 || pending
}

// tick advances the clock one frame, fires due timers and runs queued frames.
func (r *runner) tick() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if len(r.trace.Rows) >= r.cfg.MaxFrames {
		r.trace.Truncated = true
		r.cfg.Logger.Warn("experiment hit frame limit", "max_frames", r.cfg.MaxFrames)
		return nil
	}

	r.clock.Advance(r.cfg.FrameInterval)
	r.ctrl.Poll()
	ran := r.sched.Flush()

	s := r.ctrl.State()
	if !dynamo.Finite(s.X, s.Cost, s.VelX, s.VelCost, s.WaveOffset, s.WaveVelocity) {
		return fmt.Errorf("%w at frame %d", dynamo.ErrInvalidState, len(r.trace.Rows))
	}

	frame := len(r.trace.Rows)
	if ran > 0 && !s.Animating {
		r.trace.SettleFrame = frame
	}
	r.trace.Rows = append(r.trace.Rows, Row{
		Frame:        frame,
		TimeMs:       float64(r.clock.Since(epoch)) / float64(time.Millisecond),
		Event:        r.event,
		X:            s.X,
		Cost:         s.Cost,
		VelX:         s.VelX,
		VelCost:      s.VelCost,
		WaveOffset:   s.WaveOffset,
		WaveVelocity: s.WaveVelocity,
		Droplets:     len(s.Droplets),
		Splashes:     len(s.Splashes),
		Animating:    s.Animating,
	})
	r.event = ""
	return nil
}
