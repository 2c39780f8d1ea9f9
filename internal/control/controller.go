package control

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/metrics"
	"github.com/san-kum/slrsim/internal/observability"
	"github.com/san-kum/slrsim/internal/physics"
	"github.com/san-kum/slrsim/internal/projection"
	"github.com/san-kum/slrsim/internal/render"
)

const (
	DefaultSmoothing      = 0.3
	DefaultDropletChance  = 0.3
	DefaultDropletSpeed   = 0.5
	DefaultSplashVelocity = 2.0
	DefaultResetDelay     = 300 * time.Millisecond
	DefaultStartupWave    = 0.2
)

// Rect is the chart area in host units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Readout is the text shown next to the chart.
type Readout struct {
	Year   string
	SLR    string
	Cost   string
	Impact string

	Displaced string

	Headline     string
	HeadlineYear string

	// Raw numbers behind SLR and Cost, for hosts that animate them.
	SLRValue  float64
	CostValue float64

	Active bool
}

// Display is the presentation surface the controller pushes to.
type Display interface {
	SetCurve(render.Curve)
	SetParticles([]render.Marker)
	SetReadout(Readout)
}

type nopDisplay struct{}

func (nopDisplay) SetCurve(render.Curve)        {}
func (nopDisplay) SetParticles([]render.Marker) {}
func (nopDisplay) SetReadout(Readout)           {}

// Input tunes pointer handling.
type Input struct {
	Smoothing      float64
	DropletChance  float64
	DropletSpeed   float64
	SplashVelocity float64
	StartupWave    float64
}

func DefaultInput() Input {
	return Input{
		Smoothing:      DefaultSmoothing,
		DropletChance:  DefaultDropletChance,
		DropletSpeed:   DefaultDropletSpeed,
		SplashVelocity: DefaultSplashVelocity,
		StartupWave:    DefaultStartupWave,
	}
}

type Option func(*Controller)

func WithClock(c clockwork.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

func WithRand(r dynamo.Rand) Option {
	return func(ctrl *Controller) { ctrl.spawner = physics.NewSpawner(r) }
}

func WithDisplay(d Display) Option {
	return func(ctrl *Controller) {
		if d != nil {
			ctrl.display = d
		}
	}
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(ctrl *Controller) { ctrl.rec = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(ctrl *Controller) {
		if l != nil {
			ctrl.log = l
		}
	}
}

func WithResetDelay(d time.Duration) Option {
	return func(ctrl *Controller) { ctrl.resetDelay = d }
}

func WithBounds(r Rect) Option {
	return func(ctrl *Controller) { ctrl.bounds = r }
}

func WithInput(in Input) Option {
	return func(ctrl *Controller) { ctrl.input = in }
}

func WithRenderOptions(o render.Options) Option {
	return func(ctrl *Controller) { ctrl.opts = o }
}

// Controller maps input to the fluid state. It is not safe for concurrent
// use; hosts deliver input and frames from a single goroutine.
type Controller struct {
	ds     *projection.Dataset
	params physics.Params
	opts   render.Options
	input  Input

	state   physics.State
	readout Readout
	bounds  Rect

	hasSample    bool
	resetDelay   time.Duration
	resetAt      time.Time
	resetPending bool

	spawner *physics.Spawner
	clock   clockwork.Clock
	display Display
	rec     *metrics.Recorder
	log     *slog.Logger
}

func New(ds *projection.Dataset, params physics.Params, opts ...Option) (*Controller, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", dynamo.ErrInvalidDataset)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		ds:         ds,
		params:     params,
		opts:       render.DefaultOptions(),
		input:      DefaultInput(),
		resetDelay: DefaultResetDelay,
		clock:      clockwork.NewRealClock(),
		display:    nopDisplay{},
		log:        observability.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.spawner == nil {
		c.spawner = physics.NewSpawner(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	}

	rest := ds.RestSample()
	c.state = physics.NewState(rest)
	c.readout = restReadout(rest)
	return c, nil
}

func (c *Controller) State() physics.State { return c.state.Clone() }

func (c *Controller) Readout() Readout { return c.readout }

func (c *Controller) Animating() bool { return c.state.Animating }

func (c *Controller) Bounds() Rect { return c.bounds }

// SetBounds updates the chart area, e.g. after a terminal resize.
func (c *Controller) SetBounds(r Rect) { c.bounds = r }

func (c *Controller) Dataset() *projection.Dataset { return c.ds }

// Render draws the current state without advancing it.
func (c *Controller) Render() render.Frame { return render.Render(c.state, c.opts) }

func (c *Controller) Params() physics.Params { return c.params }

// SetParam tunes a physics parameter while running. Like the input
// handlers it reports whether a frame loop must be started.
func (c *Controller) SetParam(name string, value float64) (bool, error) {
	if err := c.params.SetParam(name, value); err != nil {
		return false, err
	}
	c.log.Info("param updated", "name", name, "value", value)
	return c.ensureLoop(), nil
}

// Start rests the fluid at the final knot and adds a gentle ripple.
func (c *Controller) Start() bool {
	rest := c.ds.RestSample()
	running := c.state.Animating
	c.state = physics.NewState(rest)
	c.state.Animating = running
	c.state.Kick(c.input.StartupWave)
	c.hasSample = false
	c.resetPending = false
	c.readout = restReadout(rest)
	c.display.SetReadout(c.readout)
	c.log.Debug("chart started", "rest_x", rest.XPercent, "rest_cost", rest.CostPercent)
	return c.ensureLoop()
}

// PointerMove handles a pointer at horizontal host coordinate x.
func (c *Controller) PointerMove(x float64) bool {
	c.rec.Pointer("move")
	offset := c.offset(x)
	now := c.clock.Now()

	if c.hasSample {
		if dt := float64(now.Sub(c.state.LastPointerAt)) / float64(time.Millisecond); dt > 0 {
			instant := (offset - c.state.LastPointerX) / dt
			a := c.input.Smoothing
			c.state.PointerVelocity = c.state.PointerVelocity*(1-a) + instant*a
			if math.Abs(instant) > c.input.DropletSpeed && c.spawner.Roll(c.input.DropletChance) {
				c.state.AddDroplet(c.spawner.Droplet(c.fraction(offset)*100), c.params.MaxParticles)
				c.rec.Spawned("droplet", 1)
			}
		}
	}
	c.state.LastPointerX = offset
	c.state.LastPointerAt = now
	c.hasSample = true

	sample := c.target(offset)
	if math.Abs(c.state.VelCost) > c.input.SplashVelocity {
		splashes := c.spawner.Splash(sample.XPercent, sample.CostPercent)
		for _, sp := range splashes {
			c.state.AddSplash(sp, c.params.MaxParticles)
		}
		c.rec.Spawned("splash", len(splashes))
	}
	return c.ensureLoop()
}

// TouchMove follows a touch point. Touch input does not estimate velocity
// and spawns no particles.
func (c *Controller) TouchMove(x float64) bool {
	c.rec.Pointer("touch_move")
	c.target(c.offset(x))
	return c.ensureLoop()
}

func (c *Controller) PointerEnter() {
	c.rec.Pointer("enter")
	c.readout.Active = true
	c.display.SetReadout(c.readout)
}

func (c *Controller) PointerLeave() bool {
	c.rec.Pointer("leave")
	return c.rest()
}

func (c *Controller) TouchEnd() bool {
	c.rec.Pointer("touch_end")
	return c.rest()
}

// ResetDue reports whether a readout reset is pending and its due time.
func (c *Controller) ResetDue() (time.Time, bool) {
	return c.resetAt, c.resetPending
}

func (c *Controller) ResetDelay() time.Duration { return c.resetDelay }

// Poll applies a due readout reset. It reports whether the readout changed.
func (c *Controller) Poll() bool {
	if !c.resetPending || c.clock.Now().Before(c.resetAt) {
		return false
	}
	c.resetPending = false
	c.readout = restReadout(c.ds.RestSample())
	c.display.SetReadout(c.readout)
	c.log.Debug("readout reset")
	return true
}

// Frame advances the fluid one step and repaints. It reports whether another
// frame must be scheduled.
func (c *Controller) Frame() (more bool) {
	if !c.state.Animating {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("frame failed", "panic", r)
			c.state.Animating = false
			more = false
		}
	}()

	start := c.clock.Now()
	c.state = physics.Step(c.state, c.params)
	frame := render.Render(c.state, c.opts)
	c.display.SetCurve(frame.Curve)
	c.display.SetParticles(frame.Markers)
	c.rec.ObserveFrame(c.state, c.clock.Since(start))

	if !c.state.Animating {
		c.log.Debug("fluid settled", "x", c.state.X, "cost", c.state.Cost)
	}
	return c.state.Animating
}

// ensureLoop marks the fluid as animating. It reports true only when no loop
// was running, so a caller never starts a second one.
func (c *Controller) ensureLoop() bool {
	if c.state.Animating {
		return false
	}
	c.state.Animating = true
	c.rec.LoopStarted()
	c.log.Debug("frame loop started")
	return true
}

func (c *Controller) rest() bool {
	rest := c.ds.RestSample()
	c.state.SetTarget(rest.XPercent, rest.CostPercent)
	c.resetAt = c.clock.Now().Add(c.resetDelay)
	c.resetPending = true
	if c.resetDelay <= 0 {
		c.Poll()
	}
	return c.ensureLoop()
}

func (c *Controller) target(offset float64) projection.Sample {
	sample := c.ds.ValueAt(c.fraction(offset))
	c.state.SetTarget(sample.XPercent, sample.CostPercent)
	c.resetPending = false
	c.readout = sampleReadout(sample)
	c.display.SetReadout(c.readout)
	return sample
}

func (c *Controller) offset(x float64) float64 {
	return dynamo.Clamp(x-c.bounds.X, 0, math.Max(c.bounds.Width, 0))
}

func (c *Controller) fraction(offset float64) float64 {
	if c.bounds.Width <= 0 {
		return 0
	}
	return dynamo.Clamp01(offset / c.bounds.Width)
}

func sampleReadout(s projection.Sample) Readout {
	year := projection.FormatYear(s.Year)
	return Readout{
		Year:         year,
		SLR:          projection.FormatSLR(s.SeaLevelRise),
		Cost:         projection.FormatCost(s.Cost),
		Impact:       s.Impact,
		Displaced:    s.DisplacedText,
		Headline:     projection.FormatHeadline(s.Cost),
		HeadlineYear: year,
		SLRValue:     s.SeaLevelRise,
		CostValue:    s.Cost,
		Active:       true,
	}
}

func restReadout(s projection.Sample) Readout {
	r := sampleReadout(s)
	r.Headline = projection.FormatRestHeadline(s.Cost)
	r.Active = false
	return r
}
