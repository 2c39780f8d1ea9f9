package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/slrsim/internal/physics"
)

const namespace = "slrsim"

// Recorder holds the counters and gauges for the chart's frame loop.
type Recorder struct {
	registry *prometheus.Registry

	Frames           prometheus.Counter
	LoopStarts       prometheus.Counter
	Settles          prometheus.Counter
	PointerEvents    *prometheus.CounterVec // labels: kind={move,touch_move,enter,leave,touch_end}
	ParticlesSpawned *prometheus.CounterVec // labels: kind={droplet,splash}
	LiveParticles    *prometheus.GaugeVec   // labels: kind={droplet,splash}
	FluidEnergy      prometheus.Gauge
	FrameDuration    prometheus.Histogram
}

// New creates a Recorder registered on its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Animation frames stepped.",
		}),
		LoopStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_starts_total",
			Help:      "Times the frame loop was started from idle.",
		}),
		Settles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_settles_total",
			Help:      "Times the frame loop stopped because the fluid settled.",
		}),
		PointerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pointer_events_total",
			Help:      "Pointer and touch events handled by kind.",
		}, []string{"kind"}),
		ParticlesSpawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "particles_spawned_total",
			Help:      "Particles spawned by kind.",
		}, []string{"kind"}),
		LiveParticles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "particles_live",
			Help:      "Particles alive after the last frame by kind.",
		}, []string{"kind"}),
		FluidEnergy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fluid_energy",
			Help:      "Kinetic proxy of the spring and wave after the last frame.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent stepping and rendering one frame.",
			Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016, 0.033},
		}),
	}

	r.registry.MustRegister(
		r.Frames,
		r.LoopStarts,
		r.Settles,
		r.PointerEvents,
		r.ParticlesSpawned,
		r.LiveParticles,
		r.FluidEnergy,
		r.FrameDuration,
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveFrame records one stepped frame.
func (r *Recorder) ObserveFrame(s physics.State, took time.Duration) {
	if r == nil {
		return
	}
	r.Frames.Inc()
	r.FrameDuration.Observe(took.Seconds())
	r.FluidEnergy.Set(s.Energy())
	r.LiveParticles.WithLabelValues("droplet").Set(float64(len(s.Droplets)))
	r.LiveParticles.WithLabelValues("splash").Set(float64(len(s.Splashes)))
	if !s.Animating {
		r.Settles.Inc()
	}
}

func (r *Recorder) LoopStarted() {
	if r == nil {
		return
	}
	r.LoopStarts.Inc()
}

func (r *Recorder) Pointer(kind string) {
	if r == nil {
		return
	}
	r.PointerEvents.WithLabelValues(kind).Inc()
}

func (r *Recorder) Spawned(kind string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.ParticlesSpawned.WithLabelValues(kind).Add(float64(n))
}

// WriteTextfile dumps the registry in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
