package experiment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slrsim/internal/control"
	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/experiment"
	"github.com/san-kum/slrsim/internal/metrics"
)

var _ = Describe("Run", func() {
	var (
		ctx context.Context
		cfg experiment.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = experiment.DefaultConfig()
	})

	hover := experiment.Script{
		{Kind: experiment.Move, X: 0.5},
		{Kind: experiment.Wait, Frames: 240},
		{Kind: experiment.Leave},
	}

	It("follows the pointer and settles back at rest", func() {
		trace, err := experiment.Run(ctx, hover, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(trace.Rows[239].X).To(BeNumerically("~", 50, 0.5))
		Expect(trace.Rows[0].Event).To(Equal("move:0.5"))
		Expect(trace.Rows[1].Event).To(BeEmpty())
		Expect(trace.Rows[0].TimeMs).To(Equal(16.0))

		Expect(trace.Settled).To(BeTrue())
		Expect(trace.Truncated).To(BeFalse())
		Expect(trace.SettleFrame).To(BeNumerically(">", 240))
		Expect(trace.SettleFrame).To(Equal(len(trace.Rows) - 1))

		last := trace.Rows[len(trace.Rows)-1]
		Expect(last.X).To(BeNumerically("~", 100, 0.1))
		Expect(last.Animating).To(BeFalse())

		Expect(trace.Readout.Headline).To(Equal("$14"))
		Expect(trace.Readout.Active).To(BeFalse())
	})

	It("is reproducible for a seed", func() {
		cfg.Input.DropletChance = 0.5
		script := experiment.Sweep(0, 1, 10, 30)

		a, err := experiment.Run(ctx, script, cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := experiment.Run(ctx, script, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Rows).To(Equal(b.Rows))
	})

	It("spawns droplets on fast pointer motion", func() {
		cfg.Input.DropletChance = 1
		trace, err := experiment.Run(ctx, experiment.Sweep(0.1, 0.9, 4, 10), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Summary()["peak_particles"]).To(BeNumerically(">=", 1))
	})

	It("spawns nothing for touch input", func() {
		cfg.Input.DropletChance = 1
		script, err := experiment.Parse("touch:0.1,wait:1,touch:0.9,wait:1,touch:0.1,wait:20,touch-end")
		Expect(err).NotTo(HaveOccurred())

		trace, err := experiment.Run(ctx, script, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Summary()["peak_particles"]).To(BeZero())
	})

	It("plays the startup ripple", func() {
		cfg.Startup = true
		trace, err := experiment.Run(ctx, experiment.Script{{Kind: experiment.Wait, Frames: 5}}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Rows[0].Event).To(Equal("start"))
		Expect(trace.Rows[0].WaveVelocity).NotTo(BeZero())
		Expect(trace.Settled).To(BeTrue())
	})

	It("stops at the frame limit", func() {
		cfg.MaxFrames = 50
		trace, err := experiment.Run(ctx, hover, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Rows).To(HaveLen(50))
		Expect(trace.Truncated).To(BeTrue())
		Expect(trace.Settled).To(BeFalse())
	})

	It("honors cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		trace, err := experiment.Run(cctx, hover, cfg)
		Expect(err).To(MatchError(context.Canceled))
		Expect(trace.Rows).To(BeEmpty())
	})

	It("rejects an empty script", func() {
		_, err := experiment.Run(ctx, nil, cfg)
		Expect(err).To(MatchError(dynamo.ErrEmptyScript))
	})

	It("rejects invalid parameters", func() {
		cfg.Params.Damping = 5
		_, err := experiment.Run(ctx, hover, cfg)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("reports into a recorder", func() {
		cfg.Recorder = metrics.New()
		_, err := experiment.Run(ctx, hover, cfg)
		Expect(err).NotTo(HaveOccurred())

		families, err := cfg.Recorder.Registry().Gather()
		Expect(err).NotTo(HaveOccurred())
		Expect(families).NotTo(BeEmpty())
	})

	It("fills zero-valued settings with defaults", func() {
		trace, err := experiment.Run(ctx, hover, experiment.Config{Input: control.DefaultInput()})
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Settled).To(BeTrue())
	})
})

var _ = Describe("Trace", func() {
	It("extracts series and summaries", func() {
		trace, err := experiment.Run(context.Background(), experiment.Sweep(0, 0.5, 5, 5), experiment.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		xs, err := trace.Series("x")
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(HaveLen(len(trace.Rows)))

		_, err = trace.Series("nope")
		Expect(err).To(HaveOccurred())

		sum := trace.Summary()
		Expect(sum["frames"]).To(Equal(float64(len(trace.Rows))))
		Expect(sum).To(HaveKey("final_x"))
		Expect(sum["peak_cost_velocity"]).To(BeNumerically(">", 0))
	})
})
