package physics_test

import (
	"errors"
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/physics"
	"github.com/san-kum/slrsim/internal/projection"
)

var _ = Describe("Step", func() {
	var (
		params physics.Params
		state  physics.State
	)

	BeforeEach(func() {
		params = physics.DefaultParams()
		state = physics.NewState(projection.Default().RestSample())
	})

	Describe("spring", func() {
		It("converges to a constant target", func() {
			state.SetTarget(20, 10)
			state.Animating = true

			for i := 0; i < 500; i++ {
				state = physics.Step(state, params)
			}
			Expect(state.X).To(BeNumerically("~", 20, 0.1))
			Expect(state.Cost).To(BeNumerically("~", 10, 0.1))

			frames := 500
			for state.Animating && frames < 4000 {
				state = physics.Step(state, params)
				frames++
			}
			Expect(state.Animating).To(BeFalse())
			Expect(physics.Settled(state, params)).To(BeTrue())
		})

		It("tracks faster with a higher pointer velocity", func() {
			slow, fast := state, state
			slow.SetTarget(0, 0)
			fast.SetTarget(0, 0)
			fast.PointerVelocity = 3

			slow = physics.Step(slow, params)
			fast = physics.Step(fast, params)

			Expect(100 - fast.X).To(BeNumerically(">", 100-slow.X))
		})

		It("caps the stiffening", func() {
			Expect(physics.SpringStrength(0, params)).To(BeNumerically("~", 0.3, 1e-12))
			Expect(physics.SpringStrength(1, params)).To(BeNumerically("~", 0.45, 1e-12))
			Expect(physics.SpringStrength(-100, params)).To(BeNumerically("~", 0.9, 1e-12))
		})

		It("applies damping to the accumulated force", func() {
			state.SetTarget(90, 93.3)
			next := physics.Step(state, params)
			// force = -10 * 0.3 = -3, velocity = -3 * 0.75
			Expect(next.VelX).To(BeNumerically("~", -2.25, 1e-12))
			Expect(next.X).To(BeNumerically("~", 97.75, 1e-12))
		})
	})

	Describe("wave oscillator", func() {
		It("decays strictly with no pointer motion and constant cost velocity", func() {
			offset, velocity := 0.0, 0.5
			const costVelocity = 0.01

			prev := math.Abs(velocity)
			for i := 0; i < 300; i++ {
				offset, velocity = physics.AdvanceWave(offset, velocity, costVelocity, 0, params)
				Expect(math.Abs(velocity)).To(BeNumerically("<", prev))
				prev = math.Abs(velocity)
			}
			Expect(offset).To(BeNumerically(">", 0))
		})

		It("outlasts the spring", func() {
			state.SetTarget(30, 20)
			state.Kick(0.2)
			state.Animating = true

			springSettledAt, frames := -1, 0
			for state.Animating && frames < 4000 {
				state = physics.Step(state, params)
				frames++
				if springSettledAt < 0 && math.Abs(state.VelX) < 0.1 && math.Abs(state.VelCost) < 0.1 {
					springSettledAt = frames
				}
			}
			Expect(springSettledAt).To(BeNumerically(">", 0))
			Expect(frames).To(BeNumerically(">", springSettledAt))
		})
	})

	Describe("pointer velocity", func() {
		It("relaxes toward zero every frame", func() {
			state.PointerVelocity = 2
			state = physics.Step(state, params)
			Expect(state.PointerVelocity).To(BeNumerically("~", 1.9, 1e-12))
			for i := 0; i < 200; i++ {
				state = physics.Step(state, params)
			}
			Expect(math.Abs(state.PointerVelocity)).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("particles", func() {
		var spawner *physics.Spawner

		BeforeEach(func() {
			spawner = physics.NewSpawner(rand.New(rand.NewPCG(7, 11)))
		})

		It("never keeps dead particles", func() {
			for i := 0; i < 40; i++ {
				state.AddDroplet(spawner.Droplet(float64(i)), 0)
				for _, sp := range spawner.Splash(50, 60) {
					state.AddSplash(sp, 0)
				}
			}
			Expect(state.Particles()).To(Equal(40 + 40*physics.SplashCount))

			for frame := 0; frame < 80; frame++ {
				state = physics.Step(state, params)
				for _, d := range state.Droplets {
					Expect(d.Life).To(BeNumerically(">", 0))
					Expect(d.Y).To(BeNumerically("<", params.FloorY))
				}
				for _, s := range state.Splashes {
					Expect(s.Life).To(BeNumerically(">", 0))
					Expect(s.Opacity).To(BeNumerically("~", s.Life/s.MaxLife, 1e-12))
				}
			}
			Expect(state.Particles()).To(Equal(0))
		})

		It("applies gravity to droplets", func() {
			state.Droplets = []physics.Droplet{{X: 10, Y: 0, Fall: 1, Life: 60, Radius: 1}}
			state = physics.Step(state, params)
			Expect(state.Droplets).To(HaveLen(1))
			Expect(state.Droplets[0].Y).To(BeNumerically("~", 1, 1e-12))
			Expect(state.Droplets[0].Fall).To(BeNumerically("~", 1.3, 1e-12))
			Expect(state.Droplets[0].Life).To(BeNumerically("~", 59, 1e-12))
		})

		It("purges droplets that reach the floor", func() {
			state.Droplets = []physics.Droplet{{Y: 99.5, Fall: 1, Life: 60}}
			state = physics.Step(state, params)
			Expect(state.Droplets).To(BeEmpty())
		})

		It("does not mutate the input particles", func() {
			state.Splashes = []physics.Splash{{X: 1, Y: 2, VX: 1, VY: -1, Life: 10, MaxLife: 50, Opacity: 1}}
			before := state.Clone()
			_ = physics.Step(state, params)
			Expect(state.Splashes).To(Equal(before.Splashes))
		})

		It("spawns within the documented ranges", func() {
			for i := 0; i < 200; i++ {
				d := spawner.Droplet(42)
				Expect(d.X).To(Equal(42.0))
				Expect(d.Y).To(And(BeNumerically("<=", -5), BeNumerically(">", -15)))
				Expect(d.Fall).To(And(BeNumerically(">=", 0.5), BeNumerically("<", 1.5)))
				Expect(d.Life).To(Equal(physics.DropletLife))
				Expect(d.Radius).To(And(BeNumerically(">=", 0.8), BeNumerically("<", 2.3)))

				for _, s := range spawner.Splash(50, 40) {
					Expect(s.Y).To(Equal(60.0))
					Expect(s.X).To(And(BeNumerically(">=", 47.5), BeNumerically("<", 52.5)))
					Expect(s.VY).To(And(BeNumerically("<=", -2), BeNumerically(">", -4)))
					Expect(s.Life).To(And(BeNumerically(">=", 30), BeNumerically("<", 50)))
					Expect(s.MaxLife).To(Equal(physics.SplashMaxLife))
				}
			}
		})

		It("caps particle lists, dropping the oldest", func() {
			for i := 0; i < 10; i++ {
				state.AddDroplet(physics.Droplet{X: float64(i), Life: 60}, 4)
			}
			Expect(state.Droplets).To(HaveLen(4))
			Expect(state.Droplets[0].X).To(Equal(6.0))
		})
	})
})

var _ = Describe("Params", func() {
	It("accepts the defaults", func() {
		Expect(physics.DefaultParams().Validate()).To(Succeed())
	})

	DescribeTable("rejects out-of-range values",
		func(mutate func(*physics.Params), name string) {
			p := physics.DefaultParams()
			mutate(&p)
			err := p.Validate()
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			var pErr *dynamo.ParamError
			Expect(errors.As(err, &pErr)).To(BeTrue())
			Expect(pErr.Name).To(Equal(name))
		},
		Entry("damping above one", func(p *physics.Params) { p.Damping = 1.2 }, "damping"),
		Entry("zero wave decay", func(p *physics.Params) { p.WaveDecay = 0 }, "wave_decay"),
		Entry("negative gain", func(p *physics.Params) { p.VelocityGain = -1 }, "velocity_gain"),
		Entry("zero strength", func(p *physics.Params) { p.BaseStrength = 0 }, "base_strength"),
		Entry("NaN advance", func(p *physics.Params) { p.WaveAdvance = math.NaN() }, "wave_advance"),
	)

	It("sets tunable parameters by name", func() {
		p := physics.DefaultParams()
		Expect(p.SetParam("damping", 0.8)).To(Succeed())
		Expect(p.Damping).To(Equal(0.8))
		Expect(p.GetParams()).To(HaveKeyWithValue("damping", 0.8))

		Expect(p.SetParam("damping", 2)).NotTo(Succeed())
		Expect(p.Damping).To(Equal(0.8))
		Expect(p.SetParam("gravity", 1)).NotTo(Succeed())
	})
})
