package experiment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slrsim/internal/dynamo"
	"github.com/san-kum/slrsim/internal/experiment"
)

var _ = Describe("Parse", func() {
	It("reads every event kind", func() {
		s, err := experiment.Parse("move:0.5, wait:30,touch:0.25,touch-end,leave")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(experiment.Script{
			{Kind: experiment.Move, X: 0.5},
			{Kind: experiment.Wait, Frames: 30},
			{Kind: experiment.Touch, X: 0.25},
			{Kind: experiment.TouchEnd},
			{Kind: experiment.Leave},
		}))
		Expect(s.Frames()).To(Equal(30))
	})

	It("round-trips through String", func() {
		text := "move:0.5,wait:30,leave"
		s, err := experiment.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.String()).To(Equal(text))
	})

	It("rejects an empty script", func() {
		_, err := experiment.Parse(" , ")
		Expect(err).To(MatchError(dynamo.ErrEmptyScript))
	})

	DescribeTable("rejects malformed events",
		func(text string) {
			_, err := experiment.Parse(text)
			Expect(err).To(HaveOccurred())
		},
		Entry("unknown verb", "jump:1"),
		Entry("move without position", "move"),
		Entry("bad number", "move:abc"),
		Entry("infinite position", "move:Inf"),
		Entry("negative wait", "wait:-1"),
		Entry("fractional wait", "wait:1.5"),
	)
})

var _ = Describe("Sweep", func() {
	It("moves one frame apart, holds and leaves", func() {
		s := experiment.Sweep(0, 1, 4, 10)

		Expect(s).To(HaveLen(12))
		Expect(s[0]).To(Equal(experiment.Event{Kind: experiment.Move, X: 0}))
		Expect(s[2]).To(Equal(experiment.Event{Kind: experiment.Move, X: 0.25}))
		Expect(s[8]).To(Equal(experiment.Event{Kind: experiment.Move, X: 1}))
		Expect(s[len(s)-1].Kind).To(Equal(experiment.Leave))
		Expect(s.Frames()).To(Equal(15))
	})

	It("treats zero steps as a single hop", func() {
		s := experiment.Sweep(0.2, 0.8, 0, 0)
		Expect(s).To(HaveLen(5))
		Expect(s[2].X).To(BeNumerically("~", 0.8, 1e-12))
	})
})

var _ = Describe("Registry", func() {
	var r *experiment.Registry

	BeforeEach(func() {
		r = experiment.NewRegistry()
	})

	It("lists scripts in order", func() {
		Expect(r.Names()).To(Equal([]string{"flick", "hover", "return", "sweep", "touch"}))
	})

	It("reports unknown names", func() {
		_, err := r.Get("nope")
		Expect(err).To(MatchError(dynamo.ErrUnknownScript))
	})

	It("resolves names before inline scripts", func() {
		s, err := r.Resolve("hover")
		Expect(err).NotTo(HaveOccurred())
		Expect(s[0].X).To(Equal(0.5))

		s, err = r.Resolve("move:0.1,leave")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(HaveLen(2))
	})

	It("accepts custom scripts", func() {
		r.Register("poke", func() experiment.Script {
			return experiment.Script{{Kind: experiment.Move, X: 0.3}}
		})
		Expect(r.Names()).To(ContainElement("poke"))
	})
})
