package experiment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slrsim/internal/experiment"
)

var _ = Describe("Ensemble", func() {
	It("runs one trace per seed and matches single runs", func() {
		cfg := experiment.DefaultConfig()
		cfg.Input.DropletChance = 0.5
		script := experiment.Sweep(0, 1, 10, 30)

		traces, err := experiment.NewEnsemble(script, 3, 7).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(traces).To(HaveLen(3))

		cfg.Seed = 8
		single, err := experiment.Run(context.Background(), script, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(traces[1].Rows).To(Equal(single.Rows))
	})

	It("reports a failed run", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := experiment.NewEnsemble(experiment.Sweep(0, 1, 5, 10), 2, 1).Run(ctx, experiment.DefaultConfig())
		Expect(err).To(MatchError(context.Canceled))
	})
})
