package sweep_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/metrics"
	"github.com/san-kum/periodsweep/internal/sweep"
)

// coarse is a fast configuration: low launches hit the surface and only the
// fastest points complete their orbits.
func coarse() (dynamo.Config, sweep.Plan) {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = 2
	cfg.Orbits = 2
	cfg.CollisionRadius = dynamo.EarthRadius
	return cfg, sweep.Plan{Min: -9000, Max: 9000, Samples: 8, SkipMidpoint: true}
}

func sampleIndices(samples []dynamo.Sample) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = s.Index
	}
	return out
}

func sameTimes(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
			return false
		}
	}
	return true
}

type countingObserver struct {
	mu    sync.Mutex
	count int
}

func (c *countingObserver) ObserveSample(s dynamo.Sample, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

var _ = Describe("Driver", func() {
	var (
		cfg  dynamo.Config
		plan sweep.Plan
	)

	BeforeEach(func() {
		cfg, plan = coarse()
	})

	It("emits samples in sweep order under parallelism", func() {
		sink := &sweep.SliceSink{}
		summary, err := sweep.NewDriver(cfg, plan).WithWorkers(4).Run(context.Background(), sink)

		Expect(err).NotTo(HaveOccurred())
		Expect(sampleIndices(sink.Samples)).To(Equal([]int{0, 1, 2, 3, 5, 6, 7, 8}))
		Expect(summary.Samples).To(Equal(8))
	})

	It("classifies surface impacts and completed orbits", func() {
		sink := &sweep.SliceSink{}
		summary, err := sweep.NewDriver(cfg, plan).Run(context.Background(), sink)
		Expect(err).NotTo(HaveOccurred())

		for _, s := range sink.Samples {
			if math.Abs(s.Velocity) == 9000 {
				Expect(s.Outcome).To(Equal(dynamo.OutcomeCompleted))
				Expect(s.Times[0]).To(BeNumerically("<", s.Times[1]))
			} else {
				Expect(s.Outcome).To(Equal(dynamo.OutcomeCollision), "v=%v", s.Velocity)
				Expect(s.Times).To(HaveEach(WithTransform(math.IsNaN, BeTrue())))
			}
		}
		Expect(summary.Outcomes).To(Equal(map[dynamo.Outcome]int{
			dynamo.OutcomeCompleted: 2,
			dynamo.OutcomeCollision: 6,
		}))
	})

	It("gives mirror launches the same period", func() {
		sink := &sweep.SliceSink{}
		_, err := sweep.NewDriver(cfg, plan).Run(context.Background(), sink)
		Expect(err).NotTo(HaveOccurred())

		first, last := sink.Samples[0], sink.Samples[len(sink.Samples)-1]
		Expect(first.Times[1]).To(BeNumerically("~", last.Times[1], 2*cfg.Dt))
	})

	It("does not depend on the worker count", func() {
		serial, parallel := &sweep.SliceSink{}, &sweep.SliceSink{}
		_, err := sweep.NewDriver(cfg, plan).WithWorkers(1).Run(context.Background(), serial)
		Expect(err).NotTo(HaveOccurred())
		_, err = sweep.NewDriver(cfg, plan).WithWorkers(8).Run(context.Background(), parallel)
		Expect(err).NotTo(HaveOccurred())

		Expect(parallel.Samples).To(HaveLen(len(serial.Samples)))
		for i := range serial.Samples {
			Expect(sameTimes(serial.Samples[i].Times, parallel.Samples[i].Times)).To(BeTrue())
			Expect(parallel.Samples[i].Steps).To(Equal(serial.Samples[i].Steps))
		}
	})

	It("attaches per-sample metrics and notifies the observer", func() {
		obs := &countingObserver{}
		sink := &sweep.SliceSink{}
		_, err := sweep.NewDriver(cfg, plan).
			WithMetrics(metrics.Standard).
			WithObserver(obs).
			Run(context.Background(), sink)
		Expect(err).NotTo(HaveOccurred())

		Expect(obs.count).To(Equal(8))
		completed := sink.Samples[0]
		Expect(completed.Metrics).To(HaveKey("energy_drift"))
		Expect(completed.Metrics["energy_drift"]).To(BeNumerically("<", 1e-3))
		Expect(completed.Metrics["min_separation"]).To(BeNumerically("~", cfg.OrbitRadius, 100))
	})

	It("feeds the Prometheus collector", func() {
		col := metrics.NewCollector()
		_, err := sweep.NewDriver(cfg, plan).WithObserver(col).Run(context.Background(), &sweep.SliceSink{})
		Expect(err).NotTo(HaveOccurred())

		families, err := col.Registry().Gather()
		Expect(err).NotTo(HaveOccurred())
		Expect(families).NotTo(BeEmpty())
	})

	It("stops on a sink error", func() {
		boom := errors.New("disk full")
		written := 0
		sink := sweep.SinkFunc(func(s dynamo.Sample) error {
			if written == 3 {
				return boom
			}
			written++
			return nil
		})

		_, err := sweep.NewDriver(cfg, plan).WithWorkers(2).Run(context.Background(), sink)
		Expect(err).To(MatchError(boom))
		Expect(written).To(Equal(3))
	})

	It("returns the context error when canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sink := &sweep.SliceSink{}
		_, err := sweep.NewDriver(cfg, plan).Run(ctx, sink)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(sink.Samples).To(BeEmpty())
	})

	It("rejects invalid input before integrating", func() {
		bad := cfg
		bad.Dt = 0
		_, err := sweep.NewDriver(bad, plan).Run(context.Background(), &sweep.SliceSink{})
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())

		_, err = sweep.NewDriver(cfg, sweep.Plan{}).Run(context.Background(), &sweep.SliceSink{})
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})
})
