package sweep

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/physics"
	"github.com/san-kum/periodsweep/internal/sim"
)

// Sink receives samples in sweep order, one call at a time.
type Sink interface {
	Write(s dynamo.Sample) error
}

type SinkFunc func(s dynamo.Sample) error

func (f SinkFunc) Write(s dynamo.Sample) error { return f(s) }

// SliceSink keeps every sample in memory.
type SliceSink struct {
	Samples []dynamo.Sample
}

func (s *SliceSink) Write(sample dynamo.Sample) error {
	s.Samples = append(s.Samples, sample)
	return nil
}

// Observer is told about each sample as soon as its worker finishes,
// before reordering. It must be safe for concurrent use.
type Observer interface {
	ObserveSample(s dynamo.Sample, elapsed time.Duration)
}

// MetricFactory builds the per-sample metric set.
type MetricFactory func(g physics.Gravity) []dynamo.Metric

// Summary describes a finished sweep.
type Summary struct {
	Samples  int                    `json:"samples"`
	Outcomes map[dynamo.Outcome]int `json:"outcomes"`
	Steps    int64                  `json:"steps"`
	Elapsed  time.Duration          `json:"elapsed"`
}

type Driver struct {
	cfg      dynamo.Config
	plan     Plan
	workers  int
	metrics  MetricFactory
	observer Observer
}

func NewDriver(cfg dynamo.Config, plan Plan) *Driver {
	return &Driver{
		cfg:     cfg,
		plan:    plan,
		workers: runtime.NumCPU(),
	}
}

// WithWorkers bounds the number of samples integrated at once. Values
// below 1 select runtime.NumCPU.
func (d *Driver) WithWorkers(n int) *Driver {
	if n < 1 {
		n = runtime.NumCPU()
	}
	d.workers = n
	return d
}

func (d *Driver) WithMetrics(f MetricFactory) *Driver {
	d.metrics = f
	return d
}

func (d *Driver) WithObserver(o Observer) *Driver {
	d.observer = o
	return d
}

func (d *Driver) Plan() Plan            { return d.plan }
func (d *Driver) Config() dynamo.Config { return d.cfg }

// Run integrates every planned point and writes the samples to sink in
// index order. A sink error or cancellation stops the sweep; samples
// already written stay written.
func (d *Driver) Run(ctx context.Context, sink Sink) (Summary, error) {
	summary := Summary{Outcomes: make(map[dynamo.Outcome]int)}

	if err := d.cfg.Validate(); err != nil {
		return summary, err
	}
	if err := d.plan.Validate(); err != nil {
		return summary, err
	}

	start := time.Now()
	points := d.plan.Points()
	ord := &reorder{
		sink:    sink,
		pending: make(map[int]dynamo.Sample),
		summary: &summary,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for pos, pt := range points {
		if gctx.Err() != nil {
			break
		}
		pos, pt := pos, pt
		g.Go(func() error {
			sample, elapsed, err := d.runOne(gctx, pt)
			if err != nil {
				return err
			}
			if d.observer != nil {
				d.observer.ObserveSample(sample, elapsed)
			}
			return ord.put(pos, sample)
		})
	}

	err := g.Wait()
	summary.Elapsed = time.Since(start)
	if err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

func (d *Driver) runOne(ctx context.Context, pt Point) (dynamo.Sample, time.Duration, error) {
	s := sim.New(d.cfg)
	if d.metrics != nil {
		for _, m := range d.metrics(s.Gravity()) {
			s.AddMetric(m)
		}
	}
	start := time.Now()
	sample, err := s.Run(ctx, pt.Index, pt.Velocity)
	return sample, time.Since(start), err
}

// reorder releases samples to the sink strictly by position.
type reorder struct {
	mu      sync.Mutex
	sink    Sink
	next    int
	pending map[int]dynamo.Sample
	summary *Summary
	err     error
}

func (r *reorder) put(pos int, s dynamo.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Nothing goes past a failed write.
	if r.err != nil {
		return r.err
	}
	r.pending[pos] = s
	for {
		ready, ok := r.pending[r.next]
		if !ok {
			return nil
		}
		delete(r.pending, r.next)
		r.next++

		if err := r.sink.Write(ready); err != nil {
			r.err = err
			return err
		}
		r.summary.Samples++
		r.summary.Outcomes[ready.Outcome]++
		r.summary.Steps += int64(ready.Steps)
	}
}
