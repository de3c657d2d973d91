package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// Collector exports sweep progress as Prometheus metrics. It owns its
// registry so several sweeps in one process do not collide.
type Collector struct {
	registry *prometheus.Registry
	samples  *prometheus.CounterVec
	steps    prometheus.Counter
	duration prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "periodsweep_samples_total",
			Help: "Sweep samples finished, by outcome.",
		}, []string{"outcome"}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "periodsweep_steps_total",
			Help: "Leapfrog steps taken across all samples.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "periodsweep_sample_duration_seconds",
			Help:    "Wall time spent integrating one sample.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
	}
	c.registry.MustRegister(c.samples, c.steps, c.duration)
	return c
}

// ObserveSample records one finished sample. Safe for concurrent use.
func (c *Collector) ObserveSample(s dynamo.Sample, elapsed time.Duration) {
	c.samples.WithLabelValues(s.Outcome.String()).Inc()
	c.steps.Add(float64(s.Steps))
	c.duration.Observe(elapsed.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
