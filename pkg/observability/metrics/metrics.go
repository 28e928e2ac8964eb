// Package metrics exports reactor and batch events as Prometheus metrics.
//
// A [Collector] implements both [observability.ReactorHooks] and
// [observability.BatchHooks]. Register it once at startup, run the batch, then
// write the registry to a node-exporter textfile:
//
//	c := metrics.New()
//	c.Register()
//	defer observability.Reset()
//	// ... run batches ...
//	err := c.WriteTextfile("molpatch.prom")
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/molpatch/pkg/errors"
	"github.com/matzehuels/molpatch/pkg/observability"
)

const namespace = "molpatch"

// Collector records reactor and batch events into its own registry.
// It is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	applies       prometheus.Counter
	applyErrors   *prometheus.CounterVec
	applyDuration prometheus.Histogram
	productAtoms  prometheus.Histogram
	flushes       *prometheus.CounterVec
	sites         *prometheus.CounterVec
	batches       *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

var (
	_ observability.ReactorHooks = (*Collector)(nil)
	_ observability.BatchHooks   = (*Collector)(nil)
)

// New creates a collector with all metrics registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		applies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applies_total",
			Help:      "Successful reactor applications.",
		}),
		applyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_errors_total",
			Help:      "Failed reactor applications by error code.",
		}, []string{"code"}),
		applyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Duration of single reactor applications.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		productAtoms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "product_atoms",
			Help:      "Atom count of successful products.",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 10),
		}),
		flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stereo_flushes_total",
			Help:      "Stereo labels dropped because their support changed.",
		}, []string{"kind"}),
		sites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_total",
			Help:      "Match sites processed by the batch runner.",
		}, []string{"result"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batch runs by outcome.",
		}, []string{"result"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock duration of batch runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	c.registry.MustRegister(
		c.applies, c.applyErrors, c.applyDuration, c.productAtoms, c.flushes,
		c.sites, c.batches, c.batchDuration,
	)
	return c
}

// Register installs c as the global reactor and batch hooks.
func (c *Collector) Register() {
	observability.SetReactorHooks(c)
	observability.SetBatchHooks(c)
}

// Registry returns the registry holding c's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes all metrics in the text exposition format. The file is
// replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func (c *Collector) OnApplyStart(context.Context, int, int) {}

func (c *Collector) OnApplyComplete(_ context.Context, atoms int, d time.Duration, err error) {
	c.applyDuration.Observe(d.Seconds())
	if err != nil {
		c.applyErrors.WithLabelValues(codeLabel(err)).Inc()
		return
	}
	c.applies.Inc()
	c.productAtoms.Observe(float64(atoms))
}

func (c *Collector) OnStereoFlush(_ context.Context, kind string, _ []int) {
	c.flushes.WithLabelValues(kind).Inc()
}

func (c *Collector) OnBatchStart(context.Context, string, int) {}

func (c *Collector) OnBatchComplete(_ context.Context, _ string, applied, skipped int, d time.Duration, err error) {
	c.sites.WithLabelValues("applied").Add(float64(applied))
	c.sites.WithLabelValues("skipped").Add(float64(skipped))
	c.batchDuration.Observe(d.Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.batches.WithLabelValues(result).Inc()
}

// codeLabel bounds label cardinality to the known error codes.
func codeLabel(err error) string {
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "other"
}
