// Package prom implements the observability hooks on top of Prometheus.
//
// The command line registers a [Metrics] value on a private registry and,
// when asked to, writes the collected series to a node-exporter textfile
// after the run:
//
//	reg := prometheus.NewRegistry()
//	m := prom.New(reg)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	// ... run
//	_ = prom.WriteTextfile(path, reg)
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/observability"
)

const namespace = "vesselgen"

var durationBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120}

// Metrics implements [observability.PipelineHooks] and [observability.CacheHooks].
type Metrics struct {
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	networkNodes   prometheus.Gauge
	stageDuration  *prometheus.HistogramVec
	stageItems     *prometheus.GaugeVec
	stageErrors    *prometheus.CounterVec
	renderDuration prometheus.Histogram
	cacheEvents    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Vessel generation runs by result",
		}, []string{"result"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a vessel generation run",
			Buckets:   durationBuckets,
		}),
		networkNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_nodes",
			Help:      "Node count of the most recently generated network",
		}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each synthesis stage",
			Buckets:   durationBuckets,
		}, []string{"stage"}),
		stageItems: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_items",
			Help:      "Items produced by the most recent run of each stage",
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Failed synthesis stages by error code",
		}, []string{"stage", "code"}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent writing output artifacts",
			Buckets:   durationBuckets,
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes by key type and event",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
	}
}

func (m *Metrics) OnGenerateStart(context.Context, string, int) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, _ string, nodes int, d time.Duration, err error) {
	m.runDuration.Observe(d.Seconds())
	if err != nil {
		m.runs.WithLabelValues("error").Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.networkNodes.Set(float64(nodes))
}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, items int, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		code := string(errors.GetCode(err))
		if code == "" {
			code = "unknown"
		}
		m.stageErrors.WithLabelValues(stage, code).Inc()
		return
	}
	m.stageItems.WithLabelValues(stage).Set(float64(items))
}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, _ error) {
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// WriteTextfile writes every series gathered by g to path in the Prometheus
// text exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write metrics to %s", path)
	}
	return nil
}
