// Package metrics exports frame statistics to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/life"
)

// Frames collects per-frame statistics. It implements life.FrameObserver.
type Frames struct {
	registry *prometheus.Registry

	// FramesTotal counts recorded frames by phase
	FramesTotal *prometheus.CounterVec

	// FrameSeconds tracks recording time per frame
	FrameSeconds prometheus.Histogram

	// Generation is the newest generation number
	Generation prometheus.Gauge
}

var _ life.FrameObserver = (*Frames)(nil)

// New registers the frame collectors on a fresh registry.
func New() *Frames {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Frames{
		registry: reg,
		FramesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "life_frames_total",
				Help: "Recorded frames by phase",
			},
			[]string{"phase"},
		),
		FrameSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "life_frame_record_seconds",
				Help:    "Time spent recording a frame, pacing excluded",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		Generation: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "life_generation",
				Help: "Newest automaton generation",
			},
		),
	}
}

// ObserveFrame implements life.FrameObserver.
func (f *Frames) ObserveFrame(s life.FrameStats) {
	f.FramesTotal.WithLabelValues(s.Phase.String()).Inc()
	f.FrameSeconds.Observe(s.Duration.Seconds())
	f.Generation.Set(float64(s.Generation))
}

// Registry returns the registry holding the collectors.
func (f *Frames) Registry() *prometheus.Registry { return f.registry }

// Handler serves the collectors in the Prometheus exposition format.
func (f *Frames) Handler() http.Handler {
	return promhttp.HandlerFor(f.registry, promhttp.HandlerOpts{})
}
