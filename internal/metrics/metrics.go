package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ota"

type Collector struct {
	checks     *prometheus.CounterVec
	runs       *prometheus.CounterVec
	progress   prometheus.Gauge
	downloaded prometheus.Gauge
	phase      *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		checks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Update checks by outcome.",
		}, []string{"result"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installs_total",
			Help:      "Background install runs by outcome.",
		}, []string{"result"}),
		progress: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_percent",
			Help:      "Progress of the current install run.",
		}),
		downloaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes",
			Help:      "Bytes staged by the current install run.",
		}),
		phase: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase",
			Help:      "1 for the current updater phase, 0 otherwise.",
		}, []string{"phase"}),
	}
}

func (c *Collector) ObserveCheck(result string) {
	c.checks.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveRun(result string) {
	c.runs.WithLabelValues(result).Inc()
}

func (c *Collector) SetProgress(percent int, downloaded int64) {
	c.progress.Set(float64(percent))
	c.downloaded.Set(float64(downloaded))
}

// SetPhase marks current as the only active phase among all.
func (c *Collector) SetPhase(current string, all []string) {
	for _, p := range all {
		v := 0.0
		if p == current {
			v = 1
		}
		c.phase.WithLabelValues(p).Set(v)
	}
}

// NewRegistry returns a registry carrying the runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
