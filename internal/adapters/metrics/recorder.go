// Package metrics records pipeline and live-reload measurements.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/press/internal/core/domain"
)

const namespace = "press"

// PrometheusRecorder implements ports.Metrics on a private registry.
type PrometheusRecorder struct {
	registry     *prom.Registry
	taskDuration *prom.HistogramVec
	taskResults  *prom.CounterVec
	reloads      *prom.CounterVec
	notifies     prom.Counter
	clients      prom.Gauge
}

// NewPrometheusRecorder registers the press metrics on reg, or on a new registry
// when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		registry: reg,
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of pipeline tasks",
			Buckets:   prom.DefBuckets,
		}, []string{"task"}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_results_total",
			Help:      "Pipeline task outcomes by final status",
		}, []string{"task", "status"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Messages pushed to browsers by kind",
		}, []string{"kind"}),
		notifies: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification banners pushed to browsers",
		}),
		clients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live-reload clients",
		}),
	}

	reg.MustRegister(pr.taskDuration, pr.taskResults, pr.reloads, pr.notifies, pr.clients)
	return pr
}

// ObserveTask records the duration and final status of a task run.
func (p *PrometheusRecorder) ObserveTask(name string, d time.Duration, status domain.TaskStatus) {
	p.taskDuration.WithLabelValues(name).Observe(d.Seconds())
	p.taskResults.WithLabelValues(name, string(status)).Inc()
}

// IncReload counts a reload or inject message.
func (p *PrometheusRecorder) IncReload(kind string) {
	p.reloads.WithLabelValues(kind).Inc()
}

// IncNotify counts a notification.
func (p *PrometheusRecorder) IncNotify() {
	p.notifies.Inc()
}

// SetClients sets the number of connected clients.
func (p *PrometheusRecorder) SetClients(n int) {
	p.clients.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the registry the recorder reports to.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}
