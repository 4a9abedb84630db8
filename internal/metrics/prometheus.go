package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lostfound"

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// PrometheusRecorder exports metrics on its own registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	itemEvents      *prometheus.CounterVec
	securityAnswers *prometheus.CounterVec
	signDuration    prometheus.Histogram
	orphanedBlobs   *prometheus.CounterVec
	orphansSwept    *prometheus.CounterVec
	orphanQueue     prometheus.Gauge
	requestTotal    *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	rateLimitHits   *prometheus.CounterVec
}

// NewPrometheus creates a PrometheusRecorder with Go runtime and process collectors registered.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		itemEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_events_total",
			Help:      "Lost item lifecycle events",
		}, []string{"event"}),
		securityAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "security_answers_total",
			Help:      "Security question answer attempts by outcome",
		}, []string{"outcome"}),
		signDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "blob",
			Name:      "sign_duration_seconds",
			Help:      "Latency of signed read URL generation",
			Buckets:   histogramBuckets,
		}),
		orphanedBlobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blob",
			Name:      "orphaned_total",
			Help:      "Blobs left behind by failed cleanup",
		}, []string{"reason"}),
		orphansSwept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blob",
			Name:      "orphans_swept_total",
			Help:      "Orphaned blob sweep outcomes",
		}, []string{"status"}),
		orphanQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "blob",
			Name:      "orphan_queue_depth",
			Help:      "Orphaned blob keys waiting for the sweeper",
		}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"scope"}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.itemEvents,
		p.securityAnswers,
		p.signDuration,
		p.orphanedBlobs,
		p.orphansSwept,
		p.orphanQueue,
		p.requestTotal,
		p.requestLatency,
		p.rateLimitHits,
	)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncItemCreated()     { p.itemEvents.WithLabelValues("created").Inc() }
func (p *PrometheusRecorder) IncItemUpdated()     { p.itemEvents.WithLabelValues("updated").Inc() }
func (p *PrometheusRecorder) IncItemDeleted()     { p.itemEvents.WithLabelValues("deleted").Inc() }
func (p *PrometheusRecorder) IncItemMarkedFound() { p.itemEvents.WithLabelValues("marked_found").Inc() }

func (p *PrometheusRecorder) IncSecurityAnswer(outcome string) {
	p.securityAnswers.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveSignDuration(duration time.Duration) {
	p.signDuration.Observe(duration.Seconds())
}

func (p *PrometheusRecorder) IncOrphanedBlob(reason string) {
	p.orphanedBlobs.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncOrphanSwept(status string) {
	p.orphansSwept.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) SetOrphanQueueDepth(n int64) {
	p.orphanQueue.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	p.requestTotal.With(labels).Inc()
	p.requestLatency.With(labels).Observe(duration.Seconds())
}

func (p *PrometheusRecorder) IncRateLimited(scope string) {
	p.rateLimitHits.WithLabelValues(scope).Inc()
}
