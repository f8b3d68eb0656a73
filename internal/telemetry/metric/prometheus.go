package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/internal/infra/buildinfo"
)

// Namespace prefixes every metric name.
const Namespace = "relay"

// Metrics holds the relay's Prometheus collectors and the registry they are
// registered with.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     *prometheus.CounterVec

	SweepRuns     *prometheus.CounterVec
	SweepDuration prometheus.Histogram
	SweepExpired  prometheus.Counter
	SweepAcked    prometheus.Counter
	SweepRemoved  prometheus.Counter
	LastSweepTime prometheus.Gauge
}

// New creates the relay metrics and registers them, plus Go runtime and
// process collectors, with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code",
		}, []string{"route", "method", "code"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limiter, by limiter class",
		}, []string{"limiter"}),

		SweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Sweep passes by outcome",
		}, []string{"outcome"}),

		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Duration of sweep passes",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),

		SweepExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sweep",
			Name:      "expired_messages_total",
			Help:      "Messages removed by sweep because they outlived the TTL",
		}),

		SweepAcked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sweep",
			Name:      "acked_messages_total",
			Help:      "Fully acknowledged messages removed by sweep",
		}),

		SweepRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sweep",
			Name:      "removed_vaults_total",
			Help:      "Empty vaults and mailboxes removed by sweep",
		}),

		LastSweepTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "sweep",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix timestamp of the last completed sweep",
		}),
	}

	info := buildinfo.Get()
	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "build_info",
		Help:      "Build information; the value is always 1",
		ConstLabels: prometheus.Labels{
			"version":    info.Version,
			"commit":     info.Commit,
			"go_version": info.GoVersion,
		},
	})
	buildInfo.Set(1)

	m.registry.MustRegister(
		buildInfo,
		m.RequestsTotal,
		m.RequestDuration,
		m.RateLimited,
		m.SweepRuns,
		m.SweepDuration,
		m.SweepExpired,
		m.SweepAcked,
		m.SweepRemoved,
		m.LastSweepTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Register adds an extra collector, such as the store collector.
func (m *Metrics) Register(c prometheus.Collector) error {
	return m.registry.Register(c)
}

// Handler returns the HTTP handler serving the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveRateLimited records a rejection by the named limiter class.
func (m *Metrics) ObserveRateLimited(limiter string) {
	m.RateLimited.WithLabelValues(limiter).Inc()
}

// ObserveSweep records one sweep pass. It satisfies the store's sweep
// observer interface.
func (m *Metrics) ObserveSweep(result domain.SweepResult, elapsed time.Duration, err error) {
	m.SweepDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.SweepRuns.WithLabelValues("interrupted").Inc()
	} else {
		m.SweepRuns.WithLabelValues("completed").Inc()
		m.LastSweepTime.SetToCurrentTime()
	}
	m.SweepExpired.Add(float64(result.ExpiredMessages))
	m.SweepAcked.Add(float64(result.AckedMessages))
	m.SweepRemoved.Add(float64(result.RemovedVaults))
}
