// Package metrics records analysis outcomes and external call latencies as
// Prometheus metrics on a dedicated registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"readscore/internal/adapter/resilience"
	"readscore/internal/domain"
	"readscore/internal/port"
)

const namespace = "readscore"

// Prometheus implements port.Metrics.
type Prometheus struct {
	registry *prometheus.Registry

	analysesTotal       *prometheus.CounterVec
	analysisFailures    *prometheus.CounterVec
	readabilityIndex    *prometheus.HistogramVec
	externalCallSeconds *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestSeconds  *prometheus.HistogramVec
}

func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of analyses by outcome and language",
			},
			[]string{"outcome", "language"},
		),
		analysisFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_failures_total",
				Help:      "Total number of failed analyses by pipeline stage",
			},
			[]string{"stage"},
		),
		readabilityIndex: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "readability_index",
				Help:      "Distribution of computed readability indices",
				Buckets:   []float64{0, 25, 50, 80, 100, 120},
			},
			[]string{"language"},
		),
		externalCallSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "external_call_duration_seconds",
				Help:      "Duration of calls to external services in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "outcome"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

func (p *Prometheus) ObserveAnalysis(result *domain.Result, err error) {
	if err != nil {
		stage := "unknown"
		var se *domain.StageError
		if errors.As(err, &se) {
			stage = string(se.Stage)
		}
		p.analysisFailures.WithLabelValues(stage).Inc()
		p.analysesTotal.WithLabelValues("error", "").Inc()
		return
	}

	lang := result.Language.String()
	p.analysesTotal.WithLabelValues("ok", lang).Inc()
	p.readabilityIndex.WithLabelValues(lang).Observe(result.ReadabilityIndex)
}

func (p *Prometheus) ObserveExternalCall(service string, duration time.Duration, err error) {
	p.externalCallSeconds.WithLabelValues(service, callOutcome(err)).Observe(duration.Seconds())
}

// ObserveHTTP records one served request.
func (p *Prometheus) ObserveHTTP(method, path string, status int, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	p.httpRequestSeconds.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func callOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	default:
		return "error"
	}
}

// Noop discards everything.
type Noop struct{}

func (Noop) ObserveAnalysis(*domain.Result, error) {}

func (Noop) ObserveExternalCall(string, time.Duration, error) {}

var (
	_ port.Metrics = (*Prometheus)(nil)
	_ port.Metrics = Noop{}
)
