package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Authorization metrics
	AuthzDecisionsTotal *prometheus.CounterVec
	AuthzDeniedTotal    *prometheus.CounterVec

	// Commitment scoring metrics
	ScoringEvaluationsTotal *prometheus.CounterVec
	ScoringFlagTotal        *prometheus.CounterVec
	FlagOverridesTotal      prometheus.Counter

	// Tenant metrics
	ScopedQueriesTotal   *prometheus.CounterVec
	TenantResolveFailures prometheus.Counter

	// Lookup cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
	DBQueryDuration     *prometheus.HistogramVec

	// Redis metrics
	RedisCommandsTotal   *prometheus.CounterVec
	RateLimitRejectTotal prometheus.Counter

	// Business metrics
	ApplicantsTotal     prometheus.Gauge
	CentersTotal        prometheus.Gauge
	APITokensActive     prometheus.Gauge
	ReportsGeneratedTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "falah_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "falah_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_authz_decisions_total",
				Help: "Total number of authorization decisions",
			},
			[]string{"role", "module", "allowed"},
		),
		AuthzDeniedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_authz_denied_total",
				Help: "Total number of denied requests by denial reason",
			},
			[]string{"role", "reason"},
		),

		ScoringEvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_scoring_evaluations_total",
				Help: "Total number of commitment score evaluations",
			},
			[]string{"category"},
		),
		ScoringFlagTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_scoring_flag_total",
				Help: "Total number of scoring evaluations by traffic light flag",
			},
			[]string{"flag"},
		),
		FlagOverridesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "falah_scoring_flag_overrides_total",
				Help: "Total number of green flags downgraded to amber by inconsistency checks",
			},
		),

		ScopedQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_tenant_scoped_queries_total",
				Help: "Total number of tenant scoped queries by scope kind",
			},
			[]string{"scope"},
		),
		TenantResolveFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "falah_tenant_resolve_failures_total",
				Help: "Total number of requests whose tenant context could not be resolved",
			},
		),

		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),

		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "falah_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "falah_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "falah_db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query"},
		),

		RedisCommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_redis_commands_total",
				Help: "Total number of Redis commands",
			},
			[]string{"command", "status"},
		),
		RateLimitRejectTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "falah_rate_limit_rejects_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		ApplicantsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "falah_applicants_total",
				Help: "Total number of applicants",
			},
		),
		CentersTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "falah_centers_total",
				Help: "Total number of centers",
			},
		),
		APITokensActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "falah_api_tokens_active",
				Help: "Number of active API tokens",
			},
		),
		ReportsGeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "falah_reports_generated_total",
				Help: "Total number of generated reports",
			},
			[]string{"report"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.AuthzDecisionsTotal,
		m.AuthzDeniedTotal,
		m.ScoringEvaluationsTotal,
		m.ScoringFlagTotal,
		m.FlagOverridesTotal,
		m.ScopedQueriesTotal,
		m.TenantResolveFailures,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
		m.DBQueryDuration,
		m.RedisCommandsTotal,
		m.RateLimitRejectTotal,
		m.ApplicantsTotal,
		m.CentersTotal,
		m.APITokensActive,
		m.ReportsGeneratedTotal,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
