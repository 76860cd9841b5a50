package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proximity_runs_total",
		Help: "Total number of proximity table computations",
	})
	RunDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "proximity_run_duration_ms",
		Help:    "Proximity table computation duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	StationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proximity_stations_total",
		Help: "Total number of stations processed",
	})
	PairsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proximity_pairs_total",
		Help: "Total number of ordered station pairs in built distance matrices",
	})
	ValidationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proximity_validation_failures_total",
		Help: "Total number of station tables rejected by the loader",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proximity_cache_hits_total",
		Help: "Total redis result cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proximity_cache_misses_total",
		Help: "Total redis result cache misses",
	})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proximity_http_requests_total",
		Help: "Total API requests by route and status code",
	}, []string{"route", "code"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proximity_rate_limited_total",
		Help: "Total requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(RunDurationMs)
	prometheus.MustRegister(StationsTotal)
	prometheus.MustRegister(PairsTotal)
	prometheus.MustRegister(ValidationFailuresTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标监听器，由服务入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
