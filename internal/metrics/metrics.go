package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeoLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statemap_geodata_loads_total",
		Help: "Polygon document loads by result",
	}, []string{"result"})
	GeoLoadDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "statemap_geodata_load_duration_ms",
		Help:    "Polygon document fetch+parse duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	GeoCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statemap_geodata_cache_total",
		Help: "Redis payload cache lookups by result",
	}, []string{"result"})
	RegionsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "statemap_regions_loaded",
		Help: "Number of regions registered in the index",
	})
	IndexWarningsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statemap_index_warnings_total",
		Help: "Index build warnings by kind",
	}, []string{"kind"})
	SearchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statemap_search_total",
		Help: "Search submissions by outcome (hit, miss, empty)",
	}, []string{"outcome"})
	InteractionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statemap_interactions_total",
		Help: "UI events handled by kind",
	}, []string{"kind"})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "statemap_sessions_active",
		Help: "Interaction sessions currently held in memory",
	})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statemap_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "statemap_rate_limited_total",
		Help: "Requests rejected by the token bucket",
	})
)

func init() {
	prometheus.MustRegister(GeoLoadsTotal)
	prometheus.MustRegister(GeoLoadDurationMs)
	prometheus.MustRegister(GeoCacheTotal)
	prometheus.MustRegister(RegionsLoaded)
	prometheus.MustRegister(IndexWarningsTotal)
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(InteractionsTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标，供 Prometheus 抓取；在主入口挂载到 {API_BASE}/metrics。
func Handler() http.Handler { return promhttp.Handler() }
