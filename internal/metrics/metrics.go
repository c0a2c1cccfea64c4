package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QueueSize 当前等待队列总人数
	QueueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "peermatch_queue_size",
		Help: "Current number of users waiting across all pools",
	})

	// RequestsTotal 匹配请求计数，outcome = matched / queued / already_queued / no_question / provider_error
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "peermatch_requests_total",
		Help: "Total matching requests by outcome",
	}, []string{"outcome"})

	// WaitDuration 从入队到被匹配的等待时间
	WaitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "peermatch_wait_duration_seconds",
		Help:    "Time a partner spent queued before being matched",
		Buckets: []float64{.5, 1, 2, 5, 10, 15, 20},
	})

	// ExpiredTotal 因超时被惰性清理的队列条目数
	ExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "peermatch_expired_total",
		Help: "Queue entries dropped by TTL expiry",
	})
)

func init() {
	prometheus.MustRegister(QueueSize, RequestsTotal, WaitDuration, ExpiredTotal)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
