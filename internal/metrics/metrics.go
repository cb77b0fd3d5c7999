// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証サービスやミドルウェアから利用する。
type MetricsCollector interface {
	RecordSessionIssued()
	RecordSessionRevoked()
	RecordAuthFailure(reason string)
	RecordExchangeFailure()
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	sessionsIssued   prometheus.Counter
	sessionsRevoked  prometheus.Counter
	authFailures     *prometheus.CounterVec
	exchangeFailures prometheus.Counter
	httpStatus       *prometheus.CounterVec
	requestDuration  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haven_sessions_issued_total",
			Help: "発行されたセッションの合計数",
		}),
		sessionsRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haven_sessions_revoked_total",
			Help: "失効されたセッションの合計数",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haven_auth_failures_total",
			Help: "認証失敗の理由別合計数",
		}, []string{"reason"}),
		exchangeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haven_exchange_failures_total",
			Help: "外部アイデンティティ交換失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haven_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "haven_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.sessionsIssued,
		c.sessionsRevoked,
		c.authFailures,
		c.exchangeFailures,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordSessionIssued はセッション発行を記録する。
func (c *Collector) RecordSessionIssued() {
	c.sessionsIssued.Inc()
}

// RecordSessionRevoked はセッション失効を記録する。
func (c *Collector) RecordSessionRevoked() {
	c.sessionsRevoked.Inc()
}

// RecordAuthFailure は認証失敗を理由付きで記録する。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// RecordExchangeFailure は外部アイデンティティ交換失敗を記録する。
func (c *Collector) RecordExchangeFailure() {
	c.exchangeFailures.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
