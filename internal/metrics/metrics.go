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
// カタログクライアント、コレクションサービス、HTTPミドルウェア、ワーカーから利用する。
type MetricsCollector interface {
	RecordCatalogRequest(endpoint, outcome string, duration time.Duration)
	RecordCollectionOperation(resource, operation, outcome string)
	RecordHTTPStatus(statusCode int)
	RecordSessionsCleaned(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	catalogRequests *prometheus.CounterVec
	catalogLatency  *prometheus.HistogramVec
	collectionOps   *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	sessionsCleaned prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		catalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_catalog_requests_total",
			Help: "レシピカタログ呼び出しの結果別件数",
		}, []string{"endpoint", "outcome"}),
		catalogLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipebox_catalog_latency_seconds",
			Help:    "レシピカタログ呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		collectionOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_collection_operations_total",
			Help: "お気に入り・買い物リスト操作の結果別件数",
		}, []string{"resource", "operation", "outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_http_responses_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebox_sessions_cleaned_total",
			Help: "削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.catalogRequests,
		c.catalogLatency,
		c.collectionOps,
		c.httpStatus,
		c.sessionsCleaned,
	)

	return c
}

// RecordCatalogRequest はカタログ呼び出しの結果とレイテンシを記録する。
func (c *Collector) RecordCatalogRequest(endpoint, outcome string, duration time.Duration) {
	c.catalogRequests.WithLabelValues(endpoint, outcome).Inc()
	c.catalogLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCollectionOperation はコレクション操作の結果を記録する。
func (c *Collector) RecordCollectionOperation(resource, operation, outcome string) {
	c.collectionOps.WithLabelValues(resource, operation, outcome).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordSessionsCleaned は削除したセッション数を加算する。
func (c *Collector) RecordSessionsCleaned(count int) {
	c.sessionsCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ MetricsCollector = (*Collector)(nil)
