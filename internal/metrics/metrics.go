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
// ミドルウェア、サービス層、ジャニターワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordRecordCreated(entity string)
	RecordCascadeDeletedRows(entity string, count int)
	RecordJanitorSweep(kind string, count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	recordsCreated *prometheus.CounterVec
	cascadeDeleted *prometheus.CounterVec
	janitorSwept   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellnesslog_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellnesslog_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellnesslog_records_created_total",
			Help: "作成されたウェルネスレコードのエンティティ別合計数",
		}, []string{"entity"}),
		cascadeDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellnesslog_cascade_deleted_rows_total",
			Help: "カスケード削除で消えた行のエンティティ別合計数",
		}, []string{"entity"}),
		janitorSwept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wellnesslog_janitor_swept_rows_total",
			Help: "ジャニターワーカーが掃除した行の種別ごとの合計数",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.recordsCreated,
		c.cascadeDeleted,
		c.janitorSwept,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordRecordCreated はレコード作成を記録する。entityはarea/goal/reflectionのいずれか。
func (c *Collector) RecordRecordCreated(entity string) {
	c.recordsCreated.WithLabelValues(entity).Inc()
}

// RecordCascadeDeletedRows はカスケード削除された行数を記録する。
func (c *Collector) RecordCascadeDeletedRows(entity string, count int) {
	if count <= 0 {
		return
	}
	c.cascadeDeleted.WithLabelValues(entity).Add(float64(count))
}

// RecordJanitorSweep はジャニターの掃除行数を記録する。
func (c *Collector) RecordJanitorSweep(kind string, count int) {
	if count <= 0 {
		return
	}
	c.janitorSwept.WithLabelValues(kind).Add(float64(count))
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
