package middleware

import (
	"net/http"
	"time"

	"github.com/hitoshi/wellnesslog/internal/metrics"
)

// NewMetricsMiddleware はHTTPステータスコードとレイテンシをPrometheusに記録する
// ミドルウェアを返す。ステータスコードの捕捉にはloggingミドルウェアと同じ
// statusRecorderを使用する。
func NewMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPStatus(rec.statusCode)
			collector.RecordRequestLatency(time.Since(start))
		})
	}
}
