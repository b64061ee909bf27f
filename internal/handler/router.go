package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/wellnesslog/internal/metrics"
	"github.com/hitoshi/wellnesslog/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス（nilの場合は計測しない）
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// エリア
	AreaService AreaServiceInterface

	// 目標
	GoalService GoalServiceInterface

	// リフレクション
	ReflectionService ReflectionServiceInterface

	// ユーザー
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → CORSMiddleware → SecurityHeadersMiddleware →
//	LoggingMiddleware → MetricsMiddleware →
//	SessionMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// 書き込み系操作（POST / PATCH / DELETE）には書き込み専用レート制限を追加する。
// /health と /metrics はミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// panicリカバリを最上位に適用（全ルートに効く）
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))

	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}

	areaHandler := NewAreaHandler(deps.AreaService)
	goalHandler := NewGoalHandler(deps.GoalService)
	reflHandler := NewReflectionHandler(deps.ReflectionService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", newHealthHandler(deps.HealthChecker))

	// Prometheusスクレイプエンドポイント
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		writeLimit := deps.RateLimiter.WriteMiddleware()

		// エリア管理
		r.Route("/api/areas", func(r chi.Router) {
			r.Get("/", areaHandler.ListAreas)
			r.With(writeLimit).Post("/", areaHandler.CreateArea)

			r.Route("/{id}", func(r chi.Router) {
				r.With(writeLimit).Patch("/", areaHandler.UpdateArea)
				r.With(writeLimit).Delete("/", areaHandler.DeleteArea)
			})
		})

		// 目標管理
		r.Route("/api/goals", func(r chi.Router) {
			r.Get("/", goalHandler.ListGoals)
			r.With(writeLimit).Post("/", goalHandler.CreateGoal)

			r.Route("/{id}", func(r chi.Router) {
				r.With(writeLimit).Patch("/", goalHandler.UpdateGoal)
				r.With(writeLimit).Delete("/", goalHandler.DeleteGoal)
			})
		})

		// リフレクション管理
		r.Route("/api/reflections", func(r chi.Router) {
			r.Get("/", reflHandler.ListReflections)
			r.With(writeLimit).Post("/", reflHandler.CreateReflection)

			r.Route("/{id}", func(r chi.Router) {
				r.With(writeLimit).Delete("/", reflHandler.DeleteReflection)
			})
		})

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.With(writeLimit).Delete("/me", userHandler.Withdraw)
		})
	})

	return r
}

// newHealthHandler はDB接続の疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed",
					slog.String("error", err.Error()),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
