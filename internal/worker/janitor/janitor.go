// Package janitor は定期メンテナンスジョブを提供する。
// 期限切れセッションの削除と、親を失ったままの目標・リフレクションの掃除を
// 日次バッチで実行する。カスケード削除はアプリケーション層のトランザクションで
// 完結するため、ここでの掃除は異常系の取り残しに対する保険となる。
package janitor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/wellnesslog/internal/metrics"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Job は定期メンテナンスジョブ。
// 冪等な削除処理として設計されており、掃除対象がなくてもエラーにならない。
type Job struct {
	db        Executor
	logger    *slog.Logger
	collector metrics.MetricsCollector
}

// NewJob は新しいJobを生成する。collectorはnilを許容する。
func NewJob(db Executor, logger *slog.Logger, collector metrics.MetricsCollector) *Job {
	return &Job{
		db:        db,
		logger:    logger,
		collector: collector,
	}
}

// Run はメンテナンスジョブを1回実行する。
// 実行順序: 期限切れセッション → 孤児目標 → 孤児リフレクション。
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()

	expiredSessions, err := j.sweep(ctx, "expired_session",
		`DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return err
	}

	// area_idが既存エリアを参照していない目標
	orphanGoals, err := j.sweep(ctx, "orphan_goal",
		`DELETE FROM goals g
		 WHERE g.area_id IS NOT NULL
		   AND NOT EXISTS (SELECT 1 FROM areas a WHERE a.id = g.area_id)`)
	if err != nil {
		return err
	}

	// area_idまたはgoal_idが既存レコードを参照していないリフレクション
	orphanReflections, err := j.sweep(ctx, "orphan_reflection",
		`DELETE FROM reflections r
		 WHERE (r.area_id IS NOT NULL
		        AND NOT EXISTS (SELECT 1 FROM areas a WHERE a.id = r.area_id))
		    OR (r.goal_id IS NOT NULL
		        AND NOT EXISTS (SELECT 1 FROM goals g WHERE g.id = r.goal_id))`)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	j.logger.Info("ジャニタージョブが完了しました",
		slog.Int64("expired_sessions", expiredSessions),
		slog.Int64("orphan_goals", orphanGoals),
		slog.Int64("orphan_reflections", orphanReflections),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// sweep は1種類の掃除クエリを実行し、削除行数を記録して返す。
func (j *Job) sweep(ctx context.Context, kind, query string) (int64, error) {
	result, err := j.db.ExecContext(ctx, query)
	if err != nil {
		j.logger.Error("ジャニタージョブの実行に失敗しました",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("ジャニター掃除（%s）の実行に失敗: %w", kind, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if j.collector != nil {
		j.collector.RecordJanitorSweep(kind, int(deleted))
	}

	return deleted, nil
}
