package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/wellnesslog/internal/model"
)

// PostgresGoalRepo はPostgreSQLを使用した目標リポジトリ。
type PostgresGoalRepo struct {
	db *sql.DB
}

// NewPostgresGoalRepo はPostgresGoalRepoを生成する。
func NewPostgresGoalRepo(db *sql.DB) *PostgresGoalRepo {
	return &PostgresGoalRepo{db: db}
}

// goalColumns はgoalsテーブルのSELECT列リスト。
const goalColumns = `id, user_id, area_id, title, description, target_date, status, priority, progress_percent, created_at, updated_at`

// scanGoal は1行分の目標を読み取る。
func scanGoal(scan func(dest ...any) error) (*model.Goal, error) {
	goal := &model.Goal{}
	var areaID sql.NullString
	var targetDate sql.NullTime
	var progress sql.NullInt64

	if err := scan(
		&goal.ID, &goal.UserID, &areaID, &goal.Title, &goal.Description,
		&targetDate, &goal.Status, &goal.Priority, &progress,
		&goal.CreatedAt, &goal.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if areaID.Valid {
		goal.AreaID = &areaID.String
	}
	if targetDate.Valid {
		t := targetDate.Time
		goal.TargetDate = &t
	}
	if progress.Valid {
		p := int(progress.Int64)
		goal.ProgressPercent = &p
	}
	return goal, nil
}

// FindOwnedByID はidとuser_idの両方に一致する目標を取得する。見つからない場合はnilを返す。
func (r *PostgresGoalRepo) FindOwnedByID(ctx context.Context, userID, id string) (*model.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	goal, err := scanGoal(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("目標の取得に失敗しました: %w", err)
	}
	return goal, nil
}

// ListByUserID はユーザーの全目標をcreated_at昇順で返す。
func (r *PostgresGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("目標一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectGoals(rows)
}

// ListByUserAndArea は指定エリア配下の目標をcreated_at昇順で返す。
func (r *PostgresGoalRepo) ListByUserAndArea(ctx context.Context, userID, areaID string) ([]*model.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND area_id = $2 ORDER BY created_at ASC, id ASC`,
		userID, areaID,
	)
	if err != nil {
		return nil, fmt.Errorf("エリア配下の目標一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectGoals(rows)
}

// collectGoals はrowsから目標スライスを構築する。
func collectGoals(rows *sql.Rows) ([]*model.Goal, error) {
	var goals []*model.Goal
	for rows.Next() {
		goal, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("目標行の読み取りに失敗しました: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("目標一覧の走査に失敗しました: %w", err)
	}
	return goals, nil
}

// Create は目標を作成する。
func (r *PostgresGoalRepo) Create(ctx context.Context, goal *model.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, area_id, title, description, target_date, status, priority, progress_percent, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		goal.ID, goal.UserID, goal.AreaID, goal.Title, goal.Description,
		goal.TargetDate, goal.Status, goal.Priority, goal.ProgressPercent,
		goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("目標の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は目標の全フィールドを上書き更新する。
func (r *PostgresGoalRepo) Update(ctx context.Context, goal *model.Goal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE goals
		 SET area_id = $3, title = $4, description = $5, target_date = $6,
		     status = $7, priority = $8, progress_percent = $9, updated_at = $10
		 WHERE id = $1 AND user_id = $2`,
		goal.ID, goal.UserID, goal.AreaID, goal.Title, goal.Description,
		goal.TargetDate, goal.Status, goal.Priority, goal.ProgressPercent,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("目標の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("目標が見つかりません: %s", goal.ID)
	}
	return nil
}

// DeleteCascade は目標と、それを参照するリフレクションを単一トランザクションで削除する。
// 途中で失敗した場合は全てロールバックされ、孤児レコードを残さない。
func (r *PostgresGoalRepo) DeleteCascade(ctx context.Context, userID, id string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	// 1. 目標を参照するリフレクションを削除
	reflResult, err := tx.ExecContext(ctx,
		`DELETE FROM reflections WHERE user_id = $1 AND goal_id = $2`,
		userID, id,
	)
	if err != nil {
		return 0, fmt.Errorf("リフレクションのカスケード削除に失敗しました: %w", err)
	}
	reflDeleted, err := reflResult.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}

	// 2. 目標本体を削除
	goalResult, err := tx.ExecContext(ctx,
		`DELETE FROM goals WHERE id = $2 AND user_id = $1`,
		userID, id,
	)
	if err != nil {
		return 0, fmt.Errorf("目標の削除に失敗しました: %w", err)
	}
	rowsAffected, err := goalResult.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("目標が見つかりません: %s", id)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return int(reflDeleted), nil
}

// DeleteByUserID はユーザーの全目標を削除する。
func (r *PostgresGoalRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの全目標の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ GoalRepository = (*PostgresGoalRepo)(nil)
