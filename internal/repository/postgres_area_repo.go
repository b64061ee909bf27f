package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/wellnesslog/internal/model"
)

// PostgresAreaRepo はPostgreSQLを使用したエリアリポジトリ。
type PostgresAreaRepo struct {
	db *sql.DB
}

// NewPostgresAreaRepo はPostgresAreaRepoを生成する。
func NewPostgresAreaRepo(db *sql.DB) *PostgresAreaRepo {
	return &PostgresAreaRepo{db: db}
}

// FindOwnedByID はidとuser_idの両方に一致するエリアを取得する。見つからない場合はnilを返す。
func (r *PostgresAreaRepo) FindOwnedByID(ctx context.Context, userID, id string) (*model.Area, error) {
	area := &model.Area{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, icon, sort_order, created_at, updated_at
		 FROM areas WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&area.ID, &area.UserID, &area.Name, &area.Description, &area.Icon, &area.SortOrder, &area.CreatedAt, &area.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("エリアの取得に失敗しました: %w", err)
	}

	return area, nil
}

// ListByUserID はユーザーのエリア一覧をsort_order昇順、created_at昇順で返す。
func (r *PostgresAreaRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Area, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, description, icon, sort_order, created_at, updated_at
		 FROM areas WHERE user_id = $1 ORDER BY sort_order ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("エリア一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var areas []*model.Area
	for rows.Next() {
		area := &model.Area{}
		if err := rows.Scan(&area.ID, &area.UserID, &area.Name, &area.Description, &area.Icon, &area.SortOrder, &area.CreatedAt, &area.UpdatedAt); err != nil {
			return nil, fmt.Errorf("エリア行の読み取りに失敗しました: %w", err)
		}
		areas = append(areas, area)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("エリア一覧の走査に失敗しました: %w", err)
	}
	return areas, nil
}

// Create はエリアを作成する。
func (r *PostgresAreaRepo) Create(ctx context.Context, area *model.Area) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO areas (id, user_id, name, description, icon, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		area.ID, area.UserID, area.Name, area.Description, area.Icon, area.SortOrder, area.CreatedAt, area.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("エリアの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はエリアの全フィールドを上書き更新する。
func (r *PostgresAreaRepo) Update(ctx context.Context, area *model.Area) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE areas
		 SET name = $3, description = $4, icon = $5, sort_order = $6, updated_at = $7
		 WHERE id = $1 AND user_id = $2`,
		area.ID, area.UserID, area.Name, area.Description, area.Icon, area.SortOrder, area.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("エリアの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("エリアが見つかりません: %s", area.ID)
	}
	return nil
}

// DeleteCascade はエリアと配下の目標・リフレクションを単一トランザクションで削除する。
// 途中で失敗した場合は全てロールバックされ、孤児レコードを残さない。
func (r *PostgresAreaRepo) DeleteCascade(ctx context.Context, userID, id string) (int, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	// 1. エリアを直接参照するリフレクションと、配下目標を参照するリフレクションを削除
	reflResult, err := tx.ExecContext(ctx,
		`DELETE FROM reflections
		 WHERE user_id = $1
		   AND (area_id = $2
		        OR goal_id IN (SELECT id FROM goals WHERE user_id = $1 AND area_id = $2))`,
		userID, id,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("リフレクションのカスケード削除に失敗しました: %w", err)
	}
	reflDeleted, err := reflResult.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}

	// 2. エリア配下の目標を削除
	goalResult, err := tx.ExecContext(ctx,
		`DELETE FROM goals WHERE user_id = $1 AND area_id = $2`,
		userID, id,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("目標のカスケード削除に失敗しました: %w", err)
	}
	goalsDeleted, err := goalResult.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}

	// 3. エリア本体を削除
	areaResult, err := tx.ExecContext(ctx,
		`DELETE FROM areas WHERE id = $2 AND user_id = $1`,
		userID, id,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("エリアの削除に失敗しました: %w", err)
	}
	rowsAffected, err := areaResult.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return 0, 0, fmt.Errorf("エリアが見つかりません: %s", id)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return int(goalsDeleted), int(reflDeleted), nil
}

// DeleteByUserID はユーザーの全エリアを削除する。
func (r *PostgresAreaRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM areas WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの全エリアの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AreaRepository = (*PostgresAreaRepo)(nil)
