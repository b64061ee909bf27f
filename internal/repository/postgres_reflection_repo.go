package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/hitoshi/wellnesslog/internal/model"
)

// PostgresReflectionRepo はPostgreSQLを使用したリフレクションリポジトリ。
type PostgresReflectionRepo struct {
	db *sql.DB
}

// NewPostgresReflectionRepo はPostgresReflectionRepoを生成する。
func NewPostgresReflectionRepo(db *sql.DB) *PostgresReflectionRepo {
	return &PostgresReflectionRepo{db: db}
}

// reflectionColumns はreflectionsテーブルのSELECT列リスト。
const reflectionColumns = `id, user_id, area_id, goal_id, entry_date, mood, energy_level, notes, created_at`

// scanReflection は1行分のリフレクションを読み取る。
func scanReflection(scan func(dest ...any) error) (*model.Reflection, error) {
	refl := &model.Reflection{}
	var areaID, goalID sql.NullString
	var energy sql.NullInt64

	if err := scan(
		&refl.ID, &refl.UserID, &areaID, &goalID, &refl.EntryDate,
		&refl.Mood, &energy, &refl.Notes, &refl.CreatedAt,
	); err != nil {
		return nil, err
	}

	if areaID.Valid {
		refl.AreaID = &areaID.String
	}
	if goalID.Valid {
		refl.GoalID = &goalID.String
	}
	if energy.Valid {
		e := int(energy.Int64)
		refl.EnergyLevel = &e
	}
	return refl, nil
}

// FindOwnedByID はidとuser_idの両方に一致するリフレクションを取得する。見つからない場合はnilを返す。
func (r *PostgresReflectionRepo) FindOwnedByID(ctx context.Context, userID, id string) (*model.Reflection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reflectionColumns+` FROM reflections WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	refl, err := scanReflection(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("リフレクションの取得に失敗しました: %w", err)
	}
	return refl, nil
}

// buildFilterClause はフィルタ条件からWHERE句の追加条件とバインド引数を構築する。
// 引数番号はuser_idの$1から連番で続く。
func buildFilterClause(filter ReflectionFilter, args []any) (string, []any) {
	var conds []string
	if filter.AreaID != nil {
		args = append(args, *filter.AreaID)
		conds = append(conds, " AND area_id = $"+strconv.Itoa(len(args)))
	}
	if filter.GoalID != nil {
		args = append(args, *filter.GoalID)
		conds = append(conds, " AND goal_id = $"+strconv.Itoa(len(args)))
	}
	return strings.Join(conds, ""), args
}

// List はユーザーのリフレクションをフィルタとoffsetページネーション付きで返す。
// 並び順はentry_date降順、id降順で安定している。2番目の戻り値はフィルタ適用後の総件数。
func (r *PostgresReflectionRepo) List(ctx context.Context, userID string, filter ReflectionFilter, limit, offset int) ([]*model.Reflection, int, error) {
	// 総件数の取得
	countArgs := []any{userID}
	countClause, countArgs := buildFilterClause(filter, countArgs)

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reflections WHERE user_id = $1`+countClause,
		countArgs...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("リフレクション件数の取得に失敗しました: %w", err)
	}

	// ページ分の取得
	listArgs := []any{userID}
	listClause, listArgs := buildFilterClause(filter, listArgs)
	listArgs = append(listArgs, limit)
	limitPos := len(listArgs)
	listArgs = append(listArgs, offset)
	offsetPos := len(listArgs)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reflectionColumns+` FROM reflections WHERE user_id = $1`+listClause+
			` ORDER BY entry_date DESC, id DESC LIMIT $`+strconv.Itoa(limitPos)+` OFFSET $`+strconv.Itoa(offsetPos),
		listArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("リフレクション一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var refls []*model.Reflection
	for rows.Next() {
		refl, err := scanReflection(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("リフレクション行の読み取りに失敗しました: %w", err)
		}
		refls = append(refls, refl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("リフレクション一覧の走査に失敗しました: %w", err)
	}

	return refls, total, nil
}

// Create はリフレクションを作成する。
func (r *PostgresReflectionRepo) Create(ctx context.Context, refl *model.Reflection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reflections (id, user_id, area_id, goal_id, entry_date, mood, energy_level, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		refl.ID, refl.UserID, refl.AreaID, refl.GoalID, refl.EntryDate,
		refl.Mood, refl.EnergyLevel, refl.Notes, refl.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("リフレクションの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete はidとuser_idの両方に一致するリフレクションを削除する。
func (r *PostgresReflectionRepo) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reflections WHERE id = $2 AND user_id = $1`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("リフレクションの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("リフレクションが見つかりません: %s", id)
	}
	return nil
}

// DeleteByUserID はユーザーの全リフレクションを削除する。
func (r *PostgresReflectionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM reflections WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの全リフレクションの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ReflectionRepository = (*PostgresReflectionRepo)(nil)
