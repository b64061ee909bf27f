// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/wellnesslog/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するsessionsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
// セッションの作成は外部のアイデンティティサービスが行うため、検証と削除のみを提供する。
type SessionRepository interface {
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// AreaRepository はエリアデータの永続化インターフェース。
type AreaRepository interface {
	// FindOwnedByID はidとuser_idの両方に一致するエリアを取得する。
	// 存在しない場合も他ユーザー所有の場合もnilを返す。
	FindOwnedByID(ctx context.Context, userID, id string) (*model.Area, error)

	// ListByUserID はユーザーのエリア一覧をsort_order昇順、created_at昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Area, error)

	// Create はエリアを作成する。
	Create(ctx context.Context, area *model.Area) error

	// Update はエリアの全フィールドを上書き更新する。
	// 部分更新のマージはサービス層が行う。
	Update(ctx context.Context, area *model.Area) error

	// DeleteCascade はエリアと配下の目標・リフレクションを単一トランザクションで削除する。
	// 削除順序: リフレクション（area_id直接参照 + 配下目標経由） → 目標 → エリア。
	// 削除した目標数とリフレクション数を返す。
	DeleteCascade(ctx context.Context, userID, id string) (goalsDeleted, reflectionsDeleted int, err error)

	// DeleteByUserID はユーザーの全エリアを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// GoalRepository は目標データの永続化インターフェース。
type GoalRepository interface {
	// FindOwnedByID はidとuser_idの両方に一致する目標を取得する。
	// 存在しない場合も他ユーザー所有の場合もnilを返す。
	FindOwnedByID(ctx context.Context, userID, id string) (*model.Goal, error)

	// ListByUserID はユーザーの全目標をcreated_at昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Goal, error)

	// ListByUserAndArea は指定エリア配下の目標をcreated_at昇順で返す。
	ListByUserAndArea(ctx context.Context, userID, areaID string) ([]*model.Goal, error)

	// Create は目標を作成する。
	Create(ctx context.Context, goal *model.Goal) error

	// Update は目標の全フィールドを上書き更新する。
	Update(ctx context.Context, goal *model.Goal) error

	// DeleteCascade は目標と、それを参照するリフレクションを単一トランザクションで削除する。
	// 削除したリフレクション数を返す。
	DeleteCascade(ctx context.Context, userID, id string) (reflectionsDeleted int, err error)

	// DeleteByUserID はユーザーの全目標を削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ReflectionFilter はリフレクション一覧の絞り込み条件を表す。
// nilフィールドは条件に含めない。
type ReflectionFilter struct {
	AreaID *string
	GoalID *string
}

// ReflectionRepository はリフレクションデータの永続化インターフェース。
type ReflectionRepository interface {
	// FindOwnedByID はidとuser_idの両方に一致するリフレクションを取得する。
	// 存在しない場合も他ユーザー所有の場合もnilを返す。
	FindOwnedByID(ctx context.Context, userID, id string) (*model.Reflection, error)

	// List はユーザーのリフレクションをフィルタとoffsetページネーション付きで返す。
	// 並び順はentry_date降順、id降順で安定している。
	// 2番目の戻り値はフィルタ適用後の総件数。
	List(ctx context.Context, userID string, filter ReflectionFilter, limit, offset int) ([]*model.Reflection, int, error)

	// Create はリフレクションを作成する。
	Create(ctx context.Context, reflection *model.Reflection) error

	// Delete はidとuser_idの両方に一致するリフレクションを削除する。
	// 一致する行がない場合はエラーを返す。
	Delete(ctx context.Context, userID, id string) error

	// DeleteByUserID はユーザーの全リフレクションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}
