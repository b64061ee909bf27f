// Package model はドメインモデルを定義する。
package model

import "time"

// Area はユーザーが定義する生活領域（例: 健康、家計）を表す。
// ゴールとリフレクションの分類軸となる。
type Area struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Icon        string
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AreaUpdate はエリアの部分更新入力を表す。
// nilフィールドは変更しない。
type AreaUpdate struct {
	Name        *string
	Description *string
	Icon        *string
	SortOrder   *int
}
