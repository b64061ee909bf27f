// Package model はドメインモデルを定義する。
package model

import "time"

// Reflection は日付付きの振り返り記録を表す。
// エリアまたは目標のいずれか（あるいは両方）に紐付けられる。
// 両方を指定する場合、目標自身のAreaIDが設定されていれば一致しなければならない。
type Reflection struct {
	ID          string
	UserID      string
	AreaID      *string
	GoalID      *string
	EntryDate   time.Time
	Mood        string
	EnergyLevel *int
	Notes       string
	CreatedAt   time.Time
}

const (
	// EnergyLevelMin はエナジーレベルの下限。
	EnergyLevelMin = 1
	// EnergyLevelMax はエナジーレベルの上限。
	EnergyLevelMax = 10
)
