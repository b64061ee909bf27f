// Package model はドメインモデルを定義する。
package model

import "time"

// Goal はエリアに紐付く目標を表す。
// AreaIDはnullableで、エリアに属さない目標も許容する。
type Goal struct {
	ID              string
	UserID          string
	AreaID          *string
	Title           string
	Description     string
	TargetDate      *time.Time
	Status          GoalStatus
	Priority        GoalPriority
	ProgressPercent *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GoalStatus は目標の進行状態を表す。
// 状態遷移の制約は持たない単純なラベルであり、任意の値をいつでも設定できる。
type GoalStatus string

const (
	// GoalStatusNotStarted は未着手状態。新規作成時のデフォルト。
	GoalStatusNotStarted GoalStatus = "not-started"
	// GoalStatusInProgress は進行中状態。
	GoalStatusInProgress GoalStatus = "in-progress"
	// GoalStatusCompleted は完了状態。
	GoalStatusCompleted GoalStatus = "completed"
	// GoalStatusPaused は中断状態。
	GoalStatusPaused GoalStatus = "paused"
)

// IsValid はステータス値が定義済みのいずれかであるかを返す。
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusNotStarted, GoalStatusInProgress, GoalStatusCompleted, GoalStatusPaused:
		return true
	}
	return false
}

// GoalPriority は目標の優先度を表す。
type GoalPriority string

const (
	// GoalPriorityLow は低優先度。
	GoalPriorityLow GoalPriority = "low"
	// GoalPriorityMedium は中優先度。新規作成時のデフォルト。
	GoalPriorityMedium GoalPriority = "medium"
	// GoalPriorityHigh は高優先度。
	GoalPriorityHigh GoalPriority = "high"
)

// IsValid は優先度値が定義済みのいずれかであるかを返す。
func (p GoalPriority) IsValid() bool {
	switch p {
	case GoalPriorityLow, GoalPriorityMedium, GoalPriorityHigh:
		return true
	}
	return false
}

// GoalUpdate は目標の部分更新入力を表す。
// nilフィールドは変更しない。AreaIDはポインタのポインタで
// 「未指定」「nullへのクリア」「別エリアへの付け替え」を区別する。
type GoalUpdate struct {
	AreaID          **string
	Title           *string
	Description     *string
	TargetDate      **time.Time
	Status          *GoalStatus
	Priority        *GoalPriority
	ProgressPercent **int
}
