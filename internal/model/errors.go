// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, wellness, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeAreaNotFound       = "AREA_NOT_FOUND"
	ErrCodeGoalNotFound       = "GOAL_NOT_FOUND"
	ErrCodeReflectionNotFound = "REFLECTION_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeGoalAreaMismatch   = "GOAL_AREA_MISMATCH"
	ErrCodeNameRequired       = "NAME_REQUIRED"
	ErrCodeTitleRequired      = "TITLE_REQUIRED"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidPriority    = "INVALID_PRIORITY"
	ErrCodeInvalidProgress    = "INVALID_PROGRESS"
	ErrCodeInvalidEnergyLevel = "INVALID_ENERGY_LEVEL"
	ErrCodeInvalidPagination  = "INVALID_PAGINATION"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewAreaNotFoundError はエリア未検出エラーを生成する。
// 「存在しない」と「他ユーザーの所有物」を区別しないことで、IDの推測を防ぐ。
func NewAreaNotFoundError(areaID string) *APIError {
	return &APIError{
		Code:     ErrCodeAreaNotFound,
		Message:  fmt.Sprintf("指定されたエリアが見つかりません: %s", areaID),
		Category: "wellness",
		Action:   "エリアIDを確認してください。",
	}
}

// NewGoalNotFoundError は目標未検出エラーを生成する。
func NewGoalNotFoundError(goalID string) *APIError {
	return &APIError{
		Code:     ErrCodeGoalNotFound,
		Message:  fmt.Sprintf("指定された目標が見つかりません: %s", goalID),
		Category: "wellness",
		Action:   "目標IDを確認してください。",
	}
}

// NewReflectionNotFoundError はリフレクション未検出エラーを生成する。
func NewReflectionNotFoundError(reflectionID string) *APIError {
	return &APIError{
		Code:     ErrCodeReflectionNotFound,
		Message:  fmt.Sprintf("指定されたリフレクションが見つかりません: %s", reflectionID),
		Category: "wellness",
		Action:   "リフレクションIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewGoalAreaMismatchError は目標とエリアの組み合わせが矛盾する場合のエラーを生成する。
// 目標自身のエリアと指定されたエリアが一致しない場合に返される。
func NewGoalAreaMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeGoalAreaMismatch,
		Message:  "指定された目標はこのエリアに属していません。",
		Category: "validation",
		Action:   "目標とエリアの組み合わせを確認してください。",
	}
}

// NewNameRequiredError はエリア名が未入力の場合のエラーを生成する。
func NewNameRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeNameRequired,
		Message:  "エリア名は必須です。",
		Category: "validation",
		Action:   "エリア名を入力してください。",
	}
}

// NewTitleRequiredError は目標タイトルが未入力の場合のエラーを生成する。
func NewTitleRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTitleRequired,
		Message:  "目標のタイトルは必須です。",
		Category: "validation",
		Action:   "タイトルを入力してください。",
	}
}

// NewInvalidStatusError はステータス値が無効な場合のエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なステータスです: %s", status),
		Category: "validation",
		Action:   "ステータスには not-started、in-progress、completed、paused のいずれかを指定してください。",
	}
}

// NewInvalidPriorityError は優先度値が無効な場合のエラーを生成する。
func NewInvalidPriorityError(priority string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPriority,
		Message:  fmt.Sprintf("無効な優先度です: %s", priority),
		Category: "validation",
		Action:   "優先度には low、medium、high のいずれかを指定してください。",
	}
}

// NewInvalidProgressError は進捗率が範囲外の場合のエラーを生成する。
func NewInvalidProgressError(percent int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidProgress,
		Message:  fmt.Sprintf("無効な進捗率です: %d", percent),
		Category: "validation",
		Action:   "進捗率は0から100の整数で指定してください。",
	}
}

// NewInvalidEnergyLevelError はエナジーレベルが範囲外の場合のエラーを生成する。
func NewInvalidEnergyLevelError(level int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEnergyLevel,
		Message:  fmt.Sprintf("無効なエナジーレベルです: %d", level),
		Category: "validation",
		Action:   "エナジーレベルは1から10の整数で指定してください。",
	}
}

// NewInvalidPaginationError はページネーションパラメータが無効な場合のエラーを生成する。
func NewInvalidPaginationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPagination,
		Message:  fmt.Sprintf("無効なページネーションパラメータです: %s", reason),
		Category: "validation",
		Action:   "pageは1以上、page_sizeは1から100の範囲で指定してください。",
	}
}
