// Package ownership は所有権検証を一箇所に集約する。
//
// 全てのレコードは単一ユーザーの専有物であり、更新・削除・外部キーとしての
// 参照の前に、対象レコードがリクエストユーザーの所有物であることを検証する。
// 「存在しない」と「他ユーザーの所有物」は同一のNOT_FOUND系エラーとして
// 返し、レスポンスの違いからIDの存在を推測されることを防ぐ。
package ownership

import (
	"context"
	"fmt"

	"github.com/hitoshi/wellnesslog/internal/model"
)

// AreaFinder は所有エリアの検索に必要なインターフェース。
// repository.AreaRepositoryの部分集合として定義する。
type AreaFinder interface {
	FindOwnedByID(ctx context.Context, userID, id string) (*model.Area, error)
}

// GoalFinder は所有目標の検索に必要なインターフェース。
type GoalFinder interface {
	FindOwnedByID(ctx context.Context, userID, id string) (*model.Goal, error)
}

// ReflectionFinder は所有リフレクションの検索に必要なインターフェース。
type ReflectionFinder interface {
	FindOwnedByID(ctx context.Context, userID, id string) (*model.Reflection, error)
}

// Guard は3種のエンティティに対する所有権検証を提供する。
type Guard struct {
	areas       AreaFinder
	goals       GoalFinder
	reflections ReflectionFinder
}

// NewGuard はGuardを生成する。
func NewGuard(areas AreaFinder, goals GoalFinder, reflections ReflectionFinder) *Guard {
	return &Guard{
		areas:       areas,
		goals:       goals,
		reflections: reflections,
	}
}

// Area は指定エリアがユーザーの所有物であることを検証し、レコードを返す。
// 所有物でない場合はAREA_NOT_FOUNDエラーを返す。
func (g *Guard) Area(ctx context.Context, userID, areaID string) (*model.Area, error) {
	area, err := g.areas.FindOwnedByID(ctx, userID, areaID)
	if err != nil {
		return nil, fmt.Errorf("エリアの所有権検証に失敗しました: %w", err)
	}
	if area == nil {
		return nil, model.NewAreaNotFoundError(areaID)
	}
	return area, nil
}

// Goal は指定目標がユーザーの所有物であることを検証し、レコードを返す。
// 所有物でない場合はGOAL_NOT_FOUNDエラーを返す。
func (g *Guard) Goal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := g.goals.FindOwnedByID(ctx, userID, goalID)
	if err != nil {
		return nil, fmt.Errorf("目標の所有権検証に失敗しました: %w", err)
	}
	if goal == nil {
		return nil, model.NewGoalNotFoundError(goalID)
	}
	return goal, nil
}

// Reflection は指定リフレクションがユーザーの所有物であることを検証し、レコードを返す。
// 所有物でない場合はREFLECTION_NOT_FOUNDエラーを返す。
func (g *Guard) Reflection(ctx context.Context, userID, reflectionID string) (*model.Reflection, error) {
	refl, err := g.reflections.FindOwnedByID(ctx, userID, reflectionID)
	if err != nil {
		return nil, fmt.Errorf("リフレクションの所有権検証に失敗しました: %w", err)
	}
	if refl == nil {
		return nil, model.NewReflectionNotFoundError(reflectionID)
	}
	return refl, nil
}
