// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/wellnesslog/internal/model"
	"github.com/hitoshi/wellnesslog/internal/repository"
)

// ReflectionDeleter はリフレクションの一括削除インターフェース。
type ReflectionDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// GoalDeleter は目標の一括削除インターフェース。
type GoalDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// AreaDeleter はエリアの一括削除インターフェース。
type AreaDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// Service はユーザー管理のサービス層。
// 退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	reflDeleter ReflectionDeleter
	goalDeleter GoalDeleter
	areaDeleter AreaDeleter
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	reflDeleter ReflectionDeleter,
	goalDeleter GoalDeleter,
	areaDeleter AreaDeleter,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		reflDeleter: reflDeleter,
		goalDeleter: goalDeleter,
		areaDeleter: areaDeleter,
	}
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: reflections → goals → areas → sessions → user。
// 子から親の順で削除することで、途中で失敗しても親なし孤児を作らない。
// 取り残しが出た場合はジャニターワーカーが掃除する。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. リフレクションを削除
	if s.reflDeleter != nil {
		if err := s.reflDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("リフレクションの削除に失敗しました: %w", err)
		}
	}

	// 2. 目標を削除
	if s.goalDeleter != nil {
		if err := s.goalDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("目標の削除に失敗しました: %w", err)
		}
	}

	// 3. エリアを削除
	if s.areaDeleter != nil {
		if err := s.areaDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("エリアの削除に失敗しました: %w", err)
		}
	}

	// 4. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 5. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
