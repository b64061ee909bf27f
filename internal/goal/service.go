// Package goal は目標管理のドメインロジックを提供する。
package goal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/wellnesslog/internal/metrics"
	"github.com/hitoshi/wellnesslog/internal/model"
	"github.com/hitoshi/wellnesslog/internal/ownership"
	"github.com/hitoshi/wellnesslog/internal/repository"
	"github.com/hitoshi/wellnesslog/internal/security"
)

// CreateInput は目標作成の入力を表す。
// StatusとPriorityが空の場合はデフォルト値（not-started / medium）を適用する。
type CreateInput struct {
	AreaID          *string
	Title           string
	Description     string
	TargetDate      *time.Time
	Status          model.GoalStatus
	Priority        model.GoalPriority
	ProgressPercent *int
}

// Service は目標管理のサービス層。
type Service struct {
	goalRepo  repository.GoalRepository
	guard     *ownership.Guard
	sanitizer security.TextSanitizerService
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorはnilを許容する（テスト用）。
func NewService(
	goalRepo repository.GoalRepository,
	guard *ownership.Guard,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		goalRepo:  goalRepo,
		guard:     guard,
		sanitizer: sanitizer,
		collector: collector,
	}
}

// ListGoals はユーザーの目標一覧を返す。
// areaIDが指定された場合は、そのエリアの所有権を検証したうえで配下の目標に絞り込む。
func (s *Service) ListGoals(ctx context.Context, userID string, areaID *string) ([]*model.Goal, error) {
	if areaID != nil {
		if _, err := s.guard.Area(ctx, userID, *areaID); err != nil {
			return nil, err
		}
		goals, err := s.goalRepo.ListByUserAndArea(ctx, userID, *areaID)
		if err != nil {
			return nil, fmt.Errorf("エリア配下の目標一覧の取得に失敗しました: %w", err)
		}
		return goals, nil
	}

	goals, err := s.goalRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("目標一覧の取得に失敗しました: %w", err)
	}
	return goals, nil
}

// CreateGoal は目標を作成する。
// titleは必須。area_idが指定された場合は所有権を検証する。
func (s *Service) CreateGoal(ctx context.Context, userID string, input CreateInput) (*model.Goal, error) {
	title := s.sanitize(input.Title)
	if strings.TrimSpace(title) == "" {
		return nil, model.NewTitleRequiredError()
	}

	if input.AreaID != nil {
		if _, err := s.guard.Area(ctx, userID, *input.AreaID); err != nil {
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = model.GoalStatusNotStarted
	}
	if !status.IsValid() {
		return nil, model.NewInvalidStatusError(string(status))
	}

	priority := input.Priority
	if priority == "" {
		priority = model.GoalPriorityMedium
	}
	if !priority.IsValid() {
		return nil, model.NewInvalidPriorityError(string(priority))
	}

	if input.ProgressPercent != nil {
		if *input.ProgressPercent < 0 || *input.ProgressPercent > 100 {
			return nil, model.NewInvalidProgressError(*input.ProgressPercent)
		}
	}

	now := time.Now()
	goal := &model.Goal{
		ID:              uuid.New().String(),
		UserID:          userID,
		AreaID:          input.AreaID,
		Title:           title,
		Description:     s.sanitize(input.Description),
		TargetDate:      input.TargetDate,
		Status:          status,
		Priority:        priority,
		ProgressPercent: input.ProgressPercent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("目標の作成に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordRecordCreated("goal")
	}

	return goal, nil
}

// UpdateGoal は目標を部分更新する。
// updateのnilフィールドは変更しない。新しいarea_idが指定された場合は所有権を検証する。
// updated_atは常に現在時刻に更新される。
func (s *Service) UpdateGoal(ctx context.Context, userID, goalID string, update model.GoalUpdate) (*model.Goal, error) {
	goal, err := s.guard.Goal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if update.AreaID != nil {
		// nilへのクリア（エリアからの切り離し）か付け替えかを区別する
		if *update.AreaID != nil {
			if _, err := s.guard.Area(ctx, userID, **update.AreaID); err != nil {
				return nil, err
			}
		}
		goal.AreaID = *update.AreaID
	}
	if update.Title != nil {
		title := s.sanitize(*update.Title)
		if strings.TrimSpace(title) == "" {
			return nil, model.NewTitleRequiredError()
		}
		goal.Title = title
	}
	if update.Description != nil {
		goal.Description = s.sanitize(*update.Description)
	}
	if update.TargetDate != nil {
		goal.TargetDate = *update.TargetDate
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, model.NewInvalidStatusError(string(*update.Status))
		}
		goal.Status = *update.Status
	}
	if update.Priority != nil {
		if !update.Priority.IsValid() {
			return nil, model.NewInvalidPriorityError(string(*update.Priority))
		}
		goal.Priority = *update.Priority
	}
	if update.ProgressPercent != nil {
		if *update.ProgressPercent != nil {
			p := **update.ProgressPercent
			if p < 0 || p > 100 {
				return nil, model.NewInvalidProgressError(p)
			}
		}
		goal.ProgressPercent = *update.ProgressPercent
	}
	goal.UpdatedAt = time.Now()

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("目標の更新に失敗しました: %w", err)
	}

	return goal, nil
}

// DeleteGoal は目標を削除する。
// 目標を参照するリフレクションも単一トランザクションで一括削除される。
// 親エリアと兄弟目標には影響しない。
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if _, err := s.guard.Goal(ctx, userID, goalID); err != nil {
		return err
	}

	reflectionsDeleted, err := s.goalRepo.DeleteCascade(ctx, userID, goalID)
	if err != nil {
		return fmt.Errorf("目標のカスケード削除に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordCascadeDeletedRows("reflection", reflectionsDeleted)
	}

	slog.Info("目標をカスケード削除しました",
		slog.String("goal_id", goalID),
		slog.Int("reflections_deleted", reflectionsDeleted),
	)

	return nil
}

// sanitize は自由記述テキストをサニタイズする。sanitizer未設定の場合はそのまま返す。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.Sanitize(raw)
}
