// Package reflection はリフレクション（振り返り記録）管理のドメインロジックを提供する。
package reflection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/wellnesslog/internal/metrics"
	"github.com/hitoshi/wellnesslog/internal/model"
	"github.com/hitoshi/wellnesslog/internal/ownership"
	"github.com/hitoshi/wellnesslog/internal/repository"
	"github.com/hitoshi/wellnesslog/internal/security"
)

const (
	// DefaultPage はページ番号のデフォルト値。
	DefaultPage = 1
	// DefaultPageSize は1ページあたりの件数のデフォルト値。
	DefaultPageSize = 20
	// MaxPageSize は1ページあたりの件数の上限。
	MaxPageSize = 100
)

// ListInput はリフレクション一覧取得の入力を表す。
// PageとPageSizeが0の場合はデフォルト値を適用する。
type ListInput struct {
	AreaID   *string
	GoalID   *string
	Page     int
	PageSize int
}

// ListResult はリフレクション一覧とページネーション情報を表す。
type ListResult struct {
	Items    []*model.Reflection
	Total    int
	Page     int
	PageSize int
}

// CreateInput はリフレクション作成の入力を表す。
// EntryDateがnilの場合は現在時刻を適用する。
type CreateInput struct {
	AreaID      *string
	GoalID      *string
	EntryDate   *time.Time
	Mood        string
	EnergyLevel *int
	Notes       string
}

// Service はリフレクション管理のサービス層。
type Service struct {
	reflRepo  repository.ReflectionRepository
	guard     *ownership.Guard
	sanitizer security.TextSanitizerService
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorはnilを許容する（テスト用）。
func NewService(
	reflRepo repository.ReflectionRepository,
	guard *ownership.Guard,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		reflRepo:  reflRepo,
		guard:     guard,
		sanitizer: sanitizer,
		collector: collector,
	}
}

// validateAreaGoal はarea_id/goal_idの所有権と整合性を検証する。
// 両方が指定され、かつ目標自身のarea_idが設定されている場合、
// それが指定されたarea_idと一致しなければGOAL_AREA_MISMATCHを返す。
func (s *Service) validateAreaGoal(ctx context.Context, userID string, areaID, goalID *string) error {
	if areaID != nil {
		if _, err := s.guard.Area(ctx, userID, *areaID); err != nil {
			return err
		}
	}
	if goalID != nil {
		goal, err := s.guard.Goal(ctx, userID, *goalID)
		if err != nil {
			return err
		}
		if areaID != nil && goal.AreaID != nil && *goal.AreaID != *areaID {
			return model.NewGoalAreaMismatchError()
		}
	}
	return nil
}

// ListReflections はユーザーのリフレクション一覧をページネーション付きで返す。
// 並び順はentry_date降順、id降順で安定している。
func (s *Service) ListReflections(ctx context.Context, userID string, input ListInput) (*ListResult, error) {
	page := input.Page
	if page == 0 {
		page = DefaultPage
	}
	if page < 1 {
		return nil, model.NewInvalidPaginationError(fmt.Sprintf("page=%d", page))
	}

	pageSize := input.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, model.NewInvalidPaginationError(fmt.Sprintf("page_size=%d", pageSize))
	}

	if err := s.validateAreaGoal(ctx, userID, input.AreaID, input.GoalID); err != nil {
		return nil, err
	}

	filter := repository.ReflectionFilter{
		AreaID: input.AreaID,
		GoalID: input.GoalID,
	}
	offset := (page - 1) * pageSize

	items, total, err := s.reflRepo.List(ctx, userID, filter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("リフレクション一覧の取得に失敗しました: %w", err)
	}

	return &ListResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// CreateReflection はリフレクションを作成する。
// entry_dateが未指定の場合は現在時刻を設定する。
// area_id/goal_idの所有権と整合性は作成前に検証される。
func (s *Service) CreateReflection(ctx context.Context, userID string, input CreateInput) (*model.Reflection, error) {
	if input.EnergyLevel != nil {
		if *input.EnergyLevel < model.EnergyLevelMin || *input.EnergyLevel > model.EnergyLevelMax {
			return nil, model.NewInvalidEnergyLevelError(*input.EnergyLevel)
		}
	}

	if err := s.validateAreaGoal(ctx, userID, input.AreaID, input.GoalID); err != nil {
		return nil, err
	}

	now := time.Now()
	entryDate := now
	if input.EntryDate != nil {
		entryDate = *input.EntryDate
	}

	refl := &model.Reflection{
		ID:          uuid.New().String(),
		UserID:      userID,
		AreaID:      input.AreaID,
		GoalID:      input.GoalID,
		EntryDate:   entryDate,
		Mood:        s.sanitize(input.Mood),
		EnergyLevel: input.EnergyLevel,
		Notes:       s.sanitize(input.Notes),
		CreatedAt:   now,
	}

	if err := s.reflRepo.Create(ctx, refl); err != nil {
		return nil, fmt.Errorf("リフレクションの作成に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordRecordCreated("reflection")
	}

	return refl, nil
}

// DeleteReflection はリフレクションを削除する。
func (s *Service) DeleteReflection(ctx context.Context, userID, reflectionID string) error {
	if _, err := s.guard.Reflection(ctx, userID, reflectionID); err != nil {
		return err
	}

	if err := s.reflRepo.Delete(ctx, userID, reflectionID); err != nil {
		return fmt.Errorf("リフレクションの削除に失敗しました: %w", err)
	}

	return nil
}

// sanitize は自由記述テキストをサニタイズする。sanitizer未設定の場合はそのまま返す。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.Sanitize(raw)
}
