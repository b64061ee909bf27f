// Package area はエリア管理のドメインロジックを提供する。
package area

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

// CreateInput はエリア作成の入力を表す。
type CreateInput struct {
	Name        string
	Description string
	Icon        string
	SortOrder   int
}

// Service はエリア管理のサービス層。
// 一覧取得、作成、部分更新、カスケード削除のビジネスロジックを提供する。
type Service struct {
	areaRepo  repository.AreaRepository
	guard     *ownership.Guard
	sanitizer security.TextSanitizerService
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorはnilを許容する（テスト用）。
func NewService(
	areaRepo repository.AreaRepository,
	guard *ownership.Guard,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		areaRepo:  areaRepo,
		guard:     guard,
		sanitizer: sanitizer,
		collector: collector,
	}
}

// ListAreas はユーザーのエリア一覧を返す。
// 並び順はsort_order昇順、created_at昇順。
func (s *Service) ListAreas(ctx context.Context, userID string) ([]*model.Area, error) {
	areas, err := s.areaRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("エリア一覧の取得に失敗しました: %w", err)
	}
	return areas, nil
}

// CreateArea はエリアを作成する。
// nameは必須。created_atとupdated_atには同一の現在時刻を設定する。
func (s *Service) CreateArea(ctx context.Context, userID string, input CreateInput) (*model.Area, error) {
	name := s.sanitize(input.Name)
	if strings.TrimSpace(name) == "" {
		return nil, model.NewNameRequiredError()
	}

	now := time.Now()
	area := &model.Area{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: s.sanitize(input.Description),
		Icon:        s.sanitize(input.Icon),
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.areaRepo.Create(ctx, area); err != nil {
		return nil, fmt.Errorf("エリアの作成に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordRecordCreated("area")
	}

	return area, nil
}

// UpdateArea はエリアを部分更新する。
// updateのnilフィールドは変更しない。updated_atは常に現在時刻に更新される。
func (s *Service) UpdateArea(ctx context.Context, userID, areaID string, update model.AreaUpdate) (*model.Area, error) {
	area, err := s.guard.Area(ctx, userID, areaID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := s.sanitize(*update.Name)
		if strings.TrimSpace(name) == "" {
			return nil, model.NewNameRequiredError()
		}
		area.Name = name
	}
	if update.Description != nil {
		area.Description = s.sanitize(*update.Description)
	}
	if update.Icon != nil {
		area.Icon = s.sanitize(*update.Icon)
	}
	if update.SortOrder != nil {
		area.SortOrder = *update.SortOrder
	}
	area.UpdatedAt = time.Now()

	if err := s.areaRepo.Update(ctx, area); err != nil {
		return nil, fmt.Errorf("エリアの更新に失敗しました: %w", err)
	}

	return area, nil
}

// DeleteArea はエリアを削除する。
// 配下の目標と、エリアまたはその目標を参照するリフレクションも
// 単一トランザクションで一括削除される。
func (s *Service) DeleteArea(ctx context.Context, userID, areaID string) error {
	if _, err := s.guard.Area(ctx, userID, areaID); err != nil {
		return err
	}

	goalsDeleted, reflectionsDeleted, err := s.areaRepo.DeleteCascade(ctx, userID, areaID)
	if err != nil {
		return fmt.Errorf("エリアのカスケード削除に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordCascadeDeletedRows("goal", goalsDeleted)
		s.collector.RecordCascadeDeletedRows("reflection", reflectionsDeleted)
	}

	slog.Info("エリアをカスケード削除しました",
		slog.String("area_id", areaID),
		slog.Int("goals_deleted", goalsDeleted),
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
