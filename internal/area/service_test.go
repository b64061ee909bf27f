package area

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/wellnesslog/internal/model"
	"github.com/hitoshi/wellnesslog/internal/ownership"
	"github.com/hitoshi/wellnesslog/internal/security"
)

// --- モック ---

type mockAreaRepo struct {
	findOwnedByIDFn  func(ctx context.Context, userID, id string) (*model.Area, error)
	listByUserIDFn   func(ctx context.Context, userID string) ([]*model.Area, error)
	createFn         func(ctx context.Context, area *model.Area) error
	updateFn         func(ctx context.Context, area *model.Area) error
	deleteCascadeFn  func(ctx context.Context, userID, id string) (int, int, error)
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockAreaRepo) FindOwnedByID(ctx context.Context, userID, id string) (*model.Area, error) {
	if m.findOwnedByIDFn != nil {
		return m.findOwnedByIDFn(ctx, userID, id)
	}
	return nil, nil
}
func (m *mockAreaRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Area, error) {
	return m.listByUserIDFn(ctx, userID)
}
func (m *mockAreaRepo) Create(ctx context.Context, area *model.Area) error {
	return m.createFn(ctx, area)
}
func (m *mockAreaRepo) Update(ctx context.Context, area *model.Area) error {
	return m.updateFn(ctx, area)
}
func (m *mockAreaRepo) DeleteCascade(ctx context.Context, userID, id string) (int, int, error) {
	return m.deleteCascadeFn(ctx, userID, id)
}
func (m *mockAreaRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFn(ctx, userID)
}

type mockCollector struct {
	recordsCreated map[string]int
	cascadeDeleted map[string]int
}

func newMockCollector() *mockCollector {
	return &mockCollector{
		recordsCreated: make(map[string]int),
		cascadeDeleted: make(map[string]int),
	}
}

func (m *mockCollector) RecordRecordCreated(entity string) { m.recordsCreated[entity]++ }
func (m *mockCollector) RecordCascadeDeletedRows(entity string, count int) {
	m.cascadeDeleted[entity] += count
}
func (m *mockCollector) RecordHTTPStatus(statusCode int)              {}
func (m *mockCollector) RecordRequestLatency(duration time.Duration)  {}
func (m *mockCollector) RecordJanitorSweep(kind string, count int)    {}

func newTestService(repo *mockAreaRepo, collector *mockCollector) *Service {
	guard := ownership.NewGuard(repo, nil, nil)
	if collector == nil {
		return NewService(repo, guard, security.NewTextSanitizer(), nil)
	}
	return NewService(repo, guard, security.NewTextSanitizer(), collector)
}

// --- テスト ---

// TestService_ListAreas は一覧がそのまま返ることを検証する。
func TestService_ListAreas(t *testing.T) {
	repo := &mockAreaRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Area, error) {
			return []*model.Area{
				{ID: "area-1", UserID: userID, Name: "Health", SortOrder: 0},
				{ID: "area-2", UserID: userID, Name: "Finance", SortOrder: 1},
			}, nil
		},
	}
	svc := newTestService(repo, nil)

	areas, err := svc.ListAreas(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListAreas returned error: %v", err)
	}
	if len(areas) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(areas))
	}
	if areas[0].Name != "Health" || areas[1].Name != "Finance" {
		t.Errorf("unexpected list order: %v, %v", areas[0].Name, areas[1].Name)
	}
}

// TestService_CreateArea はID・タイムスタンプの採番とカウンタ記録を検証する。
func TestService_CreateArea(t *testing.T) {
	var saved *model.Area
	repo := &mockAreaRepo{
		createFn: func(ctx context.Context, area *model.Area) error {
			saved = area
			return nil
		},
	}
	collector := newMockCollector()
	svc := newTestService(repo, collector)

	created, err := svc.CreateArea(context.Background(), "user-1", CreateInput{
		Name:        "Health",
		Description: "Physical and mental health",
		Icon:        "heart",
		SortOrder:   3,
	})
	if err != nil {
		t.Fatalf("CreateArea returned error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if created.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", created.UserID, "user-1")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Error("expected created_at and updated_at to be identical on create")
	}
	if created.SortOrder != 3 {
		t.Errorf("SortOrder = %d, want 3", created.SortOrder)
	}
	if collector.recordsCreated["area"] != 1 {
		t.Errorf("records_created[area] = %d, want 1", collector.recordsCreated["area"])
	}
}

// TestService_CreateArea_EmptyName は空のエリア名がNAME_REQUIREDになることを検証する。
func TestService_CreateArea_EmptyName(t *testing.T) {
	repo := &mockAreaRepo{
		createFn: func(ctx context.Context, area *model.Area) error {
			t.Error("repo.Create must not be called for invalid input")
			return nil
		},
	}
	svc := newTestService(repo, nil)

	for _, name := range []string{"", "   ", "<script>alert(1)</script>"} {
		_, err := svc.CreateArea(context.Background(), "user-1", CreateInput{Name: name})
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("name=%q: expected APIError, got %T: %v", name, err, err)
		}
		if apiErr.Code != model.ErrCodeNameRequired {
			t.Errorf("name=%q: error code = %q, want %q", name, apiErr.Code, model.ErrCodeNameRequired)
		}
	}
}

// TestService_CreateArea_SanitizesInput はHTMLタグが除去されて保存されることを検証する。
func TestService_CreateArea_SanitizesInput(t *testing.T) {
	repo := &mockAreaRepo{
		createFn: func(ctx context.Context, area *model.Area) error { return nil },
	}
	svc := newTestService(repo, nil)

	created, err := svc.CreateArea(context.Background(), "user-1", CreateInput{
		Name:        "<b>Health</b>",
		Description: "stay <script>alert(1)</script>fit",
	})
	if err != nil {
		t.Fatalf("CreateArea returned error: %v", err)
	}
	if created.Name != "Health" {
		t.Errorf("Name = %q, want %q", created.Name, "Health")
	}
	if created.Description != "stay fit" {
		t.Errorf("Description = %q, want %q", created.Description, "stay fit")
	}
}

// TestService_UpdateArea_PartialUpdate はnilフィールドが変更されないことを検証する。
func TestService_UpdateArea_PartialUpdate(t *testing.T) {
	existing := &model.Area{
		ID:          "area-1",
		UserID:      "user-1",
		Name:        "Health",
		Description: "old description",
		Icon:        "heart",
		SortOrder:   2,
		CreatedAt:   time.Now().Add(-24 * time.Hour),
		UpdatedAt:   time.Now().Add(-24 * time.Hour),
	}
	var saved *model.Area
	repo := &mockAreaRepo{
		findOwnedByIDFn: func(ctx context.Context, userID, id string) (*model.Area, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, area *model.Area) error {
			saved = area
			return nil
		},
	}
	svc := newTestService(repo, nil)

	newName := "Fitness"
	updated, err := svc.UpdateArea(context.Background(), "user-1", "area-1", model.AreaUpdate{
		Name: &newName,
	})
	if err != nil {
		t.Fatalf("UpdateArea returned error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected repo.Update to be called")
	}
	if updated.Name != "Fitness" {
		t.Errorf("Name = %q, want %q", updated.Name, "Fitness")
	}
	// 未指定フィールドは維持される
	if updated.Description != "old description" {
		t.Errorf("Description = %q, want unchanged", updated.Description)
	}
	if updated.Icon != "heart" {
		t.Errorf("Icon = %q, want unchanged", updated.Icon)
	}
	if updated.SortOrder != 2 {
		t.Errorf("SortOrder = %d, want unchanged", updated.SortOrder)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("expected updated_at to be refreshed")
	}
}

// TestService_UpdateArea_EmptyName は空文字列への名前変更が拒否されることを検証する。
func TestService_UpdateArea_EmptyName(t *testing.T) {
	repo := &mockAreaRepo{
		findOwnedByIDFn: func(ctx context.Context, userID, id string) (*model.Area, error) {
			return &model.Area{ID: id, UserID: userID, Name: "Health"}, nil
		},
		updateFn: func(ctx context.Context, area *model.Area) error {
			t.Error("repo.Update must not be called for invalid input")
			return nil
		},
	}
	svc := newTestService(repo, nil)

	empty := "  "
	_, err := svc.UpdateArea(context.Background(), "user-1", "area-1", model.AreaUpdate{Name: &empty})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeNameRequired {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeNameRequired)
	}
}

// TestService_UpdateArea_NotOwned は他ユーザーのエリア更新がAREA_NOT_FOUNDになることを検証する。
func TestService_UpdateArea_NotOwned(t *testing.T) {
	repo := &mockAreaRepo{
		findOwnedByIDFn: func(ctx context.Context, userID, id string) (*model.Area, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo, nil)

	name := "Hijack"
	_, err := svc.UpdateArea(context.Background(), "user-1", "foreign-area", model.AreaUpdate{Name: &name})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeAreaNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeAreaNotFound)
	}
}

// TestService_DeleteArea はカスケード削除の件数がメトリクスに記録されることを検証する。
func TestService_DeleteArea(t *testing.T) {
	repo := &mockAreaRepo{
		findOwnedByIDFn: func(ctx context.Context, userID, id string) (*model.Area, error) {
			return &model.Area{ID: id, UserID: userID, Name: "Health"}, nil
		},
		deleteCascadeFn: func(ctx context.Context, userID, id string) (int, int, error) {
			return 2, 7, nil
		},
	}
	collector := newMockCollector()
	svc := newTestService(repo, collector)

	if err := svc.DeleteArea(context.Background(), "user-1", "area-1"); err != nil {
		t.Fatalf("DeleteArea returned error: %v", err)
	}

	if collector.cascadeDeleted["goal"] != 2 {
		t.Errorf("cascade_deleted[goal] = %d, want 2", collector.cascadeDeleted["goal"])
	}
	if collector.cascadeDeleted["reflection"] != 7 {
		t.Errorf("cascade_deleted[reflection] = %d, want 7", collector.cascadeDeleted["reflection"])
	}
}

// TestService_DeleteArea_NotOwned は他ユーザーのエリア削除がAREA_NOT_FOUNDになり、
// カスケード削除が実行されないことを検証する。
func TestService_DeleteArea_NotOwned(t *testing.T) {
	repo := &mockAreaRepo{
		findOwnedByIDFn: func(ctx context.Context, userID, id string) (*model.Area, error) {
			return nil, nil
		},
		deleteCascadeFn: func(ctx context.Context, userID, id string) (int, int, error) {
			t.Error("DeleteCascade must not be called when ownership check fails")
			return 0, 0, nil
		},
	}
	svc := newTestService(repo, nil)

	err := svc.DeleteArea(context.Background(), "user-1", "foreign-area")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeAreaNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeAreaNotFound)
	}
}
