package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/wellnesslog/internal/goal"
	"github.com/hitoshi/wellnesslog/internal/middleware"
	"github.com/hitoshi/wellnesslog/internal/model"
)

// GoalServiceInterface は目標ハンドラーが必要とするサービスインターフェース。
type GoalServiceInterface interface {
	// ListGoals はユーザーの目標一覧を返す。areaID指定時はエリア配下に絞り込む。
	ListGoals(ctx context.Context, userID string, areaID *string) ([]*model.Goal, error)
	// CreateGoal は目標を作成する。
	CreateGoal(ctx context.Context, userID string, input goal.CreateInput) (*model.Goal, error)
	// UpdateGoal は目標を部分更新する。
	UpdateGoal(ctx context.Context, userID, goalID string, update model.GoalUpdate) (*model.Goal, error)
	// DeleteGoal は目標と参照するリフレクションをカスケード削除する。
	DeleteGoal(ctx context.Context, userID, goalID string) error
}

// GoalHandler は目標管理のHTTPハンドラー。
type GoalHandler struct {
	service GoalServiceInterface
}

// NewGoalHandler はGoalHandlerを生成する。
func NewGoalHandler(service GoalServiceInterface) *GoalHandler {
	return &GoalHandler{service: service}
}

// createGoalRequest は目標作成リクエストのボディ。
type createGoalRequest struct {
	AreaID          *string    `json:"area_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	TargetDate      *time.Time `json:"target_date"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	ProgressPercent *int       `json:"progress_percent"`
}

// updateGoalRequest は目標部分更新リクエストのボディ。
// area_id、target_date、progress_percentはjson.RawMessageで受け取り、
// 「フィールド省略」と「明示的なnull（値のクリア）」を区別する。
type updateGoalRequest struct {
	AreaID          json.RawMessage `json:"area_id"`
	Title           *string         `json:"title"`
	Description     *string         `json:"description"`
	TargetDate      json.RawMessage `json:"target_date"`
	Status          *string         `json:"status"`
	Priority        *string         `json:"priority"`
	ProgressPercent json.RawMessage `json:"progress_percent"`
}

// goalResponse は目標情報のAPIレスポンス。
type goalResponse struct {
	ID              string     `json:"id"`
	AreaID          *string    `json:"area_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	TargetDate      *time.Time `json:"target_date"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	ProgressPercent *int       `json:"progress_percent"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// goalListResponse は目標一覧のAPIレスポンス。
type goalListResponse struct {
	Items []goalResponse `json:"items"`
	Total int            `json:"total"`
}

// ListGoals は目標一覧を取得する。
// GET /api/goals?area_id=...
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var areaID *string
	if v := r.URL.Query().Get("area_id"); v != "" {
		areaID = &v
	}

	goals, err := h.service.ListGoals(r.Context(), userID, areaID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		items = append(items, toGoalResponse(g))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goalListResponse{
		Items: items,
		Total: len(items),
	})
}

// CreateGoal は目標を作成する。
// POST /api/goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	created, err := h.service.CreateGoal(r.Context(), userID, goal.CreateInput{
		AreaID:          req.AreaID,
		Title:           req.Title,
		Description:     req.Description,
		TargetDate:      req.TargetDate,
		Status:          model.GoalStatus(req.Status),
		Priority:        model.GoalPriority(req.Priority),
		ProgressPercent: req.ProgressPercent,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toGoalResponse(created))
}

// UpdateGoal は目標を部分更新する。
// PATCH /api/goals/:id
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	goalID := chi.URLParam(r, "id")

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	update, err := toGoalUpdate(req)
	if err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	updated, err := h.service.UpdateGoal(r.Context(), userID, goalID, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toGoalResponse(updated))
}

// DeleteGoal は目標をカスケード削除する。
// DELETE /api/goals/:id
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	goalID := chi.URLParam(r, "id")

	if err := h.service.DeleteGoal(r.Context(), userID, goalID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toGoalUpdate はリクエストボディからmodel.GoalUpdateに変換する。
// RawMessageフィールドは「省略」「null」「値あり」の3状態を二重ポインタに写す。
func toGoalUpdate(req updateGoalRequest) (model.GoalUpdate, error) {
	var update model.GoalUpdate

	areaID, err := decodeNullableString(req.AreaID)
	if err != nil {
		return model.GoalUpdate{}, err
	}
	update.AreaID = areaID

	update.Title = req.Title
	update.Description = req.Description

	targetDate, err := decodeNullableTime(req.TargetDate)
	if err != nil {
		return model.GoalUpdate{}, err
	}
	update.TargetDate = targetDate

	if req.Status != nil {
		status := model.GoalStatus(*req.Status)
		update.Status = &status
	}
	if req.Priority != nil {
		priority := model.GoalPriority(*req.Priority)
		update.Priority = &priority
	}

	progress, err := decodeNullableInt(req.ProgressPercent)
	if err != nil {
		return model.GoalUpdate{}, err
	}
	update.ProgressPercent = progress

	return update, nil
}

// decodeNullableString はRawMessageを**stringに変換する。
// 省略はnil、nullは*nil、値ありは**値を返す。
func decodeNullableString(raw json.RawMessage) (**string, error) {
	if raw == nil {
		return nil, nil
	}
	if string(raw) == "null" {
		var p *string
		return &p, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	p := &s
	return &p, nil
}

// decodeNullableTime はRawMessageを**time.Timeに変換する。
func decodeNullableTime(raw json.RawMessage) (**time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	if string(raw) == "null" {
		var p *time.Time
		return &p, nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	p := &t
	return &p, nil
}

// decodeNullableInt はRawMessageを**intに変換する。
func decodeNullableInt(raw json.RawMessage) (**int, error) {
	if raw == nil {
		return nil, nil
	}
	if string(raw) == "null" {
		var p *int
		return &p, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	p := &n
	return &p, nil
}

// toGoalResponse はmodel.GoalからAPIレスポンスに変換する。
func toGoalResponse(g *model.Goal) goalResponse {
	return goalResponse{
		ID:              g.ID,
		AreaID:          g.AreaID,
		Title:           g.Title,
		Description:     g.Description,
		TargetDate:      g.TargetDate,
		Status:          string(g.Status),
		Priority:        string(g.Priority),
		ProgressPercent: g.ProgressPercent,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}
