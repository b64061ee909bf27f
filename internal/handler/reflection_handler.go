package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/wellnesslog/internal/middleware"
	"github.com/hitoshi/wellnesslog/internal/model"
	"github.com/hitoshi/wellnesslog/internal/reflection"
)

// ReflectionServiceInterface はリフレクションハンドラーが必要とするサービスインターフェース。
type ReflectionServiceInterface interface {
	// ListReflections はリフレクション一覧をページネーション付きで返す。
	ListReflections(ctx context.Context, userID string, input reflection.ListInput) (*reflection.ListResult, error)
	// CreateReflection はリフレクションを作成する。
	CreateReflection(ctx context.Context, userID string, input reflection.CreateInput) (*model.Reflection, error)
	// DeleteReflection はリフレクションを削除する。
	DeleteReflection(ctx context.Context, userID, reflectionID string) error
}

// ReflectionHandler はリフレクション管理のHTTPハンドラー。
type ReflectionHandler struct {
	service ReflectionServiceInterface
}

// NewReflectionHandler はReflectionHandlerを生成する。
func NewReflectionHandler(service ReflectionServiceInterface) *ReflectionHandler {
	return &ReflectionHandler{service: service}
}

// createReflectionRequest はリフレクション作成リクエストのボディ。
type createReflectionRequest struct {
	AreaID      *string    `json:"area_id"`
	GoalID      *string    `json:"goal_id"`
	EntryDate   *time.Time `json:"entry_date"`
	Mood        string     `json:"mood"`
	EnergyLevel *int       `json:"energy_level"`
	Notes       string     `json:"notes"`
}

// reflectionResponse はリフレクション情報のAPIレスポンス。
type reflectionResponse struct {
	ID          string    `json:"id"`
	AreaID      *string   `json:"area_id"`
	GoalID      *string   `json:"goal_id"`
	EntryDate   time.Time `json:"entry_date"`
	Mood        string    `json:"mood"`
	EnergyLevel *int      `json:"energy_level"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// reflectionListResponse はリフレクション一覧のAPIレスポンス。
// Totalはフィルタ適用後の総件数（ページを跨いだ全体数）。
type reflectionListResponse struct {
	Items    []reflectionResponse `json:"items"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// ListReflections はリフレクション一覧を取得する。
// GET /api/reflections?area_id=...&goal_id=...&page=...&page_size=...
func (h *ReflectionHandler) ListReflections(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	input := reflection.ListInput{}

	q := r.URL.Query()
	if v := q.Get("area_id"); v != "" {
		input.AreaID = &v
	}
	if v := q.Get("goal_id"); v != "" {
		input.GoalID = &v
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPaginationError("page="+v))
			return
		}
		input.Page = page
	}
	if v := q.Get("page_size"); v != "" {
		pageSize, err := strconv.Atoi(v)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPaginationError("page_size="+v))
			return
		}
		input.PageSize = pageSize
	}

	result, err := h.service.ListReflections(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]reflectionResponse, 0, len(result.Items))
	for _, refl := range result.Items {
		items = append(items, toReflectionResponse(refl))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reflectionListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// CreateReflection はリフレクションを作成する。
// POST /api/reflections
func (h *ReflectionHandler) CreateReflection(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req createReflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	created, err := h.service.CreateReflection(r.Context(), userID, reflection.CreateInput{
		AreaID:      req.AreaID,
		GoalID:      req.GoalID,
		EntryDate:   req.EntryDate,
		Mood:        req.Mood,
		EnergyLevel: req.EnergyLevel,
		Notes:       req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toReflectionResponse(created))
}

// DeleteReflection はリフレクションを削除する。
// DELETE /api/reflections/:id
func (h *ReflectionHandler) DeleteReflection(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	reflectionID := chi.URLParam(r, "id")

	if err := h.service.DeleteReflection(r.Context(), userID, reflectionID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toReflectionResponse はmodel.ReflectionからAPIレスポンスに変換する。
func toReflectionResponse(refl *model.Reflection) reflectionResponse {
	return reflectionResponse{
		ID:          refl.ID,
		AreaID:      refl.AreaID,
		GoalID:      refl.GoalID,
		EntryDate:   refl.EntryDate,
		Mood:        refl.Mood,
		EnergyLevel: refl.EnergyLevel,
		Notes:       refl.Notes,
		CreatedAt:   refl.CreatedAt,
	}
}
