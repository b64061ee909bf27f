// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/wellnesslog/internal/area"
	"github.com/hitoshi/wellnesslog/internal/middleware"
	"github.com/hitoshi/wellnesslog/internal/model"
)

// AreaServiceInterface はエリアハンドラーが必要とするサービスインターフェース。
type AreaServiceInterface interface {
	// ListAreas はユーザーのエリア一覧を返す。
	ListAreas(ctx context.Context, userID string) ([]*model.Area, error)
	// CreateArea はエリアを作成する。
	CreateArea(ctx context.Context, userID string, input area.CreateInput) (*model.Area, error)
	// UpdateArea はエリアを部分更新する。
	UpdateArea(ctx context.Context, userID, areaID string, update model.AreaUpdate) (*model.Area, error)
	// DeleteArea はエリアと配下の目標・リフレクションをカスケード削除する。
	DeleteArea(ctx context.Context, userID, areaID string) error
}

// AreaHandler はエリア管理のHTTPハンドラー。
type AreaHandler struct {
	service AreaServiceInterface
}

// NewAreaHandler はAreaHandlerを生成する。
func NewAreaHandler(service AreaServiceInterface) *AreaHandler {
	return &AreaHandler{service: service}
}

// createAreaRequest はエリア作成リクエストのボディ。
type createAreaRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

// updateAreaRequest はエリア部分更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateAreaRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sort_order"`
}

// areaResponse はエリア情報のAPIレスポンス。
type areaResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// areaListResponse はエリア一覧のAPIレスポンス。
type areaListResponse struct {
	Items []areaResponse `json:"items"`
	Total int            `json:"total"`
}

// ListAreas はエリア一覧を取得する。
// GET /api/areas
func (h *AreaHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	areas, err := h.service.ListAreas(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]areaResponse, 0, len(areas))
	for _, a := range areas {
		items = append(items, toAreaResponse(a))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(areaListResponse{
		Items: items,
		Total: len(items),
	})
}

// CreateArea はエリアを作成する。
// POST /api/areas
func (h *AreaHandler) CreateArea(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req createAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	created, err := h.service.CreateArea(r.Context(), userID, area.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toAreaResponse(created))
}

// UpdateArea はエリアを部分更新する。
// PATCH /api/areas/:id
func (h *AreaHandler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	areaID := chi.URLParam(r, "id")

	var req updateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	updated, err := h.service.UpdateArea(r.Context(), userID, areaID, model.AreaUpdate{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAreaResponse(updated))
}

// DeleteArea はエリアをカスケード削除する。
// DELETE /api/areas/:id
func (h *AreaHandler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	areaID := chi.URLParam(r, "id")

	if err := h.service.DeleteArea(r.Context(), userID, areaID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toAreaResponse はmodel.AreaからAPIレスポンスに変換する。
func toAreaResponse(a *model.Area) areaResponse {
	return areaResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Icon:        a.Icon,
		SortOrder:   a.SortOrder,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
