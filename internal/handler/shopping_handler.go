package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hitoshi/recipebox/internal/model"
)

// ShoppingServiceInterface は買い物リストハンドラーが必要とするサービスインターフェース。
type ShoppingServiceInterface interface {
	AddItem(ctx context.Context, ingredient, measure string) (*shoppingItemResponse, error)
	AddItems(ctx context.Context, ingredients []model.Ingredient) ([]shoppingItemResponse, error)
	RemoveItem(ctx context.Context, itemID string) error
	ToggleItem(ctx context.Context, itemID string) (*shoppingItemResponse, error)
	ListItems(ctx context.Context) ([]shoppingItemResponse, error)
}

// addShoppingItemRequest は買い物リスト追加リクエストのボディ。
type addShoppingItemRequest struct {
	Ingredient string `json:"ingredient" validate:"required,max=200"`
	Measure    string `json:"measure" validate:"max=200"`
}

// addShoppingItemsRequest はレシピの材料をまとめて追加するリクエストのボディ。
type addShoppingItemsRequest struct {
	Items []model.Ingredient `json:"items" validate:"max=100,dive"`
}

// shoppingItemResponse は買い物リスト項目のAPIレスポンス。
type shoppingItemResponse struct {
	ID         string    `json:"id"`
	Ingredient string    `json:"ingredient"`
	Measure    string    `json:"measure"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ShoppingHandler は買い物リストのHTTPハンドラー。
type ShoppingHandler struct {
	service  ShoppingServiceInterface
	validate *validator.Validate
}

// NewShoppingHandler はShoppingHandlerを生成する。
func NewShoppingHandler(service ShoppingServiceInterface, validate *validator.Validate) *ShoppingHandler {
	return &ShoppingHandler{service: service, validate: validate}
}

// List は買い物リストを返す。未ログインの場合は空配列。
// GET /api/shopping-list
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Add は材料を1件追加する。同じ材料が既にある場合は分量を上書きし未完了に戻す。
// POST /api/shopping-list
func (h *ShoppingHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r) {
		return
	}

	var req addShoppingItemRequest
	if apiErr := decodeAndValidate(w, r, h.validate, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	item, err := h.service.AddItem(r.Context(), req.Ingredient, req.Measure)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// AddBatch は複数の材料を1トランザクションで追加する。
// POST /api/shopping-list/batch
func (h *ShoppingHandler) AddBatch(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r) {
		return
	}

	var req addShoppingItemsRequest
	if apiErr := decodeAndValidate(w, r, h.validate, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	items, err := h.service.AddItems(r.Context(), req.Items)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Toggle は項目の完了状態を反転する。
// POST /api/shopping-list/{id}/toggle
func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r) {
		return
	}
	item, err := h.service.ToggleItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Remove は項目を削除する。
// DELETE /api/shopping-list/{id}
func (h *ShoppingHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r) {
		return
	}
	if err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
