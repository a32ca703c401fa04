package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/recipebox/internal/catalog"
	"github.com/hitoshi/recipebox/internal/model"
)

// CatalogServiceInterface はカタログハンドラーが必要とするサービスインターフェース。
// 戻り値はカタログのレスポンスそのまま。
type CatalogServiceInterface interface {
	SearchRecipes(ctx context.Context, query string) (catalog.Response, error)
	GetRecipeDetails(ctx context.Context, id string) (catalog.Response, error)
	GetRecipesByCategory(ctx context.Context, category string) (catalog.Response, error)
	GetCategories(ctx context.Context) (catalog.Response, error)
}

// CatalogHandler はレシピカタログのプロキシハンドラー。
type CatalogHandler struct {
	service CatalogServiceInterface
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Search はレシピ名で検索する。
// GET /api/catalog/search?q=xxx
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SearchRecipes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRecipe はレシピ詳細を返す。
// GET /api/catalog/recipes/{id}
func (h *CatalogHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetRecipeDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSnapshot はレシピ詳細からお気に入り登録用のスナップショットを組み立てて返す。
// GET /api/catalog/recipes/{id}/snapshot
func (h *CatalogHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp, err := h.service.GetRecipeDetails(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	meals := resp.Meals()
	if len(meals) == 0 {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecipeNotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, catalog.SnapshotFromMeal(meals[0]))
}

// ListCategories はカテゴリ一覧を返す。
// GET /api/catalog/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetCategories(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListByCategory はカテゴリに属するレシピの概要一覧を返す。
// カテゴリ名は加工せずそのままカタログに渡す。
// GET /api/catalog/categories/{name}/recipes
func (h *CatalogHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetRecipesByCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

var _ CatalogServiceInterface = (*catalog.Client)(nil)
