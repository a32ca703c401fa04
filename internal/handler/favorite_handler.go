package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hitoshi/recipebox/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
// 呼び出し元のユーザーはコンテキストから解決される。
type FavoriteServiceInterface interface {
	AddFavorite(ctx context.Context, recipeID string, snapshot model.RecipeSnapshot) (*favoriteResponse, error)
	RemoveFavorite(ctx context.Context, recipeID string) error
	ListFavorites(ctx context.Context) ([]favoriteResponse, error)
	IsFavorited(ctx context.Context, recipeID string) (bool, error)
}

// addFavoriteRequest はお気に入り登録リクエストのボディ。
type addFavoriteRequest struct {
	RecipeID   string                 `json:"recipe_id" validate:"required,max=64"`
	RecipeData *recipeSnapshotRequest `json:"recipe_data" validate:"required"`
}

// recipeSnapshotRequest はリクエスト中のスナップショット。
// 各キーの存在を検証するためポインタで受ける。空文字列と空配列は許容する。
type recipeSnapshotRequest struct {
	IDMeal          *string            `json:"idMeal" validate:"required"`
	StrMeal         *string            `json:"strMeal" validate:"required"`
	StrMealThumb    *string            `json:"strMealThumb" validate:"required"`
	StrCategory     *string            `json:"strCategory" validate:"required"`
	StrArea         *string            `json:"strArea" validate:"required"`
	StrInstructions *string            `json:"strInstructions" validate:"required"`
	StrYoutube      *string            `json:"strYoutube"`
	StrSource       *string            `json:"strSource"`
	Ingredients     []model.Ingredient `json:"ingredients" validate:"required,dive"`
}

// toModel は検証済みのリクエストをRecipeSnapshotに変換する。
func (s *recipeSnapshotRequest) toModel() model.RecipeSnapshot {
	return model.RecipeSnapshot{
		IDMeal:          *s.IDMeal,
		StrMeal:         *s.StrMeal,
		StrMealThumb:    *s.StrMealThumb,
		StrCategory:     *s.StrCategory,
		StrArea:         *s.StrArea,
		StrInstructions: *s.StrInstructions,
		StrYoutube:      s.StrYoutube,
		StrSource:       s.StrSource,
		Ingredients:     s.Ingredients,
	}
}

// favoriteResponse はお気に入りのAPIレスポンス。
type favoriteResponse struct {
	ID         string               `json:"id"`
	RecipeID   string               `json:"recipe_id"`
	RecipeData model.RecipeSnapshot `json:"recipe_data"`
	CreatedAt  time.Time            `json:"created_at"`
}

// favoriteStatusResponse はお気に入り状態のAPIレスポンス。
type favoriteStatusResponse struct {
	RecipeID  string `json:"recipe_id"`
	Favorited bool   `json:"favorited"`
}

// FavoriteHandler はお気に入りのHTTPハンドラー。
type FavoriteHandler struct {
	service  FavoriteServiceInterface
	validate *validator.Validate
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
func NewFavoriteHandler(service FavoriteServiceInterface, validate *validator.Validate) *FavoriteHandler {
	return &FavoriteHandler{service: service, validate: validate}
}

// List はお気に入り一覧を返す。未ログインの場合は空配列。
// GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.ListFavorites(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

// Add はレシピをお気に入りに登録する。
// POST /api/favorites
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r) {
		return
	}

	var req addFavoriteRequest
	if apiErr := decodeAndValidate(w, r, h.validate, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	fav, err := h.service.AddFavorite(r.Context(), req.RecipeID, req.RecipeData.toModel())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

// Status はレシピがお気に入り登録済みかを返す。未ログインの場合はfalse。
// GET /api/favorites/{recipeId}
func (h *FavoriteHandler) Status(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "recipeId")
	favorited, err := h.service.IsFavorited(r.Context(), recipeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteStatusResponse{RecipeID: recipeID, Favorited: favorited})
}

// Remove はお気に入りを解除する。
// DELETE /api/favorites/{recipeId}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r) {
		return
	}
	if err := h.service.RemoveFavorite(r.Context(), chi.URLParam(r, "recipeId")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
