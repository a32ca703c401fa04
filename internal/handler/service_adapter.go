package handler

import (
	"context"

	"github.com/hitoshi/recipebox/internal/favorite"
	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/shopping"
	"github.com/hitoshi/recipebox/internal/user"
)

// FavoriteServiceAdapter は favorite.Service を FavoriteServiceInterface に適合させるアダプタ。
type FavoriteServiceAdapter struct {
	svc *favorite.Service
}

// NewFavoriteServiceAdapter はFavoriteServiceAdapterを生成する。
func NewFavoriteServiceAdapter(svc *favorite.Service) *FavoriteServiceAdapter {
	return &FavoriteServiceAdapter{svc: svc}
}

// AddFavorite はお気に入りを登録しhandlerレスポンス型で返す。
func (a *FavoriteServiceAdapter) AddFavorite(ctx context.Context, recipeID string, snapshot model.RecipeSnapshot) (*favoriteResponse, error) {
	fav, err := a.svc.AddFavorite(ctx, recipeID, snapshot)
	if err != nil {
		return nil, err
	}
	resp := toFavoriteResponse(fav)
	return &resp, nil
}

// RemoveFavorite はお気に入りを解除する。
func (a *FavoriteServiceAdapter) RemoveFavorite(ctx context.Context, recipeID string) error {
	return a.svc.RemoveFavorite(ctx, recipeID)
}

// ListFavorites はお気に入り一覧をhandlerレスポンス型で返す。
func (a *FavoriteServiceAdapter) ListFavorites(ctx context.Context) ([]favoriteResponse, error) {
	favorites, err := a.svc.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]favoriteResponse, len(favorites))
	for i, fav := range favorites {
		results[i] = toFavoriteResponse(fav)
	}
	return results, nil
}

// IsFavorited はお気に入り登録済みかを返す。
func (a *FavoriteServiceAdapter) IsFavorited(ctx context.Context, recipeID string) (bool, error) {
	return a.svc.IsFavorited(ctx, recipeID)
}

func toFavoriteResponse(fav *model.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:         fav.ID,
		RecipeID:   fav.RecipeID,
		RecipeData: fav.RecipeData,
		CreatedAt:  fav.CreatedAt,
	}
}

// ShoppingServiceAdapter は shopping.Service を ShoppingServiceInterface に適合させるアダプタ。
type ShoppingServiceAdapter struct {
	svc *shopping.Service
}

// NewShoppingServiceAdapter はShoppingServiceAdapterを生成する。
func NewShoppingServiceAdapter(svc *shopping.Service) *ShoppingServiceAdapter {
	return &ShoppingServiceAdapter{svc: svc}
}

// AddItem は材料を追加しhandlerレスポンス型で返す。
func (a *ShoppingServiceAdapter) AddItem(ctx context.Context, ingredient, measure string) (*shoppingItemResponse, error) {
	item, err := a.svc.AddItem(ctx, ingredient, measure)
	if err != nil {
		return nil, err
	}
	resp := toShoppingItemResponse(item)
	return &resp, nil
}

// AddItems は複数の材料を追加しhandlerレスポンス型で返す。
func (a *ShoppingServiceAdapter) AddItems(ctx context.Context, ingredients []model.Ingredient) ([]shoppingItemResponse, error) {
	items, err := a.svc.AddItems(ctx, ingredients)
	if err != nil {
		return nil, err
	}
	return toShoppingItemResponses(items), nil
}

// RemoveItem は項目を削除する。
func (a *ShoppingServiceAdapter) RemoveItem(ctx context.Context, itemID string) error {
	return a.svc.RemoveItem(ctx, itemID)
}

// ToggleItem は完了状態を反転しhandlerレスポンス型で返す。
func (a *ShoppingServiceAdapter) ToggleItem(ctx context.Context, itemID string) (*shoppingItemResponse, error) {
	item, err := a.svc.ToggleItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := toShoppingItemResponse(item)
	return &resp, nil
}

// ListItems は買い物リストをhandlerレスポンス型で返す。
func (a *ShoppingServiceAdapter) ListItems(ctx context.Context) ([]shoppingItemResponse, error) {
	items, err := a.svc.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return toShoppingItemResponses(items), nil
}

func toShoppingItemResponse(item *model.ShoppingListItem) shoppingItemResponse {
	return shoppingItemResponse{
		ID:         item.ID,
		Ingredient: item.Ingredient,
		Measure:    item.Measure,
		Completed:  item.Completed,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func toShoppingItemResponses(items []*model.ShoppingListItem) []shoppingItemResponse {
	results := make([]shoppingItemResponse, len(items))
	for i, item := range items {
		results[i] = toShoppingItemResponse(item)
	}
	return results
}

// UserServiceAdapter は user.Service を UserServiceInterface に適合させるアダプタ。
type UserServiceAdapter struct {
	svc *user.Service
}

// NewUserServiceAdapter はUserServiceAdapterを生成する。
func NewUserServiceAdapter(svc *user.Service) *UserServiceAdapter {
	return &UserServiceAdapter{svc: svc}
}

// Withdraw はユーザーの退会処理を実行する。
func (a *UserServiceAdapter) Withdraw(ctx context.Context, userID string) error {
	return a.svc.Withdraw(ctx, userID)
}

// --- compile-time interface checks ---

var _ FavoriteServiceInterface = (*FavoriteServiceAdapter)(nil)
var _ ShoppingServiceInterface = (*ShoppingServiceAdapter)(nil)
var _ UserServiceInterface = (*UserServiceAdapter)(nil)
