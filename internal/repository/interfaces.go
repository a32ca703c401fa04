// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/recipebox/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// DeleteWithPersonalData はユーザーと個人データを同一トランザクションで削除する。
	// 対象はfavorites、shopping_list_items、sessions、identities。
	// ユーザーが存在しなかった場合は deleted=false を返す。
	DeleteWithPersonalData(ctx context.Context, id string) (deleted bool, err error)
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// FavoriteRepository はお気に入りの永続化インターフェース。
// すべての操作はuser_idで絞り込み、他ユーザーのレコードには触れない。
type FavoriteRepository interface {
	// Create はお気に入りを作成する。
	// (user_id, recipe_id) が既に存在する場合は何もせず created=false を返す。
	// ユーザーが存在しない場合はErrOwnerNotFoundを返す。
	// 一意制約を利用するため、同時実行でも重複レコードは作られない。
	Create(ctx context.Context, favorite *model.Favorite) (created bool, err error)

	// DeleteByUserAndRecipe はお気に入りを削除する。
	// 該当レコードがなかった場合は deleted=false を返す。
	DeleteByUserAndRecipe(ctx context.Context, userID, recipeID string) (deleted bool, err error)

	// ExistsByUserAndRecipe はお気に入りの存在を確認する。
	ExistsByUserAndRecipe(ctx context.Context, userID, recipeID string) (bool, error)

	// ListByUserID はユーザーのお気に入りを登録順に返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error)
}

// ShoppingListRepository は買い物リストの永続化インターフェース。
// すべての操作はuser_idで絞り込み、他ユーザーのレコードには触れない。
type ShoppingListRepository interface {
	// Upsert は (user_id, ingredient) をキーに項目を作成または更新する。
	// 既存項目はmeasureを上書きし、completedをfalseに戻す。
	// ユーザーが存在しない場合はErrOwnerNotFoundを返す。
	Upsert(ctx context.Context, userID, ingredient, measure string) (*model.ShoppingListItem, error)

	// UpsertMany は複数の材料を同一トランザクションでUpsertする。
	UpsertMany(ctx context.Context, userID string, ingredients []model.Ingredient) ([]*model.ShoppingListItem, error)

	// ToggleCompleted はユーザー所有の項目のcompletedを反転する。
	// 該当項目がないか他ユーザーの項目の場合はnilを返す。
	ToggleCompleted(ctx context.Context, userID, itemID string) (*model.ShoppingListItem, error)

	// DeleteByUserAndID はユーザー所有の項目を削除する。
	// 該当項目がないか他ユーザーの項目の場合は deleted=false を返す。
	DeleteByUserAndID(ctx context.Context, userID, itemID string) (deleted bool, err error)

	// ListByUserID はユーザーの買い物リストを登録順に返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.ShoppingListItem, error)
}
