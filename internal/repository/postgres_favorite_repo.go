package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/recipebox/internal/model"
)

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// Create はお気に入りを作成する。
// ユーザーが既に存在しない場合はErrOwnerNotFoundを返す。
// UNIQUE(user_id, recipe_id)制約に対するON CONFLICT DO NOTHINGで、存在確認と挿入を1文で行う。
// 競合した場合はRETURNINGが行を返さないため created=false となる。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, fav *model.Favorite) (bool, error) {
	data, err := json.Marshal(fav.RecipeData)
	if err != nil {
		return false, fmt.Errorf("レシピスナップショットのエンコードに失敗しました: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO favorites (id, user_id, recipe_id, recipe_data, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, recipe_id) DO NOTHING
		 RETURNING created_at`,
		fav.ID, fav.UserID, fav.RecipeID, data, fav.CreatedAt,
	).Scan(&fav.CreatedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("お気に入りの作成に失敗しました: %w", ownerError(err))
	}
	return true, nil
}

// DeleteByUserAndRecipe はユーザーIDとレシピIDでお気に入りを削除する。
func (r *PostgresFavoriteRepo) DeleteByUserAndRecipe(ctx context.Context, userID, recipeID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID,
	)
	if err != nil {
		return false, fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// ExistsByUserAndRecipe はユーザーIDとレシピIDでお気に入りの存在を確認する。
func (r *PostgresFavoriteRepo) ExistsByUserAndRecipe(ctx context.Context, userID, recipeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)`,
		userID, recipeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("お気に入りの存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// ListByUserID はユーザーのお気に入り一覧を登録順に返す。
func (r *PostgresFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, recipe_id, recipe_data, created_at
		 FROM favorites WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	favorites := []*model.Favorite{}
	for rows.Next() {
		fav := &model.Favorite{}
		var data []byte
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.RecipeID, &data, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("お気に入り行の読み取りに失敗しました: %w", err)
		}
		if err := json.Unmarshal(data, &fav.RecipeData); err != nil {
			return nil, fmt.Errorf("レシピスナップショットのデコードに失敗しました: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("お気に入り一覧の走査に失敗しました: %w", err)
	}
	return favorites, nil
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
