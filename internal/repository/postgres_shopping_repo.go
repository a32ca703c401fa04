package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/recipebox/internal/model"
)

// shoppingItemColumns はshopping_list_itemsのSELECT/RETURNING対象カラム。
const shoppingItemColumns = `id, user_id, ingredient, measure, completed, created_at, updated_at`

// upsertShoppingItemSQL はUNIQUE(user_id, ingredient)制約を利用したUPSERT文。
// 既存項目はmeasureを上書きし、completedを未完了に戻す。
const upsertShoppingItemSQL = `INSERT INTO shopping_list_items (id, user_id, ingredient, measure, completed, created_at, updated_at)
	 VALUES ($1, $2, $3, $4, false, $5, $5)
	 ON CONFLICT (user_id, ingredient) DO UPDATE SET
	     measure = EXCLUDED.measure,
	     completed = false,
	     updated_at = EXCLUDED.updated_at
	 RETURNING ` + shoppingItemColumns

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresShoppingListRepo はPostgreSQLを使用した買い物リストリポジトリ。
type PostgresShoppingListRepo struct {
	db *sql.DB
}

// NewPostgresShoppingListRepo はPostgresShoppingListRepoを生成する。
func NewPostgresShoppingListRepo(db *sql.DB) *PostgresShoppingListRepo {
	return &PostgresShoppingListRepo{db: db}
}

func scanShoppingItem(s rowScanner) (*model.ShoppingListItem, error) {
	item := &model.ShoppingListItem{}
	err := s.Scan(
		&item.ID, &item.UserID, &item.Ingredient, &item.Measure,
		&item.Completed, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Upsert は買い物リストの項目を冪等にUPSERTする。
// ユーザーが既に存在しない場合はErrOwnerNotFoundを返す。
func (r *PostgresShoppingListRepo) Upsert(ctx context.Context, userID, ingredient, measure string) (*model.ShoppingListItem, error) {
	now := time.Now().UTC()
	item, err := scanShoppingItem(r.db.QueryRowContext(ctx, upsertShoppingItemSQL,
		uuid.New().String(), userID, ingredient, measure, now,
	))
	if err != nil {
		return nil, fmt.Errorf("買い物リスト項目のUPSERTに失敗しました: %w", ownerError(err))
	}
	return item, nil
}

// UpsertMany は複数の材料を同一トランザクションでUPSERTする。
// 途中で失敗した場合は全件ロールバックする。
func (r *PostgresShoppingListRepo) UpsertMany(ctx context.Context, userID string, ingredients []model.Ingredient) ([]*model.ShoppingListItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertShoppingItemSQL)
	if err != nil {
		return nil, fmt.Errorf("UPSERT文の準備に失敗しました: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	items := make([]*model.ShoppingListItem, 0, len(ingredients))
	for _, ing := range ingredients {
		item, err := scanShoppingItem(stmt.QueryRowContext(ctx,
			uuid.New().String(), userID, ing.Ingredient, ing.Measure, now,
		))
		if err != nil {
			return nil, fmt.Errorf("買い物リスト項目のUPSERTに失敗しました（%s）: %w", ing.Ingredient, ownerError(err))
		}
		items = append(items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return items, nil
}

// ToggleCompleted はユーザー所有の項目のcompletedを反転する。
// 所有者チェックと更新を1文で行う。該当なしの場合はnilを返す。
func (r *PostgresShoppingListRepo) ToggleCompleted(ctx context.Context, userID, itemID string) (*model.ShoppingListItem, error) {
	item, err := scanShoppingItem(r.db.QueryRowContext(ctx,
		`UPDATE shopping_list_items
		 SET completed = NOT completed, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+shoppingItemColumns,
		itemID, userID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("買い物リスト項目の更新に失敗しました: %w", err)
	}
	return item, nil
}

// DeleteByUserAndID はユーザー所有の項目を削除する。
func (r *PostgresShoppingListRepo) DeleteByUserAndID(ctx context.Context, userID, itemID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_list_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("買い物リスト項目の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListByUserID はユーザーの買い物リストを登録順に返す。
func (r *PostgresShoppingListRepo) ListByUserID(ctx context.Context, userID string) ([]*model.ShoppingListItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+shoppingItemColumns+`
		 FROM shopping_list_items WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("買い物リストの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	items := []*model.ShoppingListItem{}
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("買い物リスト行の読み取りに失敗しました: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("買い物リストの走査に失敗しました: %w", err)
	}
	return items, nil
}

// compile-time interface check
var _ ShoppingListRepository = (*PostgresShoppingListRepo)(nil)
