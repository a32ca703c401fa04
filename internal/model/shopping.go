// Package model はドメインモデルを定義する。
package model

import "time"

// ShoppingListItem は買い物リストの1行を表す。
// (UserID, Ingredient) の組はユーザーごとに一意。
type ShoppingListItem struct {
	ID         string
	UserID     string
	Ingredient string
	Measure    string
	Completed  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
