// Package model はドメインモデルを定義する。
package model

import "time"

// Ingredient はレシピの材料と分量の組を表す。
type Ingredient struct {
	Ingredient string `json:"ingredient" validate:"required,max=200"`
	Measure    string `json:"measure" validate:"max=200"`
}

// RecipeSnapshot はお気に入り登録時点のレシピ情報のスナップショット。
// カタログのフィールド名をそのまま使う。保存後は変更しない。
type RecipeSnapshot struct {
	IDMeal          string       `json:"idMeal"`
	StrMeal         string       `json:"strMeal"`
	StrMealThumb    string       `json:"strMealThumb"`
	StrCategory     string       `json:"strCategory"`
	StrArea         string       `json:"strArea"`
	StrInstructions string       `json:"strInstructions"`
	StrYoutube      *string      `json:"strYoutube,omitempty"`
	StrSource       *string      `json:"strSource,omitempty"`
	Ingredients     []Ingredient `json:"ingredients" validate:"dive"`
}

// Favorite はユーザーが保存したレシピを表す。
// (UserID, RecipeID) の組はユーザーごとに一意。
type Favorite struct {
	ID         string
	UserID     string
	RecipeID   string
	RecipeData RecipeSnapshot
	CreatedAt  time.Time
}
