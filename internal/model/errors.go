// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, collection, catalog, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeUpstreamError       = "UPSTREAM_ERROR"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// HasCode はerrがcodeを持つAPIErrorかどうかを判定する。
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// NewUnauthenticatedError は未ログインで更新操作を行った場合のエラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "この操作にはログインが必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewFavoriteAlreadyExistsError は同じレシピを重複してお気に入り登録しようとした場合のエラーを生成する。
func NewFavoriteAlreadyExistsError(recipeID string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyExists,
		Message:  fmt.Sprintf("このレシピは既にお気に入りに登録されています: %s", recipeID),
		Category: "collection",
		Action:   "お気に入り一覧から該当レシピを確認してください。",
	}
}

// NewFavoriteNotFoundError はお気に入りに存在しないレシピを解除しようとした場合のエラーを生成する。
func NewFavoriteNotFoundError(recipeID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("このレシピはお気に入りに登録されていません: %s", recipeID),
		Category: "collection",
		Action:   "お気に入り一覧を再読み込みしてください。",
	}
}

// NewShoppingItemNotFoundError は買い物リストの項目が存在しないか、他ユーザーの項目である場合のエラーを生成する。
// 他ユーザーの項目であることは呼び出し元に区別させない。
func NewShoppingItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定された買い物リストの項目が見つかりません: %s", itemID),
		Category: "collection",
		Action:   "買い物リストを再読み込みしてください。",
	}
}

// NewValidationError はリクエスト内容が不正な場合のエラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("リクエストの内容が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewUpstreamError はレシピカタログが成功以外のステータスを返した場合のエラーを生成する。
func NewUpstreamError(status int) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamError,
		Message:  fmt.Sprintf("レシピカタログがエラーを返しました（ステータス %d）。", status),
		Category: "catalog",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUpstreamUnavailableError はレシピカタログに到達できなかった場合のエラーを生成する。
func NewUpstreamUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamUnavailable,
		Message:  "レシピカタログに接続できませんでした。",
		Category: "catalog",
		Action:   "ネットワーク接続を確認し、しばらく待ってから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewRecipeNotFoundError はカタログに指定IDのレシピが存在しない場合のエラーを生成する。
func NewRecipeNotFoundError(recipeID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("レシピが見つかりません: %s", recipeID),
		Category: "catalog",
		Action:   "レシピIDを確認してください。",
	}
}
