// Package identity はリクエストごとの認証済みユーザーIDの受け渡しを提供する。
// ユーザーIDの発行は外部の認証基盤が行い、このパッケージは値を運ぶだけ。
package identity

import "context"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var userIDContextKey = contextKey("user_id")

// Provider は呼び出し元のユーザーIDを解決する。
// 未認証の場合は ok=false を返す。
type Provider interface {
	UserID(ctx context.Context) (userID string, ok bool)
}

// ContextProvider はミドルウェアがコンテキストに注入したユーザーIDを返すProvider。
type ContextProvider struct{}

// NewContextProvider はContextProviderを生成する。
func NewContextProvider() ContextProvider {
	return ContextProvider{}
}

// UserID はコンテキストからユーザーIDを取得する。
func (ContextProvider) UserID(ctx context.Context) (string, bool) {
	return FromContext(ctx)
}

// WithUserID はコンテキストにユーザーIDを注入する。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// FromContext はコンテキストからユーザーIDを取得する。空文字列は未認証として扱う。
func FromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// ProviderFunc は関数をProviderとして扱うためのアダプタ。
type ProviderFunc func(ctx context.Context) (string, bool)

// UserID はf(ctx)を呼び出す。
func (f ProviderFunc) UserID(ctx context.Context) (string, bool) {
	return f(ctx)
}

var (
	_ Provider = ContextProvider{}
	_ Provider = ProviderFunc(nil)
)
