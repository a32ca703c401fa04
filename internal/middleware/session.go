// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/recipebox/internal/identity"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// SessionResolver はセッションIDからユーザーIDを解決する。
// 無効・期限切れのセッションは ok=false を返す。
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (userID string, ok bool, err error)
}

// TokenVerifier はベアラートークンを検証してユーザーIDを返す。
type TokenVerifier interface {
	VerifyToken(token string) (userID string, err error)
}

// NewIdentityMiddleware はリクエストの呼び出し元を特定し、ユーザーIDをコンテキストに注入する。
// Authorization: Bearer があればトークンを、なければセッションCookieを使う。
// 認証情報がないリクエストは匿名としてそのまま通す。
// 提示されたベアラートークンが無効な場合は401を返す。
func NewIdentityMiddleware(sessions SessionResolver, tokens TokenVerifier, logger *slog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				userID, err := tokens.VerifyToken(token)
				if err != nil {
					logger.Warn("bearer token rejected",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
					WriteErrorResponse(w, http.StatusUnauthorized, invalidTokenError())
					return
				}
				annotateUser(r.Context(), userID)
				next.ServeHTTP(w, r.WithContext(identity.WithUserID(r.Context(), userID)))
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok, err := sessions.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("failed to resolve session", slog.String("error", err.Error()))
				WriteInternalServerError(w)
				return
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			annotateUser(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(identity.WithUserID(r.Context(), userID)))
		})
	}
}

// hasBearerToken はAuthorizationヘッダーにBearerスキームがあるかを返す。
func hasBearerToken(r *http.Request) bool {
	_, ok := bearerToken(r)
	return ok
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
