package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/recipebox/internal/identity"
	"github.com/hitoshi/recipebox/internal/middleware"
)

// withUserID はリクエストコンテキストに認証済みユーザーIDを注入する。
func withUserID(req *http.Request, userID string) *http.Request {
	return req.WithContext(identity.WithUserID(req.Context(), userID))
}

// withChiURLParam はchiのURLパラメータをリクエストに設定する。
func withChiURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorBody はエラーレスポンスのボディをデコードする。
func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v (raw: %s)", err, w.Body.String())
	}
	return body
}

// assertErrorCode はステータスコードとエラーコードを検証する。
func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, wantStatus, w.Body.String())
	}
	if body := decodeErrorBody(t, w); body.Code != wantCode {
		t.Errorf("code = %q, want %q", body.Code, wantCode)
	}
}
