package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hitoshi/recipebox/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	Sessions           middleware.SessionResolver
	Tokens             middleware.TokenVerifier
	CORSAllowedOrigins []string
	CSRFConfig         middleware.CSRFConfig
	RateLimiter        *middleware.RateLimiter
	StatusRecorder     middleware.StatusRecorder

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// カタログ・コレクション
	CatalogService  CatalogServiceInterface
	FavoriteService FavoriteServiceInterface
	ShoppingService ShoppingServiceInterface

	// ユーザー
	UserService UserServiceInterface

	// Validator はnilの場合NewValidatorで生成する。
	Validator *validator.Validate
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Identity → (API) RateLimit(General) → CSRF
//
// 呼び出し元の特定は全ルートで行い、未ログインは匿名として扱う。
// ログイン必須かどうかはサービス層が判定する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	validate := deps.Validator
	if validate == nil {
		validate = NewValidator()
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins...))
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusRecorder))
	r.Use(middleware.NewIdentityMiddleware(deps.Sessions, deps.Tokens, logger))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	favoriteHandler := NewFavoriteHandler(deps.FavoriteService, validate)
	shoppingHandler := NewShoppingHandler(deps.ShoppingService, validate)
	userHandler := NewUserHandler(deps.UserService, deps.AuthConfig)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証ルート（OAuthフロー） ---
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.With(middleware.NewCSRFMiddleware(deps.CSRFConfig)).Post("/token", authHandler.Token)
	})

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// --- API ---
	// ミドルウェアスタック: RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// レシピカタログ（カタログ専用レート制限を追加）
		r.Route("/api/catalog", func(r chi.Router) {
			r.Use(deps.RateLimiter.CatalogMiddleware())

			r.Get("/search", catalogHandler.Search)
			r.Get("/recipes/{id}", catalogHandler.GetRecipe)
			r.Get("/recipes/{id}/snapshot", catalogHandler.GetSnapshot)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/categories/{name}/recipes", catalogHandler.ListByCategory)
		})

		// お気に入り
		r.Route("/api/favorites", func(r chi.Router) {
			r.Get("/", favoriteHandler.List)
			r.Post("/", favoriteHandler.Add)
			r.Get("/{recipeId}", favoriteHandler.Status)
			r.Delete("/{recipeId}", favoriteHandler.Remove)
		})

		// 買い物リスト
		r.Route("/api/shopping-list", func(r chi.Router) {
			r.Get("/", shoppingHandler.List)
			r.Post("/", shoppingHandler.Add)
			r.Post("/batch", shoppingHandler.AddBatch)
			r.Post("/{id}/toggle", shoppingHandler.Toggle)
			r.Delete("/{id}", shoppingHandler.Remove)
		})

		// ユーザー管理
		r.Delete("/api/users/me", userHandler.Withdraw)
	})

	return r
}
