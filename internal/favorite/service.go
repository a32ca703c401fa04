// Package favorite はお気に入りレシピの管理を提供する。
package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/recipebox/internal/identity"
	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/repository"
	"github.com/hitoshi/recipebox/internal/security"
)

const resourceName = "favorite"

// Recorder はお気に入り操作の結果を記録する。
type Recorder interface {
	RecordCollectionOperation(resource, operation, outcome string)
}

// Service はお気に入りのサービス層。
// 呼び出し元のユーザーはidentity.Providerから解決する。
type Service struct {
	repo      repository.FavoriteRepository
	identity  identity.Provider
	sanitizer security.TextSanitizerService
	logger    *slog.Logger
	recorder  Recorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(
	repo repository.FavoriteRepository,
	ident identity.Provider,
	sanitizer security.TextSanitizerService,
	logger *slog.Logger,
	recorder Recorder,
) *Service {
	return &Service{
		repo:      repo,
		identity:  ident,
		sanitizer: sanitizer,
		logger:    logger,
		recorder:  recorder,
	}
}

// AddFavorite はレシピをお気に入りに登録する。
// 未ログインまたは退会済みの場合はUnauthenticated、既に登録済みの場合はAlreadyExistsを返す。
// スナップショットは保存後に変更されない。
func (s *Service) AddFavorite(ctx context.Context, recipeID string, snapshot model.RecipeSnapshot) (*model.Favorite, error) {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return nil, model.NewUnauthenticatedError()
	}
	if strings.TrimSpace(recipeID) == "" {
		return nil, model.NewValidationError("recipe_id は必須です")
	}

	fav := &model.Favorite{
		ID:         uuid.New().String(),
		UserID:     userID,
		RecipeID:   recipeID,
		RecipeData: s.sanitizeSnapshot(snapshot),
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, fav)
	if errors.Is(err, repository.ErrOwnerNotFound) {
		s.record("add", "unauthenticated")
		return nil, model.NewUnauthenticatedError()
	}
	if err != nil {
		s.record("add", "error")
		return nil, fmt.Errorf("お気に入りの登録に失敗しました: %w", err)
	}
	if !created {
		s.record("add", "already_exists")
		return nil, model.NewFavoriteAlreadyExistsError(recipeID)
	}

	s.record("add", "created")
	s.logger.Info("お気に入りを登録しました",
		slog.String("user_id", userID),
		slog.String("recipe_id", recipeID),
	)
	return fav, nil
}

// RemoveFavorite はお気に入りを解除する。登録されていない場合はNotFoundを返す。
func (s *Service) RemoveFavorite(ctx context.Context, recipeID string) error {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return model.NewUnauthenticatedError()
	}

	deleted, err := s.repo.DeleteByUserAndRecipe(ctx, userID, recipeID)
	if err != nil {
		s.record("remove", "error")
		return fmt.Errorf("お気に入りの解除に失敗しました: %w", err)
	}
	if !deleted {
		s.record("remove", "not_found")
		return model.NewFavoriteNotFoundError(recipeID)
	}

	s.record("remove", "deleted")
	return nil
}

// ListFavorites は呼び出し元のお気に入り一覧を返す。未ログインの場合は空スライスを返す。
func (s *Service) ListFavorites(ctx context.Context) ([]*model.Favorite, error) {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return []*model.Favorite{}, nil
	}

	favorites, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	if favorites == nil {
		favorites = []*model.Favorite{}
	}
	return favorites, nil
}

// IsFavorited はレシピがお気に入り登録済みかどうかを返す。未ログインの場合はfalse。
func (s *Service) IsFavorited(ctx context.Context, recipeID string) (bool, error) {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return false, nil
	}

	exists, err := s.repo.ExistsByUserAndRecipe(ctx, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("お気に入りの確認に失敗しました: %w", err)
	}
	return exists, nil
}

// sanitizeSnapshot はテキスト欄のタグを除去し、URL欄はhttp/https以外を空にする。
func (s *Service) sanitizeSnapshot(in model.RecipeSnapshot) model.RecipeSnapshot {
	out := model.RecipeSnapshot{
		IDMeal:          s.sanitizer.StripTags(in.IDMeal),
		StrMeal:         s.sanitizer.StripTags(in.StrMeal),
		StrMealThumb:    s.sanitizer.SafeURL(in.StrMealThumb),
		StrCategory:     s.sanitizer.StripTags(in.StrCategory),
		StrArea:         s.sanitizer.StripTags(in.StrArea),
		StrInstructions: s.sanitizer.StripTags(in.StrInstructions),
		StrYoutube:      s.optionalURL(in.StrYoutube),
		StrSource:       s.optionalURL(in.StrSource),
		Ingredients:     make([]model.Ingredient, 0, len(in.Ingredients)),
	}
	for _, ing := range in.Ingredients {
		out.Ingredients = append(out.Ingredients, model.Ingredient{
			Ingredient: s.sanitizer.StripTags(ing.Ingredient),
			Measure:    s.sanitizer.StripTags(ing.Measure),
		})
	}
	return out
}

func (s *Service) optionalURL(u *string) *string {
	if u == nil {
		return nil
	}
	safe := s.sanitizer.SafeURL(*u)
	if safe == "" {
		return nil
	}
	return &safe
}

func (s *Service) record(operation, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordCollectionOperation(resourceName, operation, outcome)
	}
}
