// Package shopping は買い物リストの管理を提供する。
package shopping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hitoshi/recipebox/internal/identity"
	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/repository"
	"github.com/hitoshi/recipebox/internal/security"
)

const resourceName = "shopping_item"

// Recorder は買い物リスト操作の結果を記録する。
type Recorder interface {
	RecordCollectionOperation(resource, operation, outcome string)
}

// Service は買い物リストのサービス層。
// 項目は (ユーザー, 材料名) ごとに1件で、追加は常にUPSERTとして扱う。
type Service struct {
	repo      repository.ShoppingListRepository
	identity  identity.Provider
	sanitizer security.TextSanitizerService
	logger    *slog.Logger
	recorder  Recorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(
	repo repository.ShoppingListRepository,
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

// AddItem は材料を買い物リストに追加する。
// 同じ材料が既にある場合は分量を上書きし、未完了に戻す。
func (s *Service) AddItem(ctx context.Context, ingredient, measure string) (*model.ShoppingListItem, error) {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return nil, model.NewUnauthenticatedError()
	}

	ing, err := s.normalize(model.Ingredient{Ingredient: ingredient, Measure: measure})
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Upsert(ctx, userID, ing.Ingredient, ing.Measure)
	if errors.Is(err, repository.ErrOwnerNotFound) {
		s.record("add", "unauthenticated")
		return nil, model.NewUnauthenticatedError()
	}
	if err != nil {
		s.record("add", "error")
		return nil, fmt.Errorf("買い物リストへの追加に失敗しました: %w", err)
	}

	s.record("add", "upserted")
	return item, nil
}

// AddItems はレシピの材料をまとめて追加する。各材料はAddItemと同じUPSERTとして扱い、
// 1件でも失敗した場合は何も追加しない。
func (s *Service) AddItems(ctx context.Context, ingredients []model.Ingredient) ([]*model.ShoppingListItem, error) {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return nil, model.NewUnauthenticatedError()
	}
	if len(ingredients) == 0 {
		return []*model.ShoppingListItem{}, nil
	}

	normalized := make([]model.Ingredient, 0, len(ingredients))
	for _, in := range ingredients {
		ing, err := s.normalize(in)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, ing)
	}

	items, err := s.repo.UpsertMany(ctx, userID, normalized)
	if errors.Is(err, repository.ErrOwnerNotFound) {
		s.record("add_batch", "unauthenticated")
		return nil, model.NewUnauthenticatedError()
	}
	if err != nil {
		s.record("add_batch", "error")
		return nil, fmt.Errorf("買い物リストへの一括追加に失敗しました: %w", err)
	}

	s.record("add_batch", "upserted")
	s.logger.Info("買い物リストに材料を一括追加しました",
		slog.String("user_id", userID),
		slog.Int("count", len(items)),
	)
	return items, nil
}

// RemoveItem は項目を削除する。
// 存在しない項目と他ユーザーの項目はどちらもNotFoundとして扱う。
func (s *Service) RemoveItem(ctx context.Context, itemID string) error {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return model.NewUnauthenticatedError()
	}
	if !isItemID(itemID) {
		s.record("remove", "not_found")
		return model.NewShoppingItemNotFoundError(itemID)
	}

	deleted, err := s.repo.DeleteByUserAndID(ctx, userID, itemID)
	if err != nil {
		s.record("remove", "error")
		return fmt.Errorf("買い物リスト項目の削除に失敗しました: %w", err)
	}
	if !deleted {
		s.record("remove", "not_found")
		return model.NewShoppingItemNotFoundError(itemID)
	}

	s.record("remove", "deleted")
	return nil
}

// ToggleItem は項目の完了状態を反転する。所有者チェックはRemoveItemと同じ。
func (s *Service) ToggleItem(ctx context.Context, itemID string) (*model.ShoppingListItem, error) {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return nil, model.NewUnauthenticatedError()
	}
	if !isItemID(itemID) {
		s.record("toggle", "not_found")
		return nil, model.NewShoppingItemNotFoundError(itemID)
	}

	item, err := s.repo.ToggleCompleted(ctx, userID, itemID)
	if err != nil {
		s.record("toggle", "error")
		return nil, fmt.Errorf("買い物リスト項目の更新に失敗しました: %w", err)
	}
	if item == nil {
		s.record("toggle", "not_found")
		return nil, model.NewShoppingItemNotFoundError(itemID)
	}

	s.record("toggle", "toggled")
	return item, nil
}

// ListItems は呼び出し元の買い物リストを返す。未ログインの場合は空スライスを返す。
func (s *Service) ListItems(ctx context.Context) ([]*model.ShoppingListItem, error) {
	userID, ok := s.identity.UserID(ctx)
	if !ok {
		return []*model.ShoppingListItem{}, nil
	}

	items, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("買い物リストの取得に失敗しました: %w", err)
	}
	if items == nil {
		items = []*model.ShoppingListItem{}
	}
	return items, nil
}

// normalize はタグを除去し、材料名が空になった場合はValidationErrorを返す。
// 材料名は一意キーなので前後の空白だけを取り除く。
func (s *Service) normalize(in model.Ingredient) (model.Ingredient, error) {
	name := strings.TrimSpace(s.sanitizer.StripTags(in.Ingredient))
	if name == "" {
		return model.Ingredient{}, model.NewValidationError("ingredient は必須です")
	}
	return model.Ingredient{
		Ingredient: name,
		Measure:    strings.TrimSpace(s.sanitizer.StripTags(in.Measure)),
	}, nil
}

// isItemID は項目IDがUUID形式かどうかを判定する。
func isItemID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) record(operation, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordCollectionOperation(resourceName, operation, outcome)
	}
}
