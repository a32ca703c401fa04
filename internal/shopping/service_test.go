package shopping

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/recipebox/internal/identity"
	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/repository"
	"github.com/hitoshi/recipebox/internal/security"
)

// --- モック ---

// memoryShoppingRepo は(user_id, ingredient)の一意性と所有者チェックを再現するインメモリ実装。
type memoryShoppingRepo struct {
	mu    sync.Mutex
	items []*model.ShoppingListItem

	upsertErr     error
	upsertManyErr error
}

func (m *memoryShoppingRepo) upsertLocked(userID, ingredient, measure string) *model.ShoppingListItem {
	now := time.Now().UTC()
	for _, it := range m.items {
		if it.UserID == userID && it.Ingredient == ingredient {
			it.Measure = measure
			it.Completed = false
			it.UpdatedAt = now
			cp := *it
			return &cp
		}
	}
	it := &model.ShoppingListItem{
		ID: uuid.New().String(), UserID: userID, Ingredient: ingredient, Measure: measure,
		CreatedAt: now, UpdatedAt: now,
	}
	m.items = append(m.items, it)
	cp := *it
	return &cp
}

func (m *memoryShoppingRepo) Upsert(_ context.Context, userID, ingredient, measure string) (*model.ShoppingListItem, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertLocked(userID, ingredient, measure), nil
}

func (m *memoryShoppingRepo) UpsertMany(_ context.Context, userID string, ingredients []model.Ingredient) ([]*model.ShoppingListItem, error) {
	if m.upsertManyErr != nil {
		return nil, m.upsertManyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ShoppingListItem, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, m.upsertLocked(userID, ing.Ingredient, ing.Measure))
	}
	return out, nil
}

func (m *memoryShoppingRepo) ToggleCompleted(_ context.Context, userID, itemID string) (*model.ShoppingListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == itemID && it.UserID == userID {
			it.Completed = !it.Completed
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryShoppingRepo) DeleteByUserAndID(_ context.Context, userID, itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == itemID && it.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryShoppingRepo) ListByUserID(_ context.Context, userID string) ([]*model.ShoppingListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ShoppingListItem{}
	for _, it := range m.items {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- ヘルパー ---

func newTestService(repo *memoryShoppingRepo) *Service {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	return NewService(repo, identity.NewContextProvider(), security.NewTextSanitizer(), logger, nil)
}

func asUser(userID string) context.Context {
	return identity.WithUserID(context.Background(), userID)
}

// --- AddItem ---

func TestAddItem_UpsertOverwritesMeasureAndResetsCompleted(t *testing.T) {
	repo := &memoryShoppingRepo{}
	svc := newTestService(repo)
	ctx := asUser("user-1")

	first, err := svc.AddItem(ctx, "flour", "2 cups")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if first.Completed {
		t.Error("new item should be pending")
	}
	if _, err := svc.ToggleItem(ctx, first.ID); err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}

	second, err := svc.AddItem(ctx, "flour", "3 cups")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new record: %s != %s", second.ID, first.ID)
	}

	items, _ := svc.ListItems(ctx)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Measure != "3 cups" || items[0].Completed {
		t.Errorf("item = %+v, want measure 3 cups and completed=false", items[0])
	}
}

func TestAddItem_Unauthenticated(t *testing.T) {
	repo := &memoryShoppingRepo{}
	svc := newTestService(repo)

	_, err := svc.AddItem(context.Background(), "flour", "2 cups")
	if !model.HasCode(err, model.ErrCodeUnauthenticated) {
		t.Errorf("error = %v, want UNAUTHENTICATED", err)
	}
	if len(repo.items) != 0 {
		t.Error("nothing should be stored for anonymous caller")
	}
}

func TestAddItem_BlankIngredient_Validation(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	for _, in := range []string{"", "   ", "<b></b>"} {
		_, err := svc.AddItem(asUser("user-1"), in, "1")
		if !model.HasCode(err, model.ErrCodeValidation) {
			t.Errorf("AddItem(%q) error = %v, want VALIDATION_FAILED", in, err)
		}
	}
}

func TestAddItem_EmptyMeasureAllowed(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	item, err := svc.AddItem(asUser("user-1"), "salt", "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Measure != "" {
		t.Errorf("Measure = %q, want empty", item.Measure)
	}
}

func TestAddItem_SameIngredientDifferentUsers(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	a, _ := svc.AddItem(asUser("user-1"), "eggs", "6")
	b, _ := svc.AddItem(asUser("user-2"), "eggs", "12")
	if a.ID == b.ID {
		t.Error("items of different users must be separate records")
	}
}

// --- AddItems ---

func TestAddItems_UpsertsEachIngredient(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})
	ctx := asUser("user-1")
	svc.AddItem(ctx, "olive oil", "1 tbsp")

	items, err := svc.AddItems(ctx, []model.Ingredient{
		{Ingredient: "penne rigate", Measure: "1 pound"},
		{Ingredient: " olive oil ", Measure: "1/4 cup"},
		{Ingredient: "garlic", Measure: "3 cloves"},
	})
	if err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("returned %d items, want 3", len(items))
	}

	list, _ := svc.ListItems(ctx)
	if len(list) != 3 {
		t.Fatalf("stored %d items, want 3", len(list))
	}
	for _, it := range list {
		if it.Ingredient == "olive oil" && it.Measure != "1/4 cup" {
			t.Errorf("olive oil measure = %q, want 1/4 cup", it.Measure)
		}
	}
}

func TestAddItems_InvalidEntryRejectsWholeBatch(t *testing.T) {
	repo := &memoryShoppingRepo{}
	svc := newTestService(repo)

	_, err := svc.AddItems(asUser("user-1"), []model.Ingredient{
		{Ingredient: "penne", Measure: "1 pound"},
		{Ingredient: "  ", Measure: "1"},
	})
	if !model.HasCode(err, model.ErrCodeValidation) {
		t.Fatalf("error = %v, want VALIDATION_FAILED", err)
	}
	if len(repo.items) != 0 {
		t.Errorf("no item should be stored, got %d", len(repo.items))
	}
}

func TestAddItems_EmptyBatch(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	items, err := svc.AddItems(asUser("user-1"), nil)
	if err != nil || items == nil || len(items) != 0 {
		t.Errorf("AddItems(nil) = (%v, %v), want empty non-nil", items, err)
	}
}

func TestAddItems_RepositoryError(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{upsertManyErr: errors.New("tx aborted")})

	_, err := svc.AddItems(asUser("user-1"), []model.Ingredient{{Ingredient: "penne"}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestAddItems_Unauthenticated(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	_, err := svc.AddItems(context.Background(), []model.Ingredient{{Ingredient: "penne"}})
	if !model.HasCode(err, model.ErrCodeUnauthenticated) {
		t.Errorf("error = %v, want UNAUTHENTICATED", err)
	}
}

// 退会済みユーザーの書き込みは500ではなくUnauthenticatedになる。
func TestAdd_OwnerGone_Unauthenticated(t *testing.T) {
	gone := fmt.Errorf("買い物リスト項目のUPSERTに失敗しました: %w", repository.ErrOwnerNotFound)
	svc := newTestService(&memoryShoppingRepo{upsertErr: gone, upsertManyErr: gone})

	if _, err := svc.AddItem(asUser("user-1"), "eggs", "6"); !model.HasCode(err, model.ErrCodeUnauthenticated) {
		t.Errorf("AddItem error = %v, want UNAUTHENTICATED", err)
	}
	if _, err := svc.AddItems(asUser("user-1"), []model.Ingredient{{Ingredient: "eggs"}}); !model.HasCode(err, model.ErrCodeUnauthenticated) {
		t.Errorf("AddItems error = %v, want UNAUTHENTICATED", err)
	}
}

// --- ToggleItem ---

func TestToggleItem_TwiceRestoresOriginal(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})
	ctx := asUser("user-1")
	item, _ := svc.AddItem(ctx, "flour", "2 cups")

	once, err := svc.ToggleItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}
	if !once.Completed {
		t.Error("first toggle should complete the item")
	}
	twice, err := svc.ToggleItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}
	if twice.Completed != item.Completed {
		t.Errorf("Completed = %v after two toggles, want %v", twice.Completed, item.Completed)
	}
}

func TestToggleItem_OtherUsersItem_NotFoundAndUnchanged(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})
	item, _ := svc.AddItem(asUser("user-1"), "flour", "2 cups")

	_, err := svc.ToggleItem(asUser("user-2"), item.ID)
	if !model.HasCode(err, model.ErrCodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}

	items, _ := svc.ListItems(asUser("user-1"))
	if items[0].Completed {
		t.Error("user-1 item should be unchanged")
	}
}

func TestToggleItem_MalformedID_NotFound(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	_, err := svc.ToggleItem(asUser("user-1"), "not-a-uuid")
	if !model.HasCode(err, model.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestToggleItem_Unauthenticated(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	_, err := svc.ToggleItem(context.Background(), uuid.New().String())
	if !model.HasCode(err, model.ErrCodeUnauthenticated) {
		t.Errorf("error = %v, want UNAUTHENTICATED", err)
	}
}

// --- RemoveItem ---

func TestRemoveItem_OwnItem(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})
	ctx := asUser("user-1")
	item, _ := svc.AddItem(ctx, "flour", "2 cups")

	if err := svc.RemoveItem(ctx, item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	items, _ := svc.ListItems(ctx)
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}

	err := svc.RemoveItem(ctx, item.ID)
	if !model.HasCode(err, model.ErrCodeNotFound) {
		t.Errorf("second remove error = %v, want NOT_FOUND", err)
	}
}

func TestRemoveItem_OtherUsersItem_NotFoundAndKept(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})
	item, _ := svc.AddItem(asUser("user-1"), "flour", "2 cups")

	err := svc.RemoveItem(asUser("user-2"), item.ID)
	if !model.HasCode(err, model.ErrCodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
	items, _ := svc.ListItems(asUser("user-1"))
	if len(items) != 1 {
		t.Error("user-1 item should remain")
	}
}

func TestRemoveItem_Unauthenticated(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})

	err := svc.RemoveItem(context.Background(), uuid.New().String())
	if !model.HasCode(err, model.ErrCodeUnauthenticated) {
		t.Errorf("error = %v, want UNAUTHENTICATED", err)
	}
}

// --- ListItems ---

func TestListItems_Unauthenticated_ReturnsEmpty(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})
	svc.AddItem(asUser("user-1"), "flour", "2 cups")

	items, err := svc.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("ListItems = %v, want empty non-nil", items)
	}
}

// 同じ材料への同時追加で重複レコードが作られないことを検証する。
func TestAddItem_ConcurrentSameIngredient(t *testing.T) {
	svc := newTestService(&memoryShoppingRepo{})
	ctx := asUser("user-1")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, "flour", "2 cups"); err != nil {
				t.Errorf("AddItem: %v", err)
			}
		}()
	}
	wg.Wait()

	items, _ := svc.ListItems(ctx)
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
}
