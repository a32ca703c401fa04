package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/recipebox/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
	deleteFn   func(ctx context.Context, id string) (bool, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error {
	return nil
}
func (m *mockUserRepo) DeleteWithPersonalData(ctx context.Context, id string) (bool, error) {
	return m.deleteFn(ctx, id)
}

func existingUser(ctx context.Context, id string) (*model.User, error) {
	return &model.User{ID: id, Email: "test@example.com"}, nil
}

// --- テスト ---

// TestService_Withdraw は退会処理が個人データの一括削除を1回だけ呼ぶことを検証する。
func TestService_Withdraw(t *testing.T) {
	var calls []string
	userRepo := &mockUserRepo{
		findByIDFn: existingUser,
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			calls = append(calls, id)
			return true, nil
		},
	}
	svc := NewService(userRepo)

	if err := svc.Withdraw(context.Background(), "user-1"); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if len(calls) != 1 || calls[0] != "user-1" {
		t.Errorf("DeleteWithPersonalData calls = %v, want [user-1]", calls)
	}
}

// TestService_Withdraw_UserNotFound は存在しないユーザーの退会がエラーになることを検証する。
func TestService_Withdraw_UserNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			t.Error("DeleteWithPersonalData should not be called")
			return false, nil
		},
	}

	svc := NewService(userRepo)

	err := svc.Withdraw(context.Background(), "nonexistent-user")
	if !model.HasCode(err, model.ErrCodeUserNotFound) {
		t.Fatalf("error = %v, want USER_NOT_FOUND", err)
	}
}

// 取得後に別リクエストで削除されていた場合もUserNotFoundを返す。
func TestService_Withdraw_DeletedConcurrently(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: existingUser,
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}

	err := NewService(userRepo).Withdraw(context.Background(), "user-1")
	if !model.HasCode(err, model.ErrCodeUserNotFound) {
		t.Fatalf("error = %v, want USER_NOT_FOUND", err)
	}
}

// 削除に失敗した場合はインフラエラーとして返し、APIErrorにはしない。
func TestService_Withdraw_DeleteError(t *testing.T) {
	dbErr := errors.New("db down")
	userRepo := &mockUserRepo{
		findByIDFn: existingUser,
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return false, dbErr
		},
	}

	err := NewService(userRepo).Withdraw(context.Background(), "user-1")
	if !errors.Is(err, dbErr) {
		t.Fatalf("error = %v, want wrapped db error", err)
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("infrastructure error should not be an APIError: %v", err)
	}
}
