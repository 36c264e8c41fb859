package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/utils"
)

type memAdminStore struct {
	users   map[string]*models.AdminUser
	touched []int64
}

func (m *memAdminStore) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memAdminStore) Create(_ context.Context, user *models.AdminUser) error {
	user.ID = int64(len(m.users) + 1)
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *memAdminStore) TouchLastLogin(_ context.Context, id int64) error {
	m.touched = append(m.touched, id)
	return nil
}

func TestAdminAuthService_Login(t *testing.T) {
	store := &memAdminStore{users: map[string]*models.AdminUser{}}
	jwt := utils.NewJWTManager("secret", 0)
	svc := NewAdminAuthService(store, jwt)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Ops@Example.com", "correct horse", "Ops"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "ops@example.com", "other password", "Ops"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected one operator, got %d", len(store.users))
	}

	res, err := svc.Login(ctx, "ops@example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := jwt.ValidateJWT(res.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Email != "ops@example.com" || claims.UserID != res.User.ID {
		t.Errorf("unexpected claims %+v", claims)
	}
	if len(store.touched) != 1 {
		t.Errorf("expected last login recorded")
	}

	for _, tc := range []struct{ email, password string }{
		{"ops@example.com", "wrong"},
		{"nobody@example.com", "correct horse"},
	} {
		if _, err := svc.Login(ctx, tc.email, tc.password); !errors.Is(err, utils.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", tc.email, err)
		}
	}

	store.users["ops@example.com"].IsActive = false
	if _, err := svc.Login(ctx, "ops@example.com", "correct horse"); !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Errorf("expected inactive operator rejected, got %v", err)
	}
}

func TestAdminAuthService_ShortPassword(t *testing.T) {
	svc := NewAdminAuthService(&memAdminStore{users: map[string]*models.AdminUser{}}, utils.NewJWTManager("secret", 0))
	if _, err := svc.CreateAdmin(context.Background(), "a@b.c", "short", "A"); err == nil {
		t.Error("expected error for short password")
	}
}
