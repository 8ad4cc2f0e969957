package service

import (
	"context"
	"errors"
	"testing"

	"bookhaven.id/bookreview/internal/bootstrap"
	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/internal/modules/user/dto"
	"bookhaven.id/bookreview/internal/modules/user/repository"
	"bookhaven.id/bookreview/pkg/apperror"
	"bookhaven.id/bookreview/pkg/auth"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// In-memory SQLite gives every connection its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func newAuthService(t *testing.T) (AuthService, *auth.TokenManager) {
	t.Helper()
	db := newTestDB(t)
	tokens := auth.NewTokenManager("test-secret")
	return NewAuthService(repository.NewUserRepository(db), tokens), tokens
}

func TestRegisterThenLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, dto.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Role != entity.RoleUser {
		t.Fatalf("expected default role %q, got %q", entity.RoleUser, reg.User.Role)
	}

	login, err := svc.Login(ctx, dto.LoginInput{
		Email:    "ana@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := tokens.Parse(login.Token)
	if err != nil {
		t.Fatalf("parse login token: %v", err)
	}
	if claims.UserID != reg.User.ID {
		t.Fatalf("token user id mismatch: %s vs %s", claims.UserID, reg.User.ID)
	}
	if claims.Role != entity.RoleUser {
		t.Fatalf("expected role claim %q, got %q", entity.RoleUser, claims.Role)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("unexpected email claim %q", claims.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	input := dto.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, input)
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, dto.LoginInput{Email: "ana@example.com", Password: "wrong-password"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}

	_, err = svc.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "password123"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error for unknown email, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, dto.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, dto.RegisterInput{Name: "Ben", Email: "ben@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register second user: %v", err)
	}

	newName := "Ana Maria"
	updated, err := svc.UpdateProfile(ctx, reg.User.ID, dto.UpdateProfileInput{Name: &newName})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Ana Maria" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	takenEmail := "ben@example.com"
	if _, err := svc.UpdateProfile(ctx, reg.User.ID, dto.UpdateProfileInput{Email: &takenEmail}); !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("expected duplicate error for taken email, got %v", err)
	}
}
