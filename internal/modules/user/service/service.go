package service

import (
	"context"
	"errors"
	"net/http"

	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/internal/modules/user/dto"
	"bookhaven.id/bookreview/internal/modules/user/repository"
	"bookhaven.id/bookreview/pkg/apperror"
	"bookhaven.id/bookreview/pkg/auth"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*entity.User, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(repo repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	// Email uniqueness is pre-checked; the DB unique index backs it up
	// under concurrent registration.
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Duplicate("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	if input.Email != nil && *input.Email != "" && *input.Email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, *input.Email); err == nil {
			return nil, apperror.Duplicate("email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *input.Email
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}
