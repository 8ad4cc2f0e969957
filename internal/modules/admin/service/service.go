package service

import (
	"context"
	"errors"

	"bookhaven.id/bookreview/internal/entity"
	userRepo "bookhaven.id/bookreview/internal/modules/user/repository"
	"bookhaven.id/bookreview/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService interface {
	GetAllUsers(ctx context.Context) ([]*entity.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CountUsers(ctx context.Context) (int64, error)
}

type adminService struct {
	userRepo userRepo.UserRepository
}

func NewAdminService(userRepo userRepo.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	return s.userRepo.Delete(ctx, id)
}

func (s *adminService) CountUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
