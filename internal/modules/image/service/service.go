package service

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/internal/modules/image/repository"
	reviewRepo "bookhaven.id/bookreview/internal/modules/review/repository"
	"bookhaven.id/bookreview/internal/policy"
	"bookhaven.id/bookreview/pkg/apperror"
	"bookhaven.id/bookreview/pkg/auth"
	"bookhaven.id/bookreview/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageService interface {
	UploadImage(ctx context.Context, claims *auth.Claims, reviewID uuid.UUID, file *multipart.FileHeader, displayName string) (*entity.Image, error)
	GetImagesByReview(ctx context.Context, reviewID uuid.UUID) ([]entity.Image, error)
	DeleteImage(ctx context.Context, claims *auth.Claims, id uuid.UUID) error
}

type imageService struct {
	repo         repository.ImageRepository
	reviewRepo   reviewRepo.ReviewRepository
	imageStorage storage.ImageStorage
}

func NewImageService(repo repository.ImageRepository, reviewRepo reviewRepo.ReviewRepository, imageStorage storage.ImageStorage) ImageService {
	return &imageService{
		repo:         repo,
		reviewRepo:   reviewRepo,
		imageStorage: imageStorage,
	}
}

// UploadImage attaches an image to a review. Only the review's owner (or an
// admin) may attach; ownership lives on the review, not the image row.
func (s *imageService) UploadImage(ctx context.Context, claims *auth.Claims, reviewID uuid.UUID, file *multipart.FileHeader, displayName string) (*entity.Image, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, err
	}

	if !policy.CanModify(claims, review.UserID) {
		return nil, apperror.Forbidden("you can only attach images to your own review")
	}

	if s.imageStorage == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "image storage is not configured", apperror.ErrInternal)
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.imageStorage.UploadImage(ctx, f, "reviews", file.Filename)
	if err != nil {
		return nil, err
	}

	image := &entity.Image{
		ReviewID:    reviewID,
		URL:         url,
		DisplayName: displayName,
	}

	if err := s.repo.Create(ctx, image); err != nil {
		return nil, err
	}

	return image, nil
}

func (s *imageService) GetImagesByReview(ctx context.Context, reviewID uuid.UUID) ([]entity.Image, error) {
	if _, err := s.reviewRepo.FindByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, err
	}

	return s.repo.FindByReviewID(ctx, reviewID)
}

// DeleteImage derives ownership through the parent review.
func (s *imageService) DeleteImage(ctx context.Context, claims *auth.Claims, id uuid.UUID) error {
	image, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("image not found")
		}
		return err
	}

	review, err := s.reviewRepo.FindByID(ctx, image.ReviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("review not found")
		}
		return err
	}

	if !policy.CanModify(claims, review.UserID) {
		return apperror.Forbidden("you can only delete images on your own review")
	}

	if s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, image.URL); err != nil {
			log.Printf("failed to delete image blob %s: %v", image.URL, err)
		}
	}

	return s.repo.Delete(ctx, id)
}
