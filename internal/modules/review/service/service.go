package service

import (
	"context"
	"errors"
	"log"

	bookRepo "bookhaven.id/bookreview/internal/modules/book/repository"
	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/internal/modules/review/dto"
	"bookhaven.id/bookreview/internal/modules/review/repository"
	"bookhaven.id/bookreview/internal/policy"
	"bookhaven.id/bookreview/pkg/apperror"
	"bookhaven.id/bookreview/pkg/auth"
	"bookhaven.id/bookreview/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(ctx context.Context, claims *auth.Claims, bookID uuid.UUID, input dto.CreateReviewInput) (*entity.Review, error)
	UpdateReview(ctx context.Context, claims *auth.Claims, id uuid.UUID, input dto.UpdateReviewInput) (*entity.Review, error)
	DeleteReview(ctx context.Context, claims *auth.Claims, id uuid.UUID) error
	CountReviews(ctx context.Context) (int64, error)
}

type reviewService struct {
	repo         repository.ReviewRepository
	bookRepo     bookRepo.BookRepository
	imageStorage storage.ImageStorage
}

func NewReviewService(repo repository.ReviewRepository, bookRepo bookRepo.BookRepository, imageStorage storage.ImageStorage) ReviewService {
	return &reviewService{
		repo:         repo,
		bookRepo:     bookRepo,
		imageStorage: imageStorage,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, claims *auth.Claims, bookID uuid.UUID, input dto.CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("book not found")
		}
		return nil, err
	}

	// One review per user per book; the composite unique index catches the
	// concurrent-writer race this check cannot.
	exists, err := s.repo.ExistsByUserAndBook(ctx, claims.UserID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate("you have already reviewed this book")
	}

	review := &entity.Review{
		BookID: bookID,
		UserID: claims.UserID,
		Rating: input.Rating,
		Body:   input.Body,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, claims *auth.Claims, id uuid.UUID, input dto.UpdateReviewInput) (*entity.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, err
	}

	if !policy.CanModify(claims, review.UserID) {
		return nil, apperror.Forbidden("you can only update your own review")
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, apperror.InvalidInput("rating must be between 1 and 5")
		}
		review.Rating = *input.Rating
	}
	if input.Body != nil {
		review.Body = *input.Body
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview clears the review's image blobs, then deletes the row; the
// store cascades comments and image rows.
func (s *reviewService) DeleteReview(ctx context.Context, claims *auth.Claims, id uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("review not found")
		}
		return err
	}

	if !policy.CanModify(claims, review.UserID) {
		return apperror.Forbidden("you can only delete your own review unless you are an admin")
	}

	for _, img := range review.Images {
		if s.imageStorage != nil {
			if err := s.imageStorage.DeleteImage(ctx, img.URL); err != nil {
				log.Printf("failed to delete image blob %s: %v", img.URL, err)
			}
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *reviewService) CountReviews(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
