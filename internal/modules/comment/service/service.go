package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/internal/modules/comment/dto"
	"bookhaven.id/bookreview/internal/modules/comment/repository"
	notification "bookhaven.id/bookreview/internal/modules/notification/service"
	reviewRepo "bookhaven.id/bookreview/internal/modules/review/repository"
	"bookhaven.id/bookreview/internal/policy"
	"bookhaven.id/bookreview/pkg/apperror"
	"bookhaven.id/bookreview/pkg/auth"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(ctx context.Context, claims *auth.Claims, reviewID uuid.UUID, input dto.CreateCommentInput) (*entity.Comment, error)
	GetCommentsByReview(ctx context.Context, reviewID uuid.UUID) ([]entity.Comment, error)
	DeleteComment(ctx context.Context, claims *auth.Claims, id uuid.UUID) error
}

type commentService struct {
	repo          repository.CommentRepository
	reviewRepo    reviewRepo.ReviewRepository
	notifications notification.NotificationService
}

func NewCommentService(repo repository.CommentRepository, reviewRepo reviewRepo.ReviewRepository, notifications notification.NotificationService) CommentService {
	return &commentService{
		repo:          repo,
		reviewRepo:    reviewRepo,
		notifications: notifications,
	}
}

func (s *commentService) CreateComment(ctx context.Context, claims *auth.Claims, reviewID uuid.UUID, input dto.CreateCommentInput) (*entity.Comment, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, apperror.InvalidInput("comment body must not be empty")
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, err
	}

	comment := &entity.Comment{
		ReviewID: reviewID,
		UserID:   claims.UserID,
		Body:     input.Body,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Notify the review owner, unless they are commenting on their own review.
	if s.notifications != nil && review.UserID != claims.UserID {
		notif := &entity.Notification{
			UserID:   review.UserID,
			ActorID:  claims.UserID,
			ReviewID: reviewID,
			Message:  fmt.Sprintf("%s commented on your review", claims.Name),
		}
		if err := s.notifications.CreateNotification(ctx, notif); err != nil {
			log.Printf("failed to create comment notification: %v", err)
		}
	}

	return comment, nil
}

func (s *commentService) GetCommentsByReview(ctx context.Context, reviewID uuid.UUID) ([]entity.Comment, error) {
	if _, err := s.reviewRepo.FindByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review not found")
		}
		return nil, err
	}

	return s.repo.FindByReviewID(ctx, reviewID)
}

func (s *commentService) DeleteComment(ctx context.Context, claims *auth.Claims, id uuid.UUID) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("comment not found")
		}
		return err
	}

	if !policy.CanModify(claims, comment.UserID) {
		return apperror.Forbidden("you can only delete your own comment unless you are an admin")
	}

	return s.repo.Delete(ctx, id)
}
