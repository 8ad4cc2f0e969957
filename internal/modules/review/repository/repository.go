package repository

import (
	"context"

	"bookhaven.id/bookreview/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByBookID(ctx context.Context, bookID uuid.UUID) ([]entity.Review, error)
	ExistsByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&review).Error; err != nil {
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepository) FindByBookID(ctx context.Context, bookID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) ExistsByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Review{}, "id = ?", id).Error
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Review{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
