package repository

import (
	"context"

	"bookhaven.id/bookreview/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(ctx context.Context, image *entity.Image) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Image, error)
	FindByReviewID(ctx context.Context, reviewID uuid.UUID) ([]entity.Image, error)
	FindByBookID(ctx context.Context, bookID uuid.UUID) ([]entity.Image, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *entity.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Image, error) {
	var image entity.Image
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&image).Error; err != nil {
		return nil, err
	}

	return &image, nil
}

func (r *imageRepository) FindByReviewID(ctx context.Context, reviewID uuid.UUID) ([]entity.Image, error) {
	var images []entity.Image
	if err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}

	return images, nil
}

// FindByBookID collects every image hanging off a book's reviews, used to
// clear blob storage before a catalog delete cascades.
func (r *imageRepository) FindByBookID(ctx context.Context, bookID uuid.UUID) ([]entity.Image, error) {
	var images []entity.Image
	if err := r.db.WithContext(ctx).
		Joins("JOIN reviews ON reviews.id = images.review_id").
		Where("reviews.book_id = ?", bookID).
		Find(&images).Error; err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Image{}, "id = ?", id).Error
}
