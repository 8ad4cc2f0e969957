package repository

import (
	"context"

	"bookhaven.id/bookreview/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByReviewID(ctx context.Context, reviewID uuid.UUID) ([]entity.Comment, error)
	CountByReviewIDs(ctx context.Context, reviewIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepository) FindByReviewID(ctx context.Context, reviewID uuid.UUID) ([]entity.Comment, error) {
	var comments []entity.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}

// CountByReviewIDs returns comment counts grouped by review, one round trip
// for the whole book detail page.
func (r *commentRepository) CountByReviewIDs(ctx context.Context, reviewIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ReviewID uuid.UUID
		Total    int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Select("review_id, COUNT(*) AS total").
		Where("review_id IN ?", reviewIDs).
		Group("review_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, rw := range rows {
		counts[rw.ReviewID] = rw.Total
	}

	return counts, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Comment{}, "id = ?", id).Error
}
