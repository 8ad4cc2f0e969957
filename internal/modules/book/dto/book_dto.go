package dto

import "bookhaven.id/bookreview/internal/entity"

type CreateBookInput struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Author      string  `json:"author" binding:"required,max=255"`
	ISBN        *string `json:"isbn,omitempty" binding:"omitempty,min=10,max=20"`
	Description string  `json:"description"`
}

type UpdateBookInput struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Author      *string `json:"author,omitempty" binding:"omitempty,max=255"`
	ISBN        *string `json:"isbn,omitempty" binding:"omitempty,min=10,max=20"`
	Description *string `json:"description,omitempty"`
}

// ReviewDetail is a review joined with its author, images and comment count
// for the book detail payload.
type ReviewDetail struct {
	entity.Review
	CommentCount int64 `json:"comment_count"`
}

type BookDetailResponse struct {
	Book          *entity.Book   `json:"book"`
	Reviews       []ReviewDetail `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
	TotalReviews  int            `json:"total_reviews"`
}
