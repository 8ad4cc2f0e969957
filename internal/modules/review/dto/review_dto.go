package dto

type CreateReviewInput struct {
	Rating int    `json:"rating" binding:"required,gte=1,lte=5"`
	Body   string `json:"body"`
}

type UpdateReviewInput struct {
	Rating *int    `json:"rating,omitempty" binding:"omitempty,gte=1,lte=5"`
	Body   *string `json:"body,omitempty"`
}
