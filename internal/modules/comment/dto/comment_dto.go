package dto

type CreateCommentInput struct {
	Body string `json:"body" binding:"required,min=1"`
}
