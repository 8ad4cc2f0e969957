package handler

import (
	"net/http"

	"bookhaven.id/bookreview/internal/modules/comment/dto"
	comment "bookhaven.id/bookreview/internal/modules/comment/service"
	"bookhaven.id/bookreview/pkg/response"
	"bookhaven.id/bookreview/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var input dto.CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.service.CreateComment(c.Request.Context(), claims, reviewID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "comment created",
		"id":      created.ID,
		"comment": created,
	})
}

func (h *CommentHandler) GetCommentsByReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	comments, err := h.service.GetCommentsByReview(c.Request.Context(), reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), claims, id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
