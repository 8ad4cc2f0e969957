package handler

import (
	"net/http"

	"bookhaven.id/bookreview/internal/modules/review/dto"
	review "bookhaven.id/bookreview/internal/modules/review/service"
	"bookhaven.id/bookreview/pkg/response"
	"bookhaven.id/bookreview/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var input dto.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.service.CreateReview(c.Request.Context(), claims, bookID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "review created",
		"id":      created.ID,
		"review":  created,
	})
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var input dto.UpdateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.service.UpdateReview(c.Request.Context(), claims, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "review updated",
		"review":  updated,
	})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), claims, id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// CountReviews serves the admin dashboard total.
func (h *ReviewHandler) CountReviews(c *gin.Context) {
	count, err := h.service.CountReviews(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
