package handler

import (
	"net/http"

	image "bookhaven.id/bookreview/internal/modules/image/service"
	"bookhaven.id/bookreview/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImageHandler struct {
	service image.ImageService
}

func NewImageHandler(service image.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// UploadImage expects a multipart form with a "file" part and an optional
// "display_name" field.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	uploaded, err := h.service.UploadImage(c.Request.Context(), claims, reviewID, file, c.PostForm("display_name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "image uploaded",
		"id":      uploaded.ID,
		"image":   uploaded,
	})
}

func (h *ImageHandler) GetImagesByReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	images, err := h.service.GetImagesByReview(c.Request.Context(), reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), claims, id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
