package handler

import (
	"net/http"

	"bookhaven.id/bookreview/internal/modules/book/dto"
	book "bookhaven.id/bookreview/internal/modules/book/service"
	"bookhaven.id/bookreview/pkg/response"
	"bookhaven.id/bookreview/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	service book.BookService
}

func NewBookHandler(service book.BookService) *BookHandler {
	return &BookHandler{service: service}
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *BookHandler) GetBookDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	detail, err := h.service.GetBookDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	var input dto.CreateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.CreateBook(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "book created",
		"id":      created.ID,
		"book":    created,
	})
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var input dto.UpdateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.service.UpdateBook(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "book updated",
		"book":    updated,
	})
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}
