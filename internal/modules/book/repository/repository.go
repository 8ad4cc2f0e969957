package repository

import (
	"context"

	"bookhaven.id/bookreview/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	FindAll(ctx context.Context) ([]*entity.Book, error)
	SearchByText(ctx context.Context, query string) ([]*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var book entity.Book
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&book).Error; err != nil {
		return nil, err
	}

	return &book, nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Book, error) {
	var books []*entity.Book
	if len(ids) == 0 {
		return books, nil
	}

	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&books).Error; err != nil {
		return nil, err
	}

	return books, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	var book entity.Book
	if err := r.db.WithContext(ctx).
		Where("isbn = ?", isbn).
		First(&book).Error; err != nil {
		return nil, err
	}

	return &book, nil
}

func (r *bookRepository) FindAll(ctx context.Context) ([]*entity.Book, error) {
	var books []*entity.Book
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&books).Error; err != nil {
		return nil, err
	}

	return books, nil
}

func (r *bookRepository) SearchByText(ctx context.Context, query string) ([]*entity.Book, error) {
	var books []*entity.Book
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("title LIKE ? OR author LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&books).Error; err != nil {
		return nil, err
	}

	return books, nil
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Book{}, "id = ?", id).Error
}
