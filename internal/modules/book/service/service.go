package service

import (
	"context"
	"errors"
	"log"

	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/internal/modules/book/dto"
	"bookhaven.id/bookreview/internal/modules/book/repository"
	commentRepo "bookhaven.id/bookreview/internal/modules/comment/repository"
	imageRepo "bookhaven.id/bookreview/internal/modules/image/repository"
	reviewRepo "bookhaven.id/bookreview/internal/modules/review/repository"
	search "bookhaven.id/bookreview/internal/modules/search/service"
	"bookhaven.id/bookreview/pkg/apperror"
	"bookhaven.id/bookreview/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookService interface {
	ListBooks(ctx context.Context, query string) ([]*entity.Book, error)
	GetBookDetail(ctx context.Context, id uuid.UUID) (*dto.BookDetailResponse, error)
	CreateBook(ctx context.Context, input dto.CreateBookInput) (*entity.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, input dto.UpdateBookInput) (*entity.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

type bookService struct {
	repo         repository.BookRepository
	reviewRepo   reviewRepo.ReviewRepository
	commentRepo  commentRepo.CommentRepository
	imageRepo    imageRepo.ImageRepository
	imageStorage storage.ImageStorage
	search       search.BookSearchService
}

func NewBookService(
	repo repository.BookRepository,
	reviewRepo reviewRepo.ReviewRepository,
	commentRepo commentRepo.CommentRepository,
	imageRepo imageRepo.ImageRepository,
	imageStorage storage.ImageStorage,
	search search.BookSearchService,
) BookService {
	return &bookService{
		repo:         repo,
		reviewRepo:   reviewRepo,
		commentRepo:  commentRepo,
		imageRepo:    imageRepo,
		imageStorage: imageStorage,
		search:       search,
	}
}

func (s *bookService) ListBooks(ctx context.Context, query string) ([]*entity.Book, error) {
	if query == "" {
		return s.repo.FindAll(ctx)
	}

	if s.search != nil {
		ids, err := s.search.SearchBooks(query)
		if err == nil {
			return s.repo.FindByIDs(ctx, ids)
		}
		log.Printf("book search via index failed, falling back to store: %v", err)
	}

	return s.repo.SearchByText(ctx, query)
}

// GetBookDetail joins a book with its reviews, each review's author and
// images, per-review comment counts, and the read-time aggregates.
func (s *bookService) GetBookDetail(ctx context.Context, id uuid.UUID) (*dto.BookDetailResponse, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("book not found")
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByBookID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewIDs := make([]uuid.UUID, len(reviews))
	for i, rv := range reviews {
		reviewIDs[i] = rv.ID
	}

	commentCounts, err := s.commentRepo.CountByReviewIDs(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}

	details := make([]dto.ReviewDetail, len(reviews))
	ratingSum := 0
	for i, rv := range reviews {
		details[i] = dto.ReviewDetail{
			Review:       rv,
			CommentCount: commentCounts[rv.ID],
		}
		ratingSum += rv.Rating
	}

	// Average defaults to 0 for a book without reviews.
	average := 0.0
	if len(reviews) > 0 {
		average = float64(ratingSum) / float64(len(reviews))
	}

	return &dto.BookDetailResponse{
		Book:          book,
		Reviews:       details,
		AverageRating: average,
		TotalReviews:  len(reviews),
	}, nil
}

func (s *bookService) CreateBook(ctx context.Context, input dto.CreateBookInput) (*entity.Book, error) {
	if input.ISBN != nil && *input.ISBN != "" {
		if _, err := s.repo.FindByISBN(ctx, *input.ISBN); err == nil {
			return nil, apperror.Duplicate("isbn already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	book := &entity.Book{
		Title:       input.Title,
		Author:      input.Author,
		ISBN:        input.ISBN,
		Description: input.Description,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.indexBook(book)

	return book, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id uuid.UUID, input dto.UpdateBookInput) (*entity.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("book not found")
		}
		return nil, err
	}

	if input.ISBN != nil && *input.ISBN != "" && (book.ISBN == nil || *input.ISBN != *book.ISBN) {
		if _, err := s.repo.FindByISBN(ctx, *input.ISBN); err == nil {
			return nil, apperror.Duplicate("isbn already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		book.ISBN = input.ISBN
	}

	if input.Title != nil && *input.Title != "" {
		book.Title = *input.Title
	}
	if input.Author != nil && *input.Author != "" {
		book.Author = *input.Author
	}
	if input.Description != nil {
		book.Description = *input.Description
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.indexBook(book)

	return book, nil
}

// DeleteBook removes the catalog row; reviews, comments and images go with
// it through the store's cascade constraints. Image blobs live outside the
// store, so those are cleared first.
func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("book not found")
		}
		return err
	}

	images, err := s.imageRepo.FindByBookID(ctx, id)
	if err != nil {
		return err
	}
	for _, img := range images {
		if s.imageStorage != nil {
			if err := s.imageStorage.DeleteImage(ctx, img.URL); err != nil {
				log.Printf("failed to delete image blob %s: %v", img.URL, err)
			}
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteBook(id); err != nil {
			log.Printf("failed to remove book %s from search index: %v", id, err)
		}
	}

	return nil
}

func (s *bookService) indexBook(book *entity.Book) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexBook(book); err != nil {
		log.Printf("failed to index book %s: %v", book.ID, err)
	}
}
