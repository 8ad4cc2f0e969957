package service

import (
	"context"
	"errors"
	"testing"

	"bookhaven.id/bookreview/internal/bootstrap"
	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/internal/modules/book/dto"
	"bookhaven.id/bookreview/internal/modules/book/repository"
	commentRepo "bookhaven.id/bookreview/internal/modules/comment/repository"
	imageRepo "bookhaven.id/bookreview/internal/modules/image/repository"
	reviewRepo "bookhaven.id/bookreview/internal/modules/review/repository"
	"bookhaven.id/bookreview/pkg/apperror"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func newBookService(db *gorm.DB) BookService {
	return NewBookService(
		repository.NewBookRepository(db),
		reviewRepo.NewReviewRepository(db),
		commentRepo.NewCommentRepository(db),
		imageRepo.NewImageRepository(db),
		nil,
		nil,
	)
}

func seedUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	user := &entity.User{
		Name:         "User " + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
		Role:         entity.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestGetBookDetailUnknownBook(t *testing.T) {
	svc := newBookService(newTestDB(t))

	_, err := svc.GetBookDetail(context.Background(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetBookDetailNoReviews(t *testing.T) {
	db := newTestDB(t)
	svc := newBookService(db)

	book, err := svc.CreateBook(context.Background(), dto.CreateBookInput{Title: "Empty Shelf", Author: "Nobody"})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	detail, err := svc.GetBookDetail(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.AverageRating != 0 {
		t.Fatalf("expected average 0 for no reviews, got %f", detail.AverageRating)
	}
	if detail.TotalReviews != 0 || len(detail.Reviews) != 0 {
		t.Fatalf("expected empty review list, got %+v", detail)
	}
}

func TestGetBookDetailAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := newBookService(db)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, dto.CreateBookInput{Title: "Aggregates", Author: "Mean"})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	var firstReview entity.Review
	for i, rating := range []int{5, 3, 4} {
		user := seedUser(t, db)
		review := entity.Review{BookID: book.ID, UserID: user.ID, Rating: rating}
		if err := db.Create(&review).Error; err != nil {
			t.Fatalf("seed review: %v", err)
		}
		if i == 0 {
			firstReview = review
		}
	}

	// Two comments on the first review, none on the others.
	commenter := seedUser(t, db)
	for _, body := range []string{"agree", "well said"} {
		if err := db.Create(&entity.Comment{ReviewID: firstReview.ID, UserID: commenter.ID, Body: body}).Error; err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}
	if err := db.Create(&entity.Image{ReviewID: firstReview.ID, URL: "https://img.example/cover.webp"}).Error; err != nil {
		t.Fatalf("seed image: %v", err)
	}

	detail, err := svc.GetBookDetail(ctx, book.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}

	if detail.AverageRating != 4.0 {
		t.Fatalf("expected average 4.0, got %f", detail.AverageRating)
	}
	if detail.TotalReviews != 3 || len(detail.Reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", detail.TotalReviews)
	}

	for _, rv := range detail.Reviews {
		if rv.User.ID != rv.UserID {
			t.Fatalf("expected author preloaded for review %s", rv.ID)
		}
		if rv.ID == firstReview.ID {
			if rv.CommentCount != 2 {
				t.Fatalf("expected 2 comments on first review, got %d", rv.CommentCount)
			}
			if len(rv.Images) != 1 {
				t.Fatalf("expected 1 image on first review, got %d", len(rv.Images))
			}
		} else if rv.CommentCount != 0 {
			t.Fatalf("expected 0 comments on review %s, got %d", rv.ID, rv.CommentCount)
		}
	}
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	svc := newBookService(newTestDB(t))
	ctx := context.Background()

	isbn := "9780134190440"
	if _, err := svc.CreateBook(ctx, dto.CreateBookInput{Title: "First", Author: "A", ISBN: &isbn}); err != nil {
		t.Fatalf("create book: %v", err)
	}

	_, err := svc.CreateBook(ctx, dto.CreateBookInput{Title: "Second", Author: "B", ISBN: &isbn})
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("expected duplicate isbn error, got %v", err)
	}

	// Books without an ISBN are unconstrained.
	if _, err := svc.CreateBook(ctx, dto.CreateBookInput{Title: "Third", Author: "C"}); err != nil {
		t.Fatalf("create book without isbn: %v", err)
	}
	if _, err := svc.CreateBook(ctx, dto.CreateBookInput{Title: "Fourth", Author: "D"}); err != nil {
		t.Fatalf("create second book without isbn: %v", err)
	}
}

func TestListBooksSearchFallback(t *testing.T) {
	db := newTestDB(t)
	svc := newBookService(db)
	ctx := context.Background()

	for _, title := range []string{"Learning Go", "The Rust Book", "Go in Action"} {
		if _, err := svc.CreateBook(ctx, dto.CreateBookInput{Title: title, Author: "Various"}); err != nil {
			t.Fatalf("create book: %v", err)
		}
	}

	all, err := svc.ListBooks(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 books, got %d", len(all))
	}

	// Without a search index configured the service falls back to the store.
	matched, err := svc.ListBooks(ctx, "Go")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "Go", len(matched))
	}
}

func TestDeleteBookCascades(t *testing.T) {
	db := newTestDB(t)
	svc := newBookService(db)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, dto.CreateBookInput{Title: "Doomed", Author: "Cascade"})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	reviewer := seedUser(t, db)
	review := entity.Review{BookID: book.ID, UserID: reviewer.ID, Rating: 4}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}
	if err := db.Create(&entity.Comment{ReviewID: review.ID, UserID: reviewer.ID, Body: "mine"}).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	if err := db.Create(&entity.Image{ReviewID: review.ID, URL: "https://img.example/x.webp"}).Error; err != nil {
		t.Fatalf("seed image: %v", err)
	}

	if err := svc.DeleteBook(ctx, book.ID); err != nil {
		t.Fatalf("delete book: %v", err)
	}

	var reviews, comments, images int64
	if err := db.Model(&entity.Review{}).Where("book_id = ?", book.ID).Count(&reviews).Error; err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if err := db.Model(&entity.Comment{}).Where("review_id = ?", review.ID).Count(&comments).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if err := db.Model(&entity.Image{}).Where("review_id = ?", review.ID).Count(&images).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}
	if reviews != 0 || comments != 0 || images != 0 {
		t.Fatalf("expected cascade delete, got %d reviews, %d comments, %d images", reviews, comments, images)
	}

	if _, err := svc.GetBookDetail(ctx, book.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if err := svc.DeleteBook(ctx, book.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
