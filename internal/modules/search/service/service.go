package service

import (
	"encoding/json"
	"log"

	"bookhaven.id/bookreview/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

const booksIndex = "books"

// BookSearchService keeps the Meilisearch catalog index in sync with the
// store. Index writes are best-effort: the store row is the source of truth.
type BookSearchService interface {
	IndexBook(book *entity.Book) error
	DeleteBook(id uuid.UUID) error
	SearchBooks(query string) ([]uuid.UUID, error)
}

type bookSearchService struct {
	client meilisearch.ServiceManager
}

func NewBookSearchService(client meilisearch.ServiceManager) BookSearchService {
	s := &bookSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *bookSearchService) initIndexes() {
	searchableAttrs := []string{"title", "author", "isbn", "description"}
	if _, err := s.client.Index(booksIndex).UpdateSearchableAttributes(&searchableAttrs); err != nil {
		log.Printf("Failed to update books searchable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	if _, err := s.client.Index(booksIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update books sortable attributes: %v", err)
	}
}

type bookDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *bookSearchService) IndexBook(book *entity.Book) error {
	doc := bookDocument{
		ID:          book.ID.String(),
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		CreatedAt:   book.CreatedAt.Unix(),
	}
	if book.ISBN != nil {
		doc.ISBN = *book.ISBN
	}

	_, err := s.client.Index(booksIndex).AddDocuments([]bookDocument{doc}, strPtr("id"))
	return err
}

func strPtr(s string) *string {
	return &s
}

func (s *bookSearchService) DeleteBook(id uuid.UUID) error {
	_, err := s.client.Index(booksIndex).DeleteDocument(id.String())
	return err
}

func (s *bookSearchService) SearchBooks(query string) ([]uuid.UUID, error) {
	resp, err := s.client.Index(booksIndex).Search(query, &meilisearch.SearchRequest{
		Limit: 50,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc bookDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}
