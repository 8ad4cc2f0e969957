package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is unique per (user, book); the composite index backs the
// application-level duplicate check under concurrent writers.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_book" json:"book_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_book" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User     User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Images   []Image   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Image carries no owner column; ownership is derived from the parent
// review's UserID.
type Image struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID    uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	DisplayName string    `gorm:"size:255" json:"display_name,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
