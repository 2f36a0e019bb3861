package models

import (
	"io"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Movie struct {
	ID             string  `gorm:"primaryKey;type:varchar(36)" json:"id" example:"665f1c2ab3d4e5f6a7b8c9d0"`
	Title          string  `gorm:"not null;size:200;index" json:"title" example:"Spiderman"`
	Genre          *string `gorm:"size:100;index" json:"genre" example:"Action"`
	Rating         *int    `gorm:"index" json:"rating" example:"4"`
	PosterImage    *string `json:"posterImage" example:"https://pub.example.r2.dev/spiderman_20240101120000_ab12cd34.jpg"`
	PosterImageKey *string `json:"-"`
}

func (Movie) TableName() string {
	return "movies"
}

// BeforeCreate assigns the record id for stores that do not generate one.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// SameContent reports whether both movies would be persisted identically.
func (m *Movie) SameContent(other *Movie) bool {
	return m.ID == other.ID &&
		m.Title == other.Title &&
		equalPtr(m.Genre, other.Genre) &&
		equalPtr(m.Rating, other.Rating) &&
		equalPtr(m.PosterImage, other.PosterImage) &&
		equalPtr(m.PosterImageKey, other.PosterImageKey)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type MovieSortBy string

const (
	SortByTitle  MovieSortBy = "Title"
	SortByRating MovieSortBy = "Rating"
)

type SortDirection string

const (
	SortAscending  SortDirection = "Ascending"
	SortDescending SortDirection = "Descending"
)

// MovieQuery describes one page of a filtered, ordered movie listing.
// Page and PageSize are validated by the caller.
type MovieQuery struct {
	SearchTerm    string
	Genre         string
	Page          int
	PageSize      int
	SortBy        MovieSortBy
	SortDirection SortDirection
}

func (q MovieQuery) Skip() int {
	return (q.Page - 1) * q.PageSize
}

// SkipInRange reports whether Skip fits in an int for a positive page and page size.
func (q MovieQuery) SkipInRange() bool {
	if q.Page < 1 || q.PageSize < 1 {
		return false
	}
	return q.Page-1 <= math.MaxInt/q.PageSize
}

func (q MovieQuery) Descending() bool {
	return q.SortDirection == SortDescending
}

// PosterFile is an uploaded image waiting to be written to the asset store.
type PosterFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}
