// Package store persists scraped articles. Backends share one interface so
// the ingest pipeline and the API are indifferent to whether articles land
// in SQLite, Postgres, MongoDB, or memory.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"papuanews/internal/config"
	"papuanews/internal/types"
)

// StoredArticle is an article row as persisted. SourceURL is the unique
// identity key used for deduplication across ingest runs.
type StoredArticle struct {
	ID         uint       `gorm:"primaryKey" json:"id" bson:"id,omitempty"`
	Title      string     `gorm:"size:500;not null" json:"title" bson:"title"`
	Summary    string     `gorm:"type:text" json:"summary" bson:"summary"`
	Content    string     `gorm:"type:text" json:"content,omitempty" bson:"content,omitempty"`
	ImageURL   string     `gorm:"size:2000" json:"image_url" bson:"image_url"`
	SourceURL  string     `gorm:"size:2000;uniqueIndex;not null" json:"source_url" bson:"source_url"`
	SourceName string     `gorm:"size:255" json:"source_name" bson:"source_name"`
	Category   string     `gorm:"size:255;index" json:"category" bson:"category"`
	Region     string     `gorm:"size:64;index" json:"region" bson:"region"`
	Published  *time.Time `json:"published_at" bson:"published_at"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

// FromArticle converts a scraped article into its persisted form.
func FromArticle(a types.Article) StoredArticle {
	row := StoredArticle{
		Title:      a.Title,
		Summary:    a.Description,
		ImageURL:   a.ImageURL,
		SourceURL:  a.URL,
		SourceName: a.Source,
		Category:   a.Category,
		Region:     a.Region,
	}
	if !a.PublishedAt.IsZero() {
		t := a.PublishedAt
		row.Published = &t
	}
	return row
}

// ListFilter narrows List results. Zero values mean no constraint.
type ListFilter struct {
	Region   string
	Category string
	Limit    int
	Offset   int
}

// Store is the persistence surface used by ingest and the API.
type Store interface {
	// FindBySourceURL returns the stored article with the given source
	// URL, or types.ErrNotFound when none exists.
	FindBySourceURL(ctx context.Context, url string) (*StoredArticle, error)

	// FindByID returns the stored article with the given primary key, or
	// types.ErrNotFound when none exists.
	FindByID(ctx context.Context, id uint) (*StoredArticle, error)

	// Insert persists a new article and fills in its ID.
	Insert(ctx context.Context, a *StoredArticle) error

	// UpdateFields patches the named fields of the article with the given
	// source URL. Only the keys present in fields are touched.
	UpdateFields(ctx context.Context, url string, fields map[string]any) error

	// List returns stored articles newest first.
	List(ctx context.Context, filter ListFilter) ([]StoredArticle, error)

	// Count returns the number of stored articles matching the filter.
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the backend identifier.
	Name() string
}

// Open constructs the backend named by the configuration.
func Open(cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "postgres":
		return OpenGorm(cfg, logger)
	case "mongo":
		return OpenMongo(cfg, logger)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
}
