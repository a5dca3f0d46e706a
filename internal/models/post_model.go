package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID              int64          `db:"id" json:"id"`
	UserID          int64          `db:"user_id" json:"user_id"`
	LibraryID       sql.NullInt64  `db:"library_id" json:"library_id"`
	Content         string         `db:"content" json:"content"`
	Platforms       pq.StringArray `db:"platforms" json:"platforms"`
	Status          string         `db:"status" json:"status"` // draft, scheduled, published, failed
	ScheduledAt     sql.NullTime   `db:"scheduled_at" json:"scheduled_at"`
	PublishedAt     sql.NullTime   `db:"published_at" json:"published_at"`
	LastPublishedAt sql.NullTime   `db:"last_published_at" json:"last_published_at"`
	IsEvergreen     bool           `db:"is_evergreen" json:"is_evergreen"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	FileName     string    `db:"file_name"`
	FileType     string    `db:"file_type"`
	FileSize     int64     `db:"file_size"`
	FileURL      string    `db:"file_url"`
	ThumbnailURL string    `db:"thumbnail_url"`
	CreatedAt    time.Time `db:"created_at"`
}

type PostMedia struct {
	PostID       int64     `db:"post_id"`
	AssetID      int64     `db:"asset_id"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)
