package models

import (
	"database/sql"
	"time"
)

type Activity struct {
	ID        int64         `db:"id" json:"id"`
	UserID    int64         `db:"user_id" json:"user_id"`
	Type      string        `db:"type" json:"type"`
	Message   string        `db:"message" json:"message"`
	PostID    sql.NullInt64 `db:"post_id" json:"post_id"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

const (
	ActivityTypePublished = "published"
	ActivityTypeFailed    = "failed"
	ActivityTypeGenerated = "generated"
)
