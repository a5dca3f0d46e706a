package models

import (
	"time"

	"github.com/lib/pq"
)

// BrandProfile feeds the AI generator with a per-user voice description.
type BrandProfile struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	BrandName string         `db:"brand_name" json:"brand_name"`
	Audience  string         `db:"audience" json:"audience"`
	Tone      string         `db:"tone" json:"tone"`
	Examples  pq.StringArray `db:"examples" json:"examples"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
