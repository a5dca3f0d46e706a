package models

import (
	"time"

	"github.com/lib/pq"
)

type ContentLibrary struct {
	ID         int64          `db:"id" json:"id"`
	UserID     int64          `db:"user_id" json:"user_id"`
	Name       string         `db:"name" json:"name"`
	Color      string         `db:"color" json:"color"`
	IsPaused   bool           `db:"is_paused" json:"is_paused"`
	Platforms  pq.StringArray `db:"platforms" json:"platforms"`
	AISettings AISettings     `db:"ai_settings" json:"ai_settings"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// AISettings is stored as a jsonb column on content_libraries.
type AISettings struct {
	Tone            string `json:"tone,omitempty"`
	CustomTone      string `json:"custom_tone,omitempty"`
	Audience        string `json:"audience,omitempty"`
	Language        string `json:"language,omitempty"`
	Length          string `json:"length,omitempty"` // short, medium, long
	UseEmojis       *bool  `json:"use_emojis,omitempty"`
	HashtagStrategy string `json:"hashtag_strategy,omitempty"` // none, auto, custom
	CustomHashtags  string `json:"custom_hashtags,omitempty"`
	GenerateImages  bool   `json:"generate_images,omitempty"`
}
