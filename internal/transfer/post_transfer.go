package transfer

type PostCreation struct {
	Content     string   `json:"content"`
	LibraryID   int64    `json:"library_id,omitempty"`
	Platforms   []string `json:"platforms"`
	Status      string   `json:"status"`                 // draft or scheduled
	ScheduledAt string   `json:"scheduled_at,omitempty"` // "2006-01-02T15:04"
}

type PostUpdate struct {
	PostID  int64  `json:"post_id"`
	Content string `json:"content"`
}

type LibraryCreation struct {
	Name       string             `json:"name"`
	Color      string             `json:"color"`
	Platforms  []string           `json:"platforms"`
	AISettings *LibraryAISettings `json:"ai_settings,omitempty"`
}

type LibraryAISettings struct {
	Tone            string `json:"tone,omitempty"`
	CustomTone      string `json:"custom_tone,omitempty"`
	Audience        string `json:"audience,omitempty"`
	Language        string `json:"language,omitempty"`
	Length          string `json:"length,omitempty"`
	UseEmojis       *bool  `json:"use_emojis,omitempty"`
	HashtagStrategy string `json:"hashtag_strategy,omitempty"`
	CustomHashtags  string `json:"custom_hashtags,omitempty"`
	GenerateImages  bool   `json:"generate_images,omitempty"`
}

type SlotCreation struct {
	LibraryID   int64    `json:"library_id"`
	DayOfWeek   int      `json:"day_of_week"`
	Hour        int      `json:"hour"`
	PlatformIDs []string `json:"platform_ids"`
}

type GenerateRequest struct {
	LibraryID   int64  `json:"library_id"`
	TopicPrompt string `json:"topic_prompt"`
	Count       int    `json:"count"`
}
