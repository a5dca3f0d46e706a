package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postloop/postloop-api/internal/models"
)

func TestBuildGenerationPromptDefaults(t *testing.T) {
	library := &models.ContentLibrary{
		Name:      "Tips",
		Platforms: []string{models.PlatformX, models.PlatformPinterest},
	}

	prompt := BuildGenerationPrompt(library, nil, "coffee brewing", 5)

	assert.Contains(t, prompt, `Generate 5 unique posts about: "coffee brewing"`)
	assert.Contains(t, prompt, "Tone: Professional")
	assert.Contains(t, prompt, "Language: English")
	assert.Contains(t, prompt, "concise but engaging (under 500 characters)")
	assert.Contains(t, prompt, "Include relevant emojis.")
	assert.Contains(t, prompt, "Do NOT include hashtags.")
	assert.Contains(t, prompt, "x, pinterest")
}

func TestBuildGenerationPromptCustomSettings(t *testing.T) {
	noEmojis := false
	library := &models.ContentLibrary{
		Name:      "Promos",
		Platforms: []string{models.PlatformPinterest},
		AISettings: models.AISettings{
			Tone:            "Custom",
			CustomTone:      "Sarcastic",
			Audience:        "indie hackers",
			Language:        "German",
			Length:          "long",
			UseEmojis:       &noEmojis,
			HashtagStrategy: "custom",
			CustomHashtags:  "#buildinpublic #golang",
		},
	}

	prompt := BuildGenerationPrompt(library, nil, "launch week", 3)

	assert.Contains(t, prompt, "Tone: Sarcastic")
	assert.Contains(t, prompt, "Target Audience: indie hackers")
	assert.Contains(t, prompt, "Language: German")
	assert.Contains(t, prompt, "longer, detailed posts (150+ words)")
	assert.Contains(t, prompt, "Do NOT use emojis.")
	assert.Contains(t, prompt, "Append exactly these hashtags to every post: #buildinpublic #golang")
}

func TestBuildGenerationPromptBrandFallback(t *testing.T) {
	library := &models.ContentLibrary{Name: "Quotes"}
	brand := &models.BrandProfile{
		BrandName: "Postloop",
		Audience:  "busy founders",
		Tone:      "Friendly",
		Examples:  []string{"Shipping beats planning."},
	}

	prompt := BuildGenerationPrompt(library, brand, "consistency", 2)

	assert.Contains(t, prompt, "Tone: Friendly")
	assert.Contains(t, prompt, "Target Audience: busy founders")
	assert.Contains(t, prompt, "Brand: Postloop")
	assert.Contains(t, prompt, "Shipping beats planning.")
}

func TestBuildGenerationPromptXOnlyLength(t *testing.T) {
	library := &models.ContentLibrary{
		Name:      "Threads",
		Platforms: []string{models.PlatformX},
	}

	prompt := BuildGenerationPrompt(library, nil, "go tips", 4)

	assert.Contains(t, prompt, "concise (under 280 characters)")
}

func TestParseGeneratedPosts(t *testing.T) {
	items, err := parseGeneratedPosts(`[{"content":"first"},{"content":"second"}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Content)
	assert.Equal(t, "second", items[1].Content)
}

func TestParseGeneratedPostsStripsFences(t *testing.T) {
	output := "```json\n[{\"content\":\"fenced\"}]\n```"

	items, err := parseGeneratedPosts(output)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fenced", items[0].Content)
}

func TestParseGeneratedPostsRejectsProse(t *testing.T) {
	_, err := parseGeneratedPosts("Sure! Here are some posts for you.")
	assert.Error(t, err)
}
