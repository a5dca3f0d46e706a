package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/transfer"
)

const (
	generationMaxOutputTokens int64 = 4096
	defaultGenerateCount            = 5
	maxGenerateCount                = 10

	generationSystemPrompt = `You are a social media content expert. Generate unique, engaging social media posts on the requested topic.

CRITICAL OUTPUT FORMATTING:
- Return ONLY a valid JSON array of objects with a single "content" field.
- Do NOT wrap the array in markdown code blocks.
- Do NOT include any conversational text.`
)

type AIService interface {
	GeneratePosts(ctx context.Context, userID int64, r *transfer.GenerateRequest) ([]int64, error)
}

type aiService struct {
	client openai.Client
	l      repository.LibraryRepository
	p      repository.PostRepository
	b      repository.BrandRepository
	a      repository.ActivityRepository
}

func NewAIService(
	apiKey string,
	l repository.LibraryRepository,
	p repository.PostRepository,
	b repository.BrandRepository,
	a repository.ActivityRepository) AIService {
	return &aiService{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		l:      l,
		p:      p,
		b:      b,
		a:      a,
	}
}

type generatedPost struct {
	Content string `json:"content"`
}

func (s *aiService) GeneratePosts(ctx context.Context, userID int64, r *transfer.GenerateRequest) ([]int64, error) {
	if strings.TrimSpace(r.TopicPrompt) == "" {
		err := errors.New("topic prompt is empty")
		slog.Info(err.Error())
		return nil, err
	}

	count := r.Count
	if count <= 0 {
		count = defaultGenerateCount
	}
	if count > maxGenerateCount {
		count = maxGenerateCount
	}

	isValid, err := s.l.CheckByUserID(ctx, r.LibraryID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("Library doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	library, err := s.l.GetByID(ctx, r.LibraryID)
	if err != nil {
		return nil, err
	}

	brand, err := s.b.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := BuildGenerationPrompt(library, brand, r.TopicPrompt, count)

	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           openai.ChatModelGPT5Mini2025_08_07,
		MaxOutputTokens: openai.Int(generationMaxOutputTokens),
		Reasoning: responses.ReasoningParam{
			Effort: openai.ReasoningEffortLow,
		},
		Instructions: openai.String(generationSystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("generation request: %w", err)
	}

	items, err := parseGeneratedPosts(resp.OutputText())
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("model returned no posts")
	}

	postIDs := make([]int64, 0, len(items))
	for _, item := range items {
		content := strings.TrimSpace(item.Content)
		if content == "" {
			continue
		}

		post := &models.Post{
			UserID:      userID,
			LibraryID:   sql.NullInt64{Int64: library.ID, Valid: true},
			Content:     content,
			Platforms:   library.Platforms,
			Status:      models.PostStatusDraft,
			IsEvergreen: true,
		}

		postID, err := s.p.Create(ctx, nil, post)
		if err != nil {
			return nil, err
		}
		postIDs = append(postIDs, postID)
	}

	activity := &models.Activity{
		UserID:  userID,
		Type:    models.ActivityTypeGenerated,
		Message: fmt.Sprintf("Generated %d drafts for %q library", len(postIDs), library.Name),
	}
	if _, err := s.a.Create(ctx, activity); err != nil {
		slog.Error("recording generation activity", "library_id", library.ID, "error", err)
	}

	return postIDs, nil
}

// BuildGenerationPrompt assembles the user prompt from the library's AI
// settings, falling back to the brand profile where the library is silent.
func BuildGenerationPrompt(library *models.ContentLibrary, brand *models.BrandProfile, topic string, count int) string {
	settings := library.AISettings

	tone := settings.Tone
	if tone == "Custom" {
		tone = settings.CustomTone
	}
	if tone == "" && brand != nil {
		tone = brand.Tone
	}
	if tone == "" {
		tone = "Professional"
	}

	audience := settings.Audience
	if audience == "" && brand != nil {
		audience = brand.Audience
	}

	language := settings.Language
	if language == "" {
		language = "English"
	}

	var length string
	switch settings.Length {
	case "short":
		length = "very short (under 50 words)"
	case "medium":
		length = "medium length (50-150 words)"
	case "long":
		length = "longer, detailed posts (150+ words)"
	default:
		if len(library.Platforms) == 1 && library.Platforms[0] == models.PlatformX {
			length = "concise (under 280 characters)"
		} else {
			length = "concise but engaging (under 500 characters)"
		}
	}

	emoji := "Include relevant emojis."
	if settings.UseEmojis != nil && !*settings.UseEmojis {
		emoji = "Do NOT use emojis."
	}

	hashtags := "Do NOT include hashtags."
	switch settings.HashtagStrategy {
	case "auto":
		hashtags = "Include 3-5 relevant, high-traffic hashtags at the end of each post."
	case "custom":
		if settings.CustomHashtags != "" {
			hashtags = "Append exactly these hashtags to every post: " + settings.CustomHashtags
		}
	}

	b := strings.Builder{}
	fmt.Fprintf(&b, "Generate %d unique posts about: %q\n\n", count, topic)
	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- Tone: %s\n", tone)
	fmt.Fprintf(&b, "- Language: %s\n", language)
	if audience != "" {
		fmt.Fprintf(&b, "- Target Audience: %s\n", audience)
	}
	if brand != nil && brand.BrandName != "" {
		fmt.Fprintf(&b, "- Brand: %s\n", brand.BrandName)
	}
	if brand != nil && len(brand.Examples) > 0 {
		b.WriteString("- Example posts in the brand's voice:\n")
		for _, example := range brand.Examples {
			fmt.Fprintf(&b, "  - %s\n", example)
		}
	}
	b.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Keep each post %s.\n", length)
	fmt.Fprintf(&b, "- %s\n", emoji)
	fmt.Fprintf(&b, "- %s\n", hashtags)
	if len(library.Platforms) > 0 {
		fmt.Fprintf(&b, "- The posts will run on: %s.\n", strings.Join(library.Platforms, ", "))
	}

	return b.String()
}

// parseGeneratedPosts tolerates markdown fences and surrounding prose by
// slicing from the first '[' to the last ']' before unmarshaling.
func parseGeneratedPosts(output string) ([]generatedPost, error) {
	first := strings.Index(output, "[")
	last := strings.LastIndex(output, "]")
	if first == -1 || last == -1 || last < first {
		return nil, errors.New("no JSON array in model output")
	}

	var items []generatedPost
	if err := json.Unmarshal([]byte(output[first:last+1]), &items); err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}

	return items, nil
}
