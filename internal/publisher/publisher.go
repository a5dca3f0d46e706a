// Package publisher implements the weekly slot publishing pass: for every
// recurring slot matching the invocation hour, promote one queued draft from
// the slot's content library to published.
package publisher

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/postloop/postloop-api/internal/models"
)

// SlotSource yields the slots due at a given (day-of-week, time-of-day) pair,
// each joined with its library.
type SlotSource interface {
	GetDue(ctx context.Context, dayOfWeek int, timeOfDay string) ([]*models.SlotWithLibrary, error)
}

// PostStore selects and promotes queued drafts.
type PostStore interface {
	NextDraftForLibrary(ctx context.Context, libraryID int64) (*models.Post, error)
	MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) (bool, error)
}

// ActivityLog records one audit row per automated publication.
type ActivityLog interface {
	Create(ctx context.Context, activity *models.Activity) (int64, error)
}

const (
	OutcomePublished     = "published"
	OutcomeEmptyLibrary  = "empty_library"
	OutcomeSkippedPaused = "skipped_paused"
	OutcomeError         = "error"
)

type SlotResult struct {
	SlotID  int64  `json:"slot"`
	Outcome string `json:"result"`
	PostID  int64  `json:"post,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Summary struct {
	Processed int          `json:"processed"`
	Details   []SlotResult `json:"details"`
}

type Publisher struct {
	slots      SlotSource
	posts      PostStore
	activities ActivityLog
}

func New(slots SlotSource, posts PostStore, activities ActivityLog) *Publisher {
	return &Publisher{
		slots:      slots,
		posts:      posts,
		activities: activities,
	}
}

// MatchKey reduces a reference time to the slot matching pair: day of week
// (0=Sunday through 6=Saturday) and an hour-granular time-of-day string.
// Slots stored with non-zero minutes never match.
func MatchKey(now time.Time) (dayOfWeek int, timeOfDay string) {
	return int(now.Weekday()), fmt.Sprintf("%02d:00:00", now.Hour())
}

// Run executes one publishing pass for the given reference time. The caller
// supplies "now" so the pass is testable without touching the wall clock; the
// trigger boundary (HTTP handler, cron job) reads the clock.
//
// A slot-fetch error aborts the run. Everything after that is contained per
// slot: a candidate-fetch or update failure is recorded in that slot's result
// and the loop moves on. At most one post is published per matching slot per
// call; nothing remembers that a slot was already served this hour, so a
// second call within the same hour publishes the next draft.
func (p *Publisher) Run(ctx context.Context, now time.Time) (*Summary, error) {
	dayOfWeek, timeOfDay := MatchKey(now)

	due, err := p.slots.GetDue(ctx, dayOfWeek, timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("fetching due slots: %w", err)
	}

	summary := &Summary{Details: []SlotResult{}}

	for _, sl := range due {
		summary.Details = append(summary.Details, p.processSlot(ctx, sl, now))
	}

	summary.Processed = len(summary.Details)
	return summary, nil
}

func (p *Publisher) processSlot(ctx context.Context, sl *models.SlotWithLibrary, now time.Time) SlotResult {
	result := SlotResult{SlotID: sl.Slot.ID}

	if sl.Library.IsPaused {
		result.Outcome = OutcomeSkippedPaused
		return result
	}

	candidate, err := p.posts.NextDraftForLibrary(ctx, sl.Library.ID)
	if err != nil {
		slog.Error("fetching candidate post", "slot_id", sl.Slot.ID, "library_id", sl.Library.ID, "error", err)
		result.Outcome = OutcomeError
		result.Error = err.Error()
		return result
	}

	if candidate == nil {
		result.Outcome = OutcomeEmptyLibrary
		return result
	}

	published, err := p.posts.MarkPublished(ctx, candidate.ID, now)
	if err != nil {
		slog.Error("publishing post", "slot_id", sl.Slot.ID, "post_id", candidate.ID, "error", err)
		result.Outcome = OutcomeError
		result.Error = err.Error()
		return result
	}
	if !published {
		// Lost the race: something moved the post out of draft between the
		// candidate select and the conditional update.
		result.Outcome = OutcomeError
		result.Error = "post is no longer a draft"
		return result
	}

	activity := &models.Activity{
		UserID:  sl.Slot.UserID,
		Type:    models.ActivityTypePublished,
		Message: fmt.Sprintf("Auto-published from %q library", sl.Library.Name),
		PostID:  sql.NullInt64{Int64: candidate.ID, Valid: true},
	}
	if _, err := p.activities.Create(ctx, activity); err != nil {
		// The post is already published; the missing audit row is logged only.
		slog.Error("recording activity", "slot_id", sl.Slot.ID, "post_id", candidate.ID, "error", err)
	}

	result.Outcome = OutcomePublished
	result.PostID = candidate.ID
	return result
}
