package publisher

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postloop/postloop-api/internal/models"
)

// 2024-01-03 was a Wednesday; minutes are deliberately non-zero because the
// match key only cares about the hour.
var wednesdayAfternoon = time.Date(2024, 1, 3, 14, 22, 0, 0, time.UTC)

type fakeSlotSource struct {
	slots []*models.SlotWithLibrary
	err   error
}

func (f *fakeSlotSource) GetDue(_ context.Context, dayOfWeek int, timeOfDay string) ([]*models.SlotWithLibrary, error) {
	if f.err != nil {
		return nil, f.err
	}
	var due []*models.SlotWithLibrary
	for _, sl := range f.slots {
		if sl.Slot.DayOfWeek == dayOfWeek && sl.Slot.TimeOfDay == timeOfDay {
			due = append(due, sl)
		}
	}
	return due, nil
}

// fakePostStore mirrors the SQL semantics of the real repository: candidate
// selection orders by last_published_at (nulls first) then created_at, and
// MarkPublished only flips rows still in draft.
type fakePostStore struct {
	posts     map[int64]*models.Post
	nextErr   error
	updateErr error
}

func newFakePostStore(posts ...*models.Post) *fakePostStore {
	s := &fakePostStore{posts: make(map[int64]*models.Post)}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (f *fakePostStore) NextDraftForLibrary(_ context.Context, libraryID int64) (*models.Post, error) {
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	var drafts []*models.Post
	for _, p := range f.posts {
		if p.LibraryID.Valid && p.LibraryID.Int64 == libraryID && p.Status == models.PostStatusDraft {
			drafts = append(drafts, p)
		}
	}
	if len(drafts) == 0 {
		return nil, nil
	}
	sort.Slice(drafts, func(i, j int) bool {
		a, b := drafts[i], drafts[j]
		if a.LastPublishedAt.Valid != b.LastPublishedAt.Valid {
			return !a.LastPublishedAt.Valid
		}
		if a.LastPublishedAt.Valid && !a.LastPublishedAt.Time.Equal(b.LastPublishedAt.Time) {
			return a.LastPublishedAt.Time.Before(b.LastPublishedAt.Time)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	copied := *drafts[0]
	return &copied, nil
}

func (f *fakePostStore) MarkPublished(_ context.Context, postID int64, publishedAt time.Time) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	p, ok := f.posts[postID]
	if !ok || p.Status != models.PostStatusDraft {
		return false, nil
	}
	p.Status = models.PostStatusPublished
	p.PublishedAt = sql.NullTime{Time: publishedAt, Valid: true}
	p.IsEvergreen = false
	return true, nil
}

type fakeActivityLog struct {
	entries []*models.Activity
	err     error
}

func (f *fakeActivityLog) Create(_ context.Context, activity *models.Activity) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.entries = append(f.entries, activity)
	return int64(len(f.entries)), nil
}

func draft(id, libraryID int64, createdAt time.Time) *models.Post {
	return &models.Post{
		ID:          id,
		UserID:      1,
		LibraryID:   sql.NullInt64{Int64: libraryID, Valid: true},
		Status:      models.PostStatusDraft,
		IsEvergreen: true,
		CreatedAt:   createdAt,
	}
}

func slot(id, libraryID int64, dayOfWeek int, timeOfDay string, paused bool) *models.SlotWithLibrary {
	return &models.SlotWithLibrary{
		Slot: models.WeeklySlot{
			ID:        id,
			UserID:    1,
			LibraryID: libraryID,
			DayOfWeek: dayOfWeek,
			TimeOfDay: timeOfDay,
		},
		Library: models.ContentLibrary{
			ID:       libraryID,
			UserID:   1,
			Name:     "Launch tips",
			IsPaused: paused,
		},
	}
}

func TestMatchKey(t *testing.T) {
	day, tod := MatchKey(wednesdayAfternoon)
	assert.Equal(t, 3, day)
	assert.Equal(t, "14:00:00", tod)

	// Sunday is day 0.
	day, tod = MatchKey(time.Date(2024, 1, 7, 9, 59, 0, 0, time.UTC))
	assert.Equal(t, 0, day)
	assert.Equal(t, "09:00:00", tod)
}

func TestRunPublishesOldestDraft(t *testing.T) {
	posts := newFakePostStore(
		draft(1, 10, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
		draft(2, 10, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)),
	)
	activities := &fakeActivityLog{}
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:00:00", false)}}, posts, activities)

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Processed)
	require.Len(t, summary.Details, 1)

	assert.Equal(t, OutcomePublished, summary.Details[0].Outcome)
	assert.Equal(t, int64(1), summary.Details[0].PostID)

	published := posts.posts[1]
	assert.Equal(t, models.PostStatusPublished, published.Status)
	assert.True(t, published.PublishedAt.Valid)
	assert.Equal(t, wednesdayAfternoon, published.PublishedAt.Time)
	assert.False(t, published.IsEvergreen)

	// The newer draft is untouched.
	assert.Equal(t, models.PostStatusDraft, posts.posts[2].Status)

	require.Len(t, activities.entries, 1)
	assert.Equal(t, int64(1), activities.entries[0].UserID)
	assert.Equal(t, models.ActivityTypePublished, activities.entries[0].Type)
	assert.Equal(t, int64(1), activities.entries[0].PostID.Int64)
	assert.Contains(t, activities.entries[0].Message, "Launch tips")
}

func TestRunFIFOByCreationTime(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := newFakePostStore(
		draft(3, 10, t1.Add(48*time.Hour)),
		draft(1, 10, t1),
		draft(2, 10, t1.Add(24*time.Hour)),
	)
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:00:00", false)}}, posts, &fakeActivityLog{})

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Details[0].PostID)
}

func TestRunSkipsPausedLibrary(t *testing.T) {
	posts := newFakePostStore(draft(1, 10, time.Now()))
	activities := &fakeActivityLog{}
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:00:00", true)}}, posts, activities)

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	require.Len(t, summary.Details, 1)

	// Skipped, not empty and not published: the draft stays untouched.
	assert.Equal(t, OutcomeSkippedPaused, summary.Details[0].Outcome)
	assert.Equal(t, models.PostStatusDraft, posts.posts[1].Status)
	assert.Empty(t, activities.entries)
}

func TestRunEmptyLibrary(t *testing.T) {
	posts := newFakePostStore()
	activities := &fakeActivityLog{}
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:00:00", false)}}, posts, activities)

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	require.Len(t, summary.Details, 1)
	assert.Equal(t, OutcomeEmptyLibrary, summary.Details[0].Outcome)
	assert.Empty(t, activities.entries)
}

func TestRunNoMatchForNonHourSlot(t *testing.T) {
	// A stored time of 14:30:00 never matches the hour-granular key.
	posts := newFakePostStore(draft(1, 10, time.Now()))
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:30:00", false)}}, posts, &fakeActivityLog{})

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Empty(t, summary.Details)
}

func TestRunSecondInvocationSameHour(t *testing.T) {
	// Nothing records that a slot was served this hour: a second call inside
	// the same window publishes the next draft. Documented gap, not a bug.
	posts := newFakePostStore(
		draft(1, 10, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
		draft(2, 10, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)),
	)
	activities := &fakeActivityLog{}
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:00:00", false)}}, posts, activities)

	first, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Details[0].PostID)

	second, err := p.Run(context.Background(), wednesdayAfternoon.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Details[0].PostID)

	assert.Equal(t, models.PostStatusPublished, posts.posts[1].Status)
	assert.Equal(t, models.PostStatusPublished, posts.posts[2].Status)
	assert.Len(t, activities.entries, 2)
}

func TestRunSlotFetchErrorIsFatal(t *testing.T) {
	p := New(&fakeSlotSource{err: errors.New("connection refused")}, newFakePostStore(), &fakeActivityLog{})

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.Error(t, err)
	assert.Nil(t, summary)
}

func TestRunPerSlotErrorContainment(t *testing.T) {
	// Slot 100's draft lookup fails, slot 101 still publishes.
	goodPosts := newFakePostStore(draft(1, 20, time.Now()))
	failing := &failingThenDelegatingStore{failFor: 10, delegate: goodPosts}
	activities := &fakeActivityLog{}
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{
		slot(100, 10, 3, "14:00:00", false),
		slot(101, 20, 3, "14:00:00", false),
	}}, failing, activities)

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	require.Len(t, summary.Details, 2)

	assert.Equal(t, OutcomeError, summary.Details[0].Outcome)
	assert.NotEmpty(t, summary.Details[0].Error)
	assert.Equal(t, OutcomePublished, summary.Details[1].Outcome)
	assert.Len(t, activities.entries, 1)
}

func TestRunLostRaceReportsError(t *testing.T) {
	posts := newFakePostStore(draft(1, 10, time.Now()))
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:00:00", false)}},
		&racingStore{delegate: posts}, &fakeActivityLog{})

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	require.Len(t, summary.Details, 1)
	assert.Equal(t, OutcomeError, summary.Details[0].Outcome)
	assert.Equal(t, "post is no longer a draft", summary.Details[0].Error)
}

func TestRunActivityFailureStillPublishes(t *testing.T) {
	posts := newFakePostStore(draft(1, 10, time.Now()))
	p := New(&fakeSlotSource{slots: []*models.SlotWithLibrary{slot(100, 10, 3, "14:00:00", false)}},
		posts, &fakeActivityLog{err: errors.New("insert failed")})

	summary, err := p.Run(context.Background(), wednesdayAfternoon)
	require.NoError(t, err)
	assert.Equal(t, OutcomePublished, summary.Details[0].Outcome)
	assert.Equal(t, models.PostStatusPublished, posts.posts[1].Status)
}

// failingThenDelegatingStore errors on candidate selection for one library and
// behaves normally for the rest.
type failingThenDelegatingStore struct {
	failFor  int64
	delegate *fakePostStore
}

func (s *failingThenDelegatingStore) NextDraftForLibrary(ctx context.Context, libraryID int64) (*models.Post, error) {
	if libraryID == s.failFor {
		return nil, errors.New("query timeout")
	}
	return s.delegate.NextDraftForLibrary(ctx, libraryID)
}

func (s *failingThenDelegatingStore) MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) (bool, error) {
	return s.delegate.MarkPublished(ctx, postID, publishedAt)
}

// racingStore simulates a concurrent writer moving the candidate out of draft
// between selection and the conditional update.
type racingStore struct {
	delegate *fakePostStore
}

func (s *racingStore) NextDraftForLibrary(ctx context.Context, libraryID int64) (*models.Post, error) {
	return s.delegate.NextDraftForLibrary(ctx, libraryID)
}

func (s *racingStore) MarkPublished(ctx context.Context, postID int64, _ time.Time) (bool, error) {
	if p, ok := s.delegate.posts[postID]; ok {
		p.Status = models.PostStatusScheduled
	}
	return false, nil
}
