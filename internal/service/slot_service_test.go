package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/transfer"
)

type fakeSlotRepo struct {
	repository.WeeklySlotRepository
	created *models.WeeklySlot
}

func (f *fakeSlotRepo) Create(ctx context.Context, slot *models.WeeklySlot) (int64, error) {
	f.created = slot
	return 42, nil
}

type fakeLibraryRepo struct {
	repository.LibraryRepository
	library *models.ContentLibrary
}

func (f *fakeLibraryRepo) CheckByUserID(ctx context.Context, libraryID, userID int64) (bool, error) {
	return f.library != nil && f.library.ID == libraryID && f.library.UserID == userID, nil
}

func (f *fakeLibraryRepo) GetByID(ctx context.Context, id int64) (*models.ContentLibrary, error) {
	if f.library == nil || f.library.ID != id {
		return nil, nil
	}
	return f.library, nil
}

func TestSlotCreateNormalizesTimeOfDay(t *testing.T) {
	slots := &fakeSlotRepo{}
	libraries := &fakeLibraryRepo{library: &models.ContentLibrary{
		ID:        7,
		UserID:    1,
		Platforms: []string{models.PlatformX, models.PlatformPinterest},
	}}
	s := NewSlotService(slots, libraries)

	id, err := s.Create(context.Background(), 1, &transfer.SlotCreation{
		LibraryID:   7,
		DayOfWeek:   3,
		Hour:        9,
		PlatformIDs: []string{models.PlatformX},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	require.NotNil(t, slots.created)
	assert.Equal(t, "09:00:00", slots.created.TimeOfDay)
	assert.Equal(t, 3, slots.created.DayOfWeek)
}

func TestSlotCreateRejectsOutOfRange(t *testing.T) {
	s := NewSlotService(&fakeSlotRepo{}, &fakeLibraryRepo{})

	_, err := s.Create(context.Background(), 1, &transfer.SlotCreation{LibraryID: 7, DayOfWeek: 7, Hour: 9})
	assert.Error(t, err)

	_, err = s.Create(context.Background(), 1, &transfer.SlotCreation{LibraryID: 7, DayOfWeek: 1, Hour: 24})
	assert.Error(t, err)
}

func TestSlotCreateRejectsForeignLibrary(t *testing.T) {
	libraries := &fakeLibraryRepo{library: &models.ContentLibrary{ID: 7, UserID: 2}}
	s := NewSlotService(&fakeSlotRepo{}, libraries)

	_, err := s.Create(context.Background(), 1, &transfer.SlotCreation{LibraryID: 7, DayOfWeek: 1, Hour: 9})
	assert.Error(t, err)
}

func TestSlotCreateRejectsPlatformOutsideLibrary(t *testing.T) {
	libraries := &fakeLibraryRepo{library: &models.ContentLibrary{
		ID:        7,
		UserID:    1,
		Platforms: []string{models.PlatformX},
	}}
	s := NewSlotService(&fakeSlotRepo{}, libraries)

	_, err := s.Create(context.Background(), 1, &transfer.SlotCreation{
		LibraryID:   7,
		DayOfWeek:   1,
		Hour:        9,
		PlatformIDs: []string{models.PlatformTiktok},
	})
	assert.Error(t, err)
}
