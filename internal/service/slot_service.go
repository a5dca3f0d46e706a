package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/transfer"
)

type SlotService interface {
	Create(ctx context.Context, userID int64, sc *transfer.SlotCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.WeeklySlot, error)
	Remove(ctx context.Context, userID, slotID int64) error
}

type slotService struct {
	sr repository.WeeklySlotRepository
	lr repository.LibraryRepository
}

func NewSlotService(sr repository.WeeklySlotRepository, lr repository.LibraryRepository) SlotService {
	return &slotService{
		sr: sr,
		lr: lr,
	}
}

func (s *slotService) Create(ctx context.Context, userID int64, sc *transfer.SlotCreation) (int64, error) {
	if sc == nil {
		err := errors.New("slot data is nil")
		slog.Info(err.Error())
		return 0, err
	}

	if sc.DayOfWeek < 0 || sc.DayOfWeek > 6 {
		err := fmt.Errorf("day_of_week %d out of range", sc.DayOfWeek)
		slog.Info(err.Error())
		return 0, err
	}

	if sc.Hour < 0 || sc.Hour > 23 {
		err := fmt.Errorf("hour %d out of range", sc.Hour)
		slog.Info(err.Error())
		return 0, err
	}

	isValid, err := s.lr.CheckByUserID(ctx, sc.LibraryID, userID)
	if err != nil {
		return 0, err
	}
	if !isValid {
		err = errors.New("Library doesn't exist")
		slog.Info(err.Error())
		return 0, err
	}

	library, err := s.lr.GetByID(ctx, sc.LibraryID)
	if err != nil || library == nil {
		return 0, fmt.Errorf("Unable to get library info")
	}

	libraryPlatforms := make(map[string]struct{}, len(library.Platforms))
	for _, p := range library.Platforms {
		libraryPlatforms[p] = struct{}{}
	}
	for _, p := range sc.PlatformIDs {
		if _, ok := libraryPlatforms[p]; !ok {
			err := fmt.Errorf("platform %q is not enabled for this library", p)
			slog.Info(err.Error())
			return 0, err
		}
	}

	slot := models.WeeklySlot{
		UserID:    userID,
		LibraryID: sc.LibraryID,
		DayOfWeek: sc.DayOfWeek,
		// Slots are hour-granular; the publisher matches on "HH:00:00".
		TimeOfDay:   fmt.Sprintf("%02d:00:00", sc.Hour),
		PlatformIDs: sc.PlatformIDs,
	}

	id, err := s.sr.Create(ctx, &slot)
	if err != nil {
		return 0, fmt.Errorf("error creating slot: %w", err)
	}

	return id, nil
}

func (s *slotService) List(ctx context.Context, userID int64) ([]*models.WeeklySlot, error) {
	slots, err := s.sr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting slots")
	}
	return slots, nil
}

func (s *slotService) Remove(ctx context.Context, userID, slotID int64) error {
	if userID == 0 {
		err := errors.New("User is not valid")
		slog.Info(err.Error())
		return err
	}

	if slotID == 0 {
		err := errors.New("slot id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.sr.CheckByUserID(ctx, slotID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Slot doesn't exist")
		slog.Info(err.Error())
		return err
	}

	if err := s.sr.Remove(ctx, slotID); err != nil {
		return fmt.Errorf("Error removing slot")
	}

	return nil
}
