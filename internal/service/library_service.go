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

var validPlatforms = map[string]struct{}{
	models.PlatformX:         {},
	models.PlatformPinterest: {},
	models.PlatformTiktok:    {},
}

type LibraryService interface {
	Create(ctx context.Context, userID int64, lc *transfer.LibraryCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.ContentLibrary, error)
	LibraryInfo(ctx context.Context, userID, libraryID int64) (*models.ContentLibrary, error)
	Update(ctx context.Context, userID, libraryID int64, lc *transfer.LibraryCreation) error
	SetPaused(ctx context.Context, userID, libraryID int64, paused bool) error
	Remove(ctx context.Context, userID, libraryID int64) error
}

type libraryService struct {
	lr repository.LibraryRepository
}

func NewLibraryService(lr repository.LibraryRepository) LibraryService {
	return &libraryService{lr: lr}
}

func validatePlatforms(platforms []string) error {
	for _, p := range platforms {
		if _, ok := validPlatforms[p]; !ok {
			return fmt.Errorf("unknown platform %q", p)
		}
	}
	return nil
}

func aiSettingsFromTransfer(in *transfer.LibraryAISettings) models.AISettings {
	if in == nil {
		return models.AISettings{}
	}
	return models.AISettings{
		Tone:            in.Tone,
		CustomTone:      in.CustomTone,
		Audience:        in.Audience,
		Language:        in.Language,
		Length:          in.Length,
		UseEmojis:       in.UseEmojis,
		HashtagStrategy: in.HashtagStrategy,
		CustomHashtags:  in.CustomHashtags,
		GenerateImages:  in.GenerateImages,
	}
}

func (s *libraryService) Create(ctx context.Context, userID int64, lc *transfer.LibraryCreation) (int64, error) {
	if lc == nil || lc.Name == "" {
		err := errors.New("library name cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	if err := validatePlatforms(lc.Platforms); err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	library := models.ContentLibrary{
		UserID:     userID,
		Name:       lc.Name,
		Color:      lc.Color,
		Platforms:  lc.Platforms,
		AISettings: aiSettingsFromTransfer(lc.AISettings),
	}

	id, err := s.lr.Create(ctx, &library)
	if err != nil {
		return 0, fmt.Errorf("error creating library: %w", err)
	}

	return id, nil
}

func (s *libraryService) List(ctx context.Context, userID int64) ([]*models.ContentLibrary, error) {
	libraries, err := s.lr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting libraries")
	}
	return libraries, nil
}

func (s *libraryService) LibraryInfo(ctx context.Context, userID, libraryID int64) (*models.ContentLibrary, error) {
	if err := s.checkOwnership(ctx, userID, libraryID); err != nil {
		return nil, err
	}

	library, err := s.lr.GetByID(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("Error getting library info")
	}

	return library, nil
}

func (s *libraryService) Update(ctx context.Context, userID, libraryID int64, lc *transfer.LibraryCreation) error {
	if lc == nil || lc.Name == "" {
		err := errors.New("library name cannot be empty")
		slog.Info(err.Error())
		return err
	}

	if err := validatePlatforms(lc.Platforms); err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := s.checkOwnership(ctx, userID, libraryID); err != nil {
		return err
	}

	library := models.ContentLibrary{
		ID:         libraryID,
		Name:       lc.Name,
		Color:      lc.Color,
		Platforms:  lc.Platforms,
		AISettings: aiSettingsFromTransfer(lc.AISettings),
	}

	if err := s.lr.Update(ctx, &library); err != nil {
		return fmt.Errorf("error updating library: %w", err)
	}
	return nil
}

func (s *libraryService) SetPaused(ctx context.Context, userID, libraryID int64, paused bool) error {
	if err := s.checkOwnership(ctx, userID, libraryID); err != nil {
		return err
	}

	if err := s.lr.SetPaused(ctx, libraryID, paused); err != nil {
		return fmt.Errorf("error updating library: %w", err)
	}
	return nil
}

func (s *libraryService) Remove(ctx context.Context, userID, libraryID int64) error {
	if err := s.checkOwnership(ctx, userID, libraryID); err != nil {
		return err
	}

	if err := s.lr.Remove(ctx, libraryID); err != nil {
		return fmt.Errorf("Error removing library")
	}
	return nil
}

func (s *libraryService) checkOwnership(ctx context.Context, userID, libraryID int64) error {
	if userID == 0 {
		err := errors.New("User is not valid")
		slog.Info(err.Error())
		return err
	}

	if libraryID == 0 {
		err := errors.New("library id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.lr.CheckByUserID(ctx, libraryID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Library doesn't exist")
		slog.Info(err.Error())
		return err
	}

	return nil
}
