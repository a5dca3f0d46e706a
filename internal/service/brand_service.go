package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/postloop/postloop-api/internal/models"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/transfer"
)

type BrandService interface {
	Get(ctx context.Context, userID int64) (*models.BrandProfile, error)
	Save(ctx context.Context, userID int64, bu *transfer.BrandUpdate) error
}

type brandService struct {
	b repository.BrandRepository
}

func NewBrandService(b repository.BrandRepository) BrandService {
	return &brandService{
		b: b,
	}
}

func (s *brandService) Get(ctx context.Context, userID int64) (*models.BrandProfile, error) {
	brand, err := s.b.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return &models.BrandProfile{UserID: userID}, nil
	}
	return brand, nil
}

func (s *brandService) Save(ctx context.Context, userID int64, bu *transfer.BrandUpdate) error {
	if strings.TrimSpace(bu.BrandName) == "" {
		err := errors.New("brand name is empty")
		slog.Info(err.Error())
		return err
	}

	return s.b.Upsert(ctx, &models.BrandProfile{
		UserID:    userID,
		BrandName: bu.BrandName,
		Audience:  bu.Audience,
		Tone:      bu.Tone,
		Examples:  bu.Examples,
	})
}
