package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/postloop/postloop-api/internal/models"
)

type BrandRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, error)
	Upsert(ctx context.Context, brand *models.BrandProfile) error
}

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, error) {
	query := `
		SELECT id, user_id, brand_name, audience, tone, examples, created_at, updated_at
		FROM brand_profiles
		WHERE user_id = $1
	`

	var brand models.BrandProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&brand.ID, &brand.UserID,
		&brand.BrandName, &brand.Audience, &brand.Tone, &brand.Examples,
		&brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &brand, nil
}

func (r *brandRepository) Upsert(ctx context.Context, brand *models.BrandProfile) error {
	query := `
		INSERT INTO brand_profiles (user_id, brand_name, audience, tone, examples)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			brand_name = EXCLUDED.brand_name,
			audience = EXCLUDED.audience,
			tone = EXCLUDED.tone,
			examples = EXCLUDED.examples,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, brand.UserID, brand.BrandName, brand.Audience,
		brand.Tone, pq.Array(brand.Examples))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
