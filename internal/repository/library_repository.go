package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/postloop/postloop-api/internal/models"
)

type LibraryRepository interface {
	Create(ctx context.Context, library *models.ContentLibrary) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContentLibrary, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ContentLibrary, error)
	Update(ctx context.Context, library *models.ContentLibrary) error
	SetPaused(ctx context.Context, id int64, paused bool) error
	CheckByUserID(ctx context.Context, libraryID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type libraryRepository struct {
	db *sql.DB
}

func NewLibraryRepository(db *sql.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

const libraryColumns = `id, user_id, name, color, is_paused, platforms, ai_settings, created_at, updated_at`

func scanLibrary(row interface{ Scan(...any) error }) (*models.ContentLibrary, error) {
	var library models.ContentLibrary
	var settings []byte
	err := row.Scan(&library.ID, &library.UserID, &library.Name, &library.Color,
		&library.IsPaused, &library.Platforms, &settings, &library.CreatedAt, &library.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &library.AISettings); err != nil {
			return nil, err
		}
	}
	return &library, nil
}

func (r *libraryRepository) Create(ctx context.Context, library *models.ContentLibrary) (int64, error) {
	settings, err := json.Marshal(library.AISettings)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	query := `
		INSERT INTO content_libraries (user_id, name, color, is_paused, platforms, ai_settings)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err = r.db.QueryRowContext(ctx, query, library.UserID, library.Name, library.Color,
		library.IsPaused, pq.Array(library.Platforms), settings).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *libraryRepository) GetByID(ctx context.Context, id int64) (*models.ContentLibrary, error) {
	query := `SELECT ` + libraryColumns + ` FROM content_libraries WHERE id = $1`

	library, err := scanLibrary(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return library, nil
}

func (r *libraryRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ContentLibrary, error) {
	query := `SELECT ` + libraryColumns + ` FROM content_libraries WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var libraries []*models.ContentLibrary
	for rows.Next() {
		library, err := scanLibrary(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		libraries = append(libraries, library)
	}
	return libraries, nil
}

func (r *libraryRepository) Update(ctx context.Context, library *models.ContentLibrary) error {
	settings, err := json.Marshal(library.AISettings)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	query := `
		UPDATE content_libraries
		SET name = $1,
			color = $2,
			platforms = $3,
			ai_settings = $4,
			updated_at = $5
		WHERE id = $6
	`
	_, err = r.db.ExecContext(ctx, query, library.Name, library.Color,
		pq.Array(library.Platforms), settings, time.Now(), library.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *libraryRepository) SetPaused(ctx context.Context, id int64, paused bool) error {
	query := `
		UPDATE content_libraries
		SET is_paused = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, paused, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *libraryRepository) CheckByUserID(ctx context.Context, libraryID, userID int64) (bool, error) {
	query := "SELECT 1 FROM content_libraries WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, libraryID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *libraryRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM content_libraries WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
