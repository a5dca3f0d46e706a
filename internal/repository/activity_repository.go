package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/postloop/postloop-api/internal/models"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) (int64, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Activity, error)
}

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) (int64, error) {
	query := `
		INSERT INTO activities (user_id, type, message, post_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, activity.UserID, activity.Type, activity.Message, activity.PostID).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *activityRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, user_id, type, message, post_id, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var activity models.Activity
		err := rows.Scan(&activity.ID, &activity.UserID, &activity.Type, &activity.Message, &activity.PostID, &activity.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		activities = append(activities, &activity)
	}
	return activities, nil
}
