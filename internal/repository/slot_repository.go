package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/postloop/postloop-api/internal/models"
)

type WeeklySlotRepository interface {
	Create(ctx context.Context, slot *models.WeeklySlot) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.WeeklySlot, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.WeeklySlot, error)
	GetDue(ctx context.Context, dayOfWeek int, timeOfDay string) ([]*models.SlotWithLibrary, error)
	CheckByUserID(ctx context.Context, slotID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type weeklySlotRepository struct {
	db *sql.DB
}

func NewWeeklySlotRepository(db *sql.DB) WeeklySlotRepository {
	return &weeklySlotRepository{db: db}
}

func (r *weeklySlotRepository) Create(ctx context.Context, slot *models.WeeklySlot) (int64, error) {
	query := `
		INSERT INTO weekly_slots (user_id, library_id, day_of_week, time_of_day, platform_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, slot.UserID, slot.LibraryID, slot.DayOfWeek, slot.TimeOfDay, pq.Array(slot.PlatformIDs)).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *weeklySlotRepository) GetByID(ctx context.Context, id int64) (*models.WeeklySlot, error) {
	query := `SELECT id, user_id, library_id, day_of_week, time_of_day, platform_ids, created_at FROM weekly_slots WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var slot models.WeeklySlot
	err := row.Scan(&slot.ID, &slot.UserID, &slot.LibraryID, &slot.DayOfWeek, &slot.TimeOfDay, &slot.PlatformIDs, &slot.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &slot, nil
}

func (r *weeklySlotRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.WeeklySlot, error) {
	query := `SELECT id, user_id, library_id, day_of_week, time_of_day, platform_ids, created_at FROM weekly_slots WHERE user_id = $1 ORDER BY day_of_week, time_of_day`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var slots []*models.WeeklySlot
	for rows.Next() {
		var slot models.WeeklySlot
		err := rows.Scan(&slot.ID, &slot.UserID, &slot.LibraryID, &slot.DayOfWeek, &slot.TimeOfDay, &slot.PlatformIDs, &slot.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		slots = append(slots, &slot)
	}
	return slots, nil
}

// GetDue returns every slot scheduled at the given day-of-week and time-of-day
// together with its library. The inner join drops slots whose library has been
// deleted.
func (r *weeklySlotRepository) GetDue(ctx context.Context, dayOfWeek int, timeOfDay string) ([]*models.SlotWithLibrary, error) {
	query := `
		SELECT s.id, s.user_id, s.library_id, s.day_of_week, s.time_of_day, s.platform_ids, s.created_at,
			l.id, l.user_id, l.name, l.color, l.is_paused, l.platforms, l.created_at, l.updated_at
		FROM weekly_slots s
		INNER JOIN content_libraries l ON l.id = s.library_id
		WHERE s.day_of_week = $1 AND s.time_of_day = $2
	`

	rows, err := r.db.QueryContext(ctx, query, dayOfWeek, timeOfDay)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var due []*models.SlotWithLibrary
	for rows.Next() {
		var sl models.SlotWithLibrary
		err := rows.Scan(
			&sl.Slot.ID, &sl.Slot.UserID, &sl.Slot.LibraryID, &sl.Slot.DayOfWeek, &sl.Slot.TimeOfDay, &sl.Slot.PlatformIDs, &sl.Slot.CreatedAt,
			&sl.Library.ID, &sl.Library.UserID, &sl.Library.Name, &sl.Library.Color, &sl.Library.IsPaused, &sl.Library.Platforms, &sl.Library.CreatedAt, &sl.Library.UpdatedAt,
		)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		due = append(due, &sl)
	}
	return due, nil
}

func (r *weeklySlotRepository) CheckByUserID(ctx context.Context, slotID, userID int64) (bool, error) {
	query := "SELECT 1 FROM weekly_slots WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, slotID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *weeklySlotRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM weekly_slots WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
