package models

import (
	"time"

	"github.com/lib/pq"
)

// WeeklySlot binds a content library to a recurring (day-of-week, hour)
// publishing time. DayOfWeek follows time.Weekday numbering: 0=Sunday through
// 6=Saturday. TimeOfDay is always hour-granular ("HH:00:00").
type WeeklySlot struct {
	ID          int64          `db:"id" json:"id"`
	UserID      int64          `db:"user_id" json:"user_id"`
	LibraryID   int64          `db:"library_id" json:"library_id"`
	DayOfWeek   int            `db:"day_of_week" json:"day_of_week"`
	TimeOfDay   string         `db:"time_of_day" json:"time_of_day"`
	PlatformIDs pq.StringArray `db:"platform_ids" json:"platform_ids"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// SlotWithLibrary is the inner-join row the publisher consumes. A slot whose
// library has been deleted never appears here.
type SlotWithLibrary struct {
	Slot    WeeklySlot
	Library ContentLibrary
}
