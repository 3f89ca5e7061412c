// exposes a Store interface that is passed to API controllers and the
// scheduler service
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
)

// UpdateScheduleParams carries the optional fields of a schedule update;
// nil fields keep their current value.
type UpdateScheduleParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Duration  *int
	Weekdays  *string
	Priority  *int
	Active    *bool
}

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// media functions
	CreateMedia(mediaType, name string, filePath, text *string) (model.Media, error)
	GetMediaByID(id int) (model.Media, error)
	ListMedia(mediaType *string, active *bool) ([]model.Media, error)
	UpdateMedia(id int, name, text *string, active *bool) error
	DeleteMedia(id int) error
	MediaStats() (model.MediaStats, error)

	// schedule functions
	CreateSchedule(s model.Schedule) (model.Schedule, error)
	GetScheduleByID(id int) (model.ScheduleWithMedia, error)
	ListSchedules(region *int, active *bool) ([]model.ScheduleWithMedia, error)
	ListSchedulesForMedia(mediaID int) ([]model.Schedule, error)
	UpdateSchedule(id int, params UpdateScheduleParams) error
	DeleteSchedule(id int) error
	SetSchedulePriority(id, priority int) error

	// catalog queries used by the resolution engine
	EntriesForRegionAt(region int, onDate, atTime time.Time) ([]model.Schedule, error)
	ListUpcomingSchedules(region int, from, to time.Time) ([]model.ScheduleWithMedia, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
