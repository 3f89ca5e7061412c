package model

import "time"

// Schedule binds one media item to a display region for an inclusive date
// range and an inclusive same-day time-of-day range. Weekdays is a
// comma-separated set of weekday numbers, 0=Sunday through 6=Saturday.
// Priority orders entries within a region's rotation pool, lowest first.
type Schedule struct {
	ID        int       `db:"id" json:"id"`
	MediaID   int       `db:"media_id" json:"media_id"`
	Region    int       `db:"region" json:"region"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Duration  int       `db:"duration" json:"duration"`
	Weekdays  string    `db:"weekdays" json:"weekdays"`
	Priority  int       `db:"priority" json:"priority"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleWithMedia is a schedule row joined with its owning media item,
// used by listing endpoints.
type ScheduleWithMedia struct {
	Schedule
	MediaName string `db:"media_name" json:"media_name"`
	MediaType string `db:"media_type" json:"media_type"`
}
