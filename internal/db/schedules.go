package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
)

const scheduleColumns = `
	s.id, s.media_id, s.region, s.start_date, s.end_date,
	s.start_time, s.end_time, s.duration, s.weekdays,
	s.priority, s.active, s.created_at`

func (s *pgStore) CreateSchedule(in model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	INSERT INTO schedule
	  (media_id, region, start_date, end_date, start_time, end_time,
	   duration, weekdays, priority, active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	RETURNING id, media_id, region, start_date, end_date, start_time, end_time,
	          duration, weekdays, priority, active, created_at;`
	err := s.db.Get(&out, q,
		in.MediaID, in.Region,
		in.StartDate.Format("2006-01-02"), in.EndDate.Format("2006-01-02"),
		in.StartTime.Format("15:04:05"), in.EndTime.Format("15:04:05"),
		in.Duration, in.Weekdays, in.Priority, in.Active,
	)
	if err != nil {
		log.Error().Err(err).Int("media_id", in.MediaID).Msg("CreateSchedule failed")
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *pgStore) GetScheduleByID(id int) (model.ScheduleWithMedia, error) {
	var out model.ScheduleWithMedia
	const q = `
	SELECT ` + scheduleColumns + `, m.name AS media_name, m.type AS media_type
	  FROM schedule s
	  JOIN media m ON m.id = s.media_id
	 WHERE s.id = $1;`
	err := s.db.Get(&out, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScheduleWithMedia{}, sql.ErrNoRows
		}
		log.Error().Err(err).Int("schedule_id", id).Msg("GetScheduleByID failed")
	}
	return out, err
}

func (s *pgStore) ListSchedules(region *int, active *bool) ([]model.ScheduleWithMedia, error) {
	var out []model.ScheduleWithMedia
	const q = `
	SELECT ` + scheduleColumns + `, m.name AS media_name, m.type AS media_type
	  FROM schedule s
	  JOIN media m ON m.id = s.media_id
	 WHERE ($1::int IS NULL OR s.region = $1)
	   AND ($2::boolean IS NULL OR s.active = $2)
	 ORDER BY s.start_date DESC, s.start_time DESC;`
	if err := s.db.Select(&out, q, region, active); err != nil {
		log.Error().Err(err).Msg("ListSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListSchedulesForMedia(mediaID int) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT ` + scheduleColumns + `
	  FROM schedule s
	 WHERE s.media_id = $1
	 ORDER BY s.start_date, s.start_time;`
	if err := s.db.Select(&out, q, mediaID); err != nil {
		log.Error().Err(err).Int("media_id", mediaID).Msg("ListSchedulesForMedia failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateSchedule(id int, params UpdateScheduleParams) error {
	var (
		startDate, endDate *string
		startTime, endTime *string
	)
	if params.StartDate != nil {
		v := params.StartDate.Format("2006-01-02")
		startDate = &v
	}
	if params.EndDate != nil {
		v := params.EndDate.Format("2006-01-02")
		endDate = &v
	}
	if params.StartTime != nil {
		v := params.StartTime.Format("15:04:05")
		startTime = &v
	}
	if params.EndTime != nil {
		v := params.EndTime.Format("15:04:05")
		endTime = &v
	}

	const q = `
	UPDATE schedule
	   SET start_date = COALESCE($2::date, start_date),
	       end_date   = COALESCE($3::date, end_date),
	       start_time = COALESCE($4::time, start_time),
	       end_time   = COALESCE($5::time, end_time),
	       duration   = COALESCE($6, duration),
	       weekdays   = COALESCE($7, weekdays),
	       priority   = COALESCE($8, priority),
	       active     = COALESCE($9, active)
	 WHERE id = $1;`
	res, err := s.db.Exec(q, id, startDate, endDate, startTime, endTime,
		params.Duration, params.Weekdays, params.Priority, params.Active)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("UpdateSchedule failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) DeleteSchedule(id int) error {
	res, err := s.db.Exec(`DELETE FROM schedule WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("DeleteSchedule failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) SetSchedulePriority(id, priority int) error {
	_, err := s.db.Exec(`UPDATE schedule SET priority = $2 WHERE id = $1;`, id, priority)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("SetSchedulePriority failed")
	}
	return err
}

// EntriesForRegionAt returns every active entry of an active media item
// whose date range contains onDate and whose time-of-day range contains
// atTime, both bounds inclusive. Weekday filtering happens in the scheduler
// package, not here. Rows come back ordered by priority ascending with ties
// broken by id descending, the rotation pool order.
func (s *pgStore) EntriesForRegionAt(region int, onDate, atTime time.Time) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT ` + scheduleColumns + `
	  FROM schedule s
	  JOIN media m ON m.id = s.media_id
	 WHERE s.region = $1
	   AND s.active = true
	   AND m.active = true
	   AND s.start_date <= $2::date
	   AND s.end_date   >= $2::date
	   AND s.start_time <= $3::time
	   AND s.end_time   >= $3::time
	 ORDER BY s.priority, s.id DESC;`
	err := s.db.Select(&out, q, region,
		onDate.Format("2006-01-02"), atTime.Format("15:04:05"))
	if err != nil {
		log.Error().Err(err).Int("region", region).Msg("EntriesForRegionAt failed")
		return nil, err
	}
	return out, nil
}

// ListUpcomingSchedules returns entries whose date range intersects
// [from, to], ordered by start date and time. Used by the upcoming-content
// feed, not by resolution.
func (s *pgStore) ListUpcomingSchedules(region int, from, to time.Time) ([]model.ScheduleWithMedia, error) {
	var out []model.ScheduleWithMedia
	const q = `
	SELECT ` + scheduleColumns + `, m.name AS media_name, m.type AS media_type
	  FROM schedule s
	  JOIN media m ON m.id = s.media_id
	 WHERE s.region = $1
	   AND s.active = true
	   AND m.active = true
	   AND s.start_date <= $3::date
	   AND s.end_date   >= $2::date
	 ORDER BY s.start_date, s.start_time;`
	err := s.db.Select(&out, q, region,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		log.Error().Err(err).Int("region", region).Msg("ListUpcomingSchedules failed")
		return nil, err
	}
	return out, nil
}
