package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/db"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api/admin/packets"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/middleware"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/scheduler"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

type ScheduleController struct {
	store    db.Store
	svc      *scheduler.Service
	notifier middleware.Notifier
}

func ScheduleModule(store db.Store, svc *scheduler.Service, notifier middleware.Notifier) api.Module {
	ctl := &ScheduleController{store: store, svc: svc, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedule", ctl.listSchedules)
		c.GET("/schedule/validate", ctl.validateSchedule)
		c.GET("/schedule/next/:region", ctl.upcomingSchedules)
		c.GET("/schedule/:id", ctl.getSchedule)
		c.POST("/schedule", ctl.createSchedule)
		c.PUT("/schedule/reorder", ctl.reorderSchedules)
		c.PUT("/schedule/:id", ctl.updateSchedule)
		c.DELETE("/schedule/:id", ctl.deleteSchedule)
	})
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseClock(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// GET /api/admin/schedule
func (s *ScheduleController) listSchedules(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var region *int
	if v, ok := ctx.GetQuery("region"); ok {
		r, err := strconv.Atoi(v)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "region must be an integer"}
		}
		region = &r
	}
	var active *bool
	if v, ok := ctx.GetQuery("active"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "active must be a boolean"}
		}
		active = &b
	}

	list, err := s.store.ListSchedules(region, active)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list schedules"}
	}

	out := make([]packets.ScheduleResponse, len(list))
	for i, it := range list {
		out[i] = packets.NewScheduleWithMediaResponse(it)
	}
	return out, nil
}

// GET /api/admin/schedule/:id
func (s *ScheduleController) getSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	entry, err := s.store.GetScheduleByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get schedule"}
	}
	return packets.NewScheduleWithMediaResponse(entry), nil
}

// POST /api/admin/schedule
func (s *ScheduleController) createSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	startDate, err := parseDate(request.StartDate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "start_date must be YYYY-MM-DD"}
	}
	endDate, err := parseDate(request.EndDate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_date must be YYYY-MM-DD"}
	}
	startTime, err := parseClock(request.StartTime)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "start_time must be HH:MM:SS"}
	}
	endTime, err := parseClock(request.EndTime)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_time must be HH:MM:SS"}
	}

	weekdays := "0,1,2,3,4,5,6"
	if request.Weekdays != nil {
		weekdays = *request.Weekdays
	}
	if _, err := scheduler.ParseWeekdays(weekdays); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := s.svc.ValidateSchedule(request.MediaID, scheduler.Region(request.Region),
		startDate, endDate, startTime, endTime); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, scheduler.ErrMediaNotFound) {
			code = http.StatusNotFound
		}
		return nil, &api.APIError{Code: code, Message: err.Error()}
	}

	duration := 10
	if request.Duration != nil {
		duration = *request.Duration
	}
	priority := 1
	if request.Priority != nil {
		priority = *request.Priority
	}
	active := true
	if request.Active != nil {
		active = *request.Active
	}

	entry, err := s.store.CreateSchedule(model.Schedule{
		MediaID:   request.MediaID,
		Region:    request.Region,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  duration,
		Weekdays:  weekdays,
		Priority:  priority,
		Active:    active,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create schedule"}
	}

	s.notifier.CatalogUpdated("schedule", entry.ID)
	return packets.NewScheduleResponse(entry), nil
}

// PUT /api/admin/schedule/:id
func (s *ScheduleController) updateSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	var request packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	existing, err := s.store.GetScheduleByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get schedule"}
	}

	params := db.UpdateScheduleParams{
		Duration: request.Duration,
		Priority: request.Priority,
		Active:   request.Active,
	}

	if request.Weekdays != nil {
		if _, err := scheduler.ParseWeekdays(*request.Weekdays); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		params.Weekdays = request.Weekdays
	}

	// effective window after the update, revalidated when any bound moves
	startDate, endDate := existing.StartDate, existing.EndDate
	startTime, endTime := existing.StartTime, existing.EndTime
	touched := false

	if request.StartDate != nil {
		if startDate, err = parseDate(*request.StartDate); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "start_date must be YYYY-MM-DD"}
		}
		params.StartDate = &startDate
		touched = true
	}
	if request.EndDate != nil {
		if endDate, err = parseDate(*request.EndDate); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_date must be YYYY-MM-DD"}
		}
		params.EndDate = &endDate
		touched = true
	}
	if request.StartTime != nil {
		if startTime, err = parseClock(*request.StartTime); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "start_time must be HH:MM:SS"}
		}
		params.StartTime = &startTime
		touched = true
	}
	if request.EndTime != nil {
		if endTime, err = parseClock(*request.EndTime); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_time must be HH:MM:SS"}
		}
		params.EndTime = &endTime
		touched = true
	}

	if touched {
		if err := s.svc.ValidateSchedule(existing.MediaID, scheduler.Region(existing.Region),
			startDate, endDate, startTime, endTime); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
	}

	if err := s.store.UpdateSchedule(id, params); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update schedule"}
	}

	updated, err := s.store.GetScheduleByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch updated schedule"}
	}

	s.notifier.CatalogUpdated("schedule", id)
	return packets.NewScheduleWithMediaResponse(updated), nil
}

// DELETE /api/admin/schedule/:id removes the entry only; the media item
// stays.
func (s *ScheduleController) deleteSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if err := s.store.DeleteSchedule(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete schedule"}
	}

	s.notifier.CatalogUpdated("schedule", id)
	return gin.H{"message": "schedule deleted"}, nil
}

// GET /api/admin/schedule/validate checks a proposed entry without
// persisting anything.
func (s *ScheduleController) validateSchedule(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	mediaID, err := strconv.Atoi(ctx.Query("media_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "media_id must be an integer"}
	}
	region, err := strconv.Atoi(ctx.Query("region"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "region must be an integer"}
	}
	startDate, err := parseDate(ctx.Query("start_date"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "start_date must be YYYY-MM-DD"}
	}
	endDate, err := parseDate(ctx.Query("end_date"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_date must be YYYY-MM-DD"}
	}
	startTime, err := parseClock(ctx.Query("start_time"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "start_time must be HH:MM:SS"}
	}
	endTime, err := parseClock(ctx.Query("end_time"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_time must be HH:MM:SS"}
	}

	if err := s.svc.ValidateSchedule(mediaID, scheduler.Region(region),
		startDate, endDate, startTime, endTime); err != nil {
		reason := err.Error()
		return packets.ValidationResponse{Valid: false, Reason: &reason}, nil
	}
	return packets.ValidationResponse{Valid: true}, nil
}

// GET /api/admin/schedule/next/:region lists entries coming up within the
// next N hours (default 24).
func (s *ScheduleController) upcomingSchedules(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	region, err := strconv.Atoi(ctx.Param("region"))
	if err != nil || !scheduler.Region(region).Valid() {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "region must be 1, 2 or 4"}
	}

	hours := 24
	if v, ok := ctx.GetQuery("hours"); ok {
		if hours, err = strconv.Atoi(v); err != nil || hours <= 0 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "hours must be a positive integer"}
		}
	}

	now := time.Now()
	list, err := s.store.ListUpcomingSchedules(region, now, now.Add(time.Duration(hours)*time.Hour))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list upcoming schedules"}
	}

	out := packets.UpcomingResponse{
		Region:     region,
		HoursAhead: hours,
		Schedules:  make([]packets.ScheduleResponse, len(list)),
	}
	for i, it := range list {
		out.Schedules[i] = packets.NewScheduleWithMediaResponse(it)
	}
	return out, nil
}

// PUT /api/admin/schedule/reorder bulk-updates rotation priorities.
func (s *ScheduleController) reorderSchedules(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.ReorderSchedulesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	for _, update := range request.Updates {
		if err := s.store.SetSchedulePriority(update.ID, update.Priority); err != nil {
			log.Error().Err(err).Int("schedule_id", update.ID).Msg("reorder failed")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reorder schedules"}
		}
	}

	s.notifier.CatalogUpdated("schedule", 0)
	return gin.H{"message": "schedules reordered", "count": len(request.Updates)}, nil
}
