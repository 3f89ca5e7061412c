package endpoints

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api/admin/packets"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
)

func (ts *testServer) seedVideo(t *testing.T) model.Media {
	t.Helper()
	media, err := ts.store.CreateMedia(model.MediaTypeVideo, "clip", strptr("uploads/clip.mp4"), nil)
	require.NoError(t, err)
	return media
}

func TestCreateScheduleAppliesDefaults(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)

	w := ts.do(t, http.MethodPost, "/api/admin/schedule", gin.H{
		"media_id":   media.ID,
		"region":     1,
		"start_date": "2026-09-01",
		"end_date":   "2026-09-30",
		"start_time": "08:00:00",
		"end_time":   "18:00:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created packets.ScheduleResponse
	decodeJSON(t, w, &created)
	require.Equal(t, 10, created.Duration)
	require.Equal(t, "0,1,2,3,4,5,6", created.Weekdays)
	require.Equal(t, 1, created.Priority)
	require.True(t, created.Active)
	require.Equal(t, "2026-09-01", created.StartDate)
	require.Equal(t, "18:00:00", created.EndTime)
}

func TestCreateScheduleUnknownMedia(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/admin/schedule", gin.H{
		"media_id":   42,
		"region":     1,
		"start_date": "2026-09-01",
		"end_date":   "2026-09-30",
		"start_time": "08:00:00",
		"end_time":   "18:00:00",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateScheduleKindMismatch(t *testing.T) {
	ts := newTestServer(t)
	text, err := ts.store.CreateMedia(model.MediaTypeText, "banner", nil, strptr("hello there"))
	require.NoError(t, err)

	// text media cannot play in the video region
	w := ts.do(t, http.MethodPost, "/api/admin/schedule", gin.H{
		"media_id":   text.ID,
		"region":     1,
		"start_date": "2026-09-01",
		"end_date":   "2026-09-30",
		"start_time": "08:00:00",
		"end_time":   "18:00:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateScheduleRejectsBadRanges(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)

	// end date before start date
	w := ts.do(t, http.MethodPost, "/api/admin/schedule", gin.H{
		"media_id":   media.ID,
		"region":     1,
		"start_date": "2026-09-30",
		"end_date":   "2026-09-01",
		"start_time": "08:00:00",
		"end_time":   "18:00:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// end time equal to start time
	w = ts.do(t, http.MethodPost, "/api/admin/schedule", gin.H{
		"media_id":   media.ID,
		"region":     1,
		"start_date": "2026-09-01",
		"end_date":   "2026-09-30",
		"start_time": "08:00:00",
		"end_time":   "08:00:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateScheduleRejectsBadWeekdays(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)

	for _, weekdays := range []string{"1,7", "mon,tue", "1,,2", ""} {
		w := ts.do(t, http.MethodPost, "/api/admin/schedule", gin.H{
			"media_id":   media.ID,
			"region":     1,
			"start_date": "2026-09-01",
			"end_date":   "2026-09-30",
			"start_time": "08:00:00",
			"end_time":   "18:00:00",
			"weekdays":   weekdays,
		})
		require.Equal(t, http.StatusBadRequest, w.Code, "weekdays %q should be rejected", weekdays)
	}
}

func TestUpdateSchedulePartial(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)
	entry, err := ts.store.CreateSchedule(model.Schedule{
		MediaID: media.ID, Region: 1,
		StartDate: mustDate("2026-09-01"), EndDate: mustDate("2026-09-30"),
		StartTime: mustClock("08:00:00"), EndTime: mustClock("18:00:00"),
		Duration: 10, Weekdays: "0,1,2,3,4,5,6", Priority: 1, Active: true,
	})
	require.NoError(t, err)

	w := ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/schedule/%d", entry.ID), gin.H{
		"priority": 5,
		"duration": 30,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated packets.ScheduleResponse
	decodeJSON(t, w, &updated)
	require.Equal(t, 5, updated.Priority)
	require.Equal(t, 30, updated.Duration)
	require.Equal(t, "2026-09-01", updated.StartDate)
}

func TestUpdateScheduleRevalidatesWindow(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)
	entry, err := ts.store.CreateSchedule(model.Schedule{
		MediaID: media.ID, Region: 1,
		StartDate: mustDate("2026-09-01"), EndDate: mustDate("2026-09-30"),
		StartTime: mustClock("08:00:00"), EndTime: mustClock("18:00:00"),
		Duration: 10, Weekdays: "0,1,2,3,4,5,6", Priority: 1, Active: true,
	})
	require.NoError(t, err)

	// moving end_date before the existing start_date must fail
	w := ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/schedule/%d", entry.ID), gin.H{
		"end_date": "2026-08-01",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// moving end_time at or before the existing start_time must fail
	w = ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/schedule/%d", entry.ID), gin.H{
		"end_time": "07:00:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// a consistent new window is accepted
	w = ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/schedule/%d", entry.ID), gin.H{
		"start_time": "09:00:00",
		"end_time":   "17:00:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestValidateScheduleEndpoint(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)

	base := fmt.Sprintf(
		"/api/admin/schedule/validate?media_id=%d&region=1&start_date=2026-09-01&end_date=2026-09-30",
		media.ID,
	)

	w := ts.do(t, http.MethodGet, base+"&start_time=08:00:00&end_time=18:00:00", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var verdict packets.ValidationResponse
	decodeJSON(t, w, &verdict)
	require.True(t, verdict.Valid)
	require.Nil(t, verdict.Reason)

	w = ts.do(t, http.MethodGet, base+"&start_time=18:00:00&end_time=08:00:00", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &verdict)
	require.False(t, verdict.Valid)
	require.NotNil(t, verdict.Reason)
}

func TestUpcomingSchedules(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)
	_, err := ts.store.CreateSchedule(model.Schedule{
		MediaID: media.ID, Region: 1,
		StartDate: mustDate("2020-01-01"), EndDate: mustDate("2030-12-31"),
		StartTime: mustClock("00:00:00"), EndTime: mustClock("23:59:59"),
		Duration: 10, Weekdays: "0,1,2,3,4,5,6", Priority: 1, Active: true,
	})
	require.NoError(t, err)

	w := ts.do(t, http.MethodGet, "/api/admin/schedule/next/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var upcoming packets.UpcomingResponse
	decodeJSON(t, w, &upcoming)
	require.Equal(t, 1, upcoming.Region)
	require.Equal(t, 24, upcoming.HoursAhead)
	require.Len(t, upcoming.Schedules, 1)
	require.Equal(t, "clip", upcoming.Schedules[0].MediaName)

	w = ts.do(t, http.MethodGet, "/api/admin/schedule/next/3", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/admin/schedule/next/1?hours=0", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderSchedules(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)

	var ids []int
	for i := 0; i < 3; i++ {
		entry, err := ts.store.CreateSchedule(model.Schedule{
			MediaID: media.ID, Region: 1,
			StartDate: mustDate("2026-09-01"), EndDate: mustDate("2026-09-30"),
			StartTime: mustClock("08:00:00"), EndTime: mustClock("18:00:00"),
			Duration: 10, Weekdays: "0,1,2,3,4,5,6", Priority: i + 1, Active: true,
		})
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	w := ts.do(t, http.MethodPut, "/api/admin/schedule/reorder", gin.H{
		"updates": []gin.H{
			{"id": ids[0], "priority": 3},
			{"id": ids[1], "priority": 2},
			{"id": ids[2], "priority": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	first, err := ts.store.GetScheduleByID(ids[0])
	require.NoError(t, err)
	require.Equal(t, 3, first.Priority)
	last, err := ts.store.GetScheduleByID(ids[2])
	require.NoError(t, err)
	require.Equal(t, 1, last.Priority)
}

func TestDeleteSchedule(t *testing.T) {
	ts := newTestServer(t)
	media := ts.seedVideo(t)
	entry, err := ts.store.CreateSchedule(model.Schedule{
		MediaID: media.ID, Region: 1,
		StartDate: mustDate("2026-09-01"), EndDate: mustDate("2026-09-30"),
		StartTime: mustClock("08:00:00"), EndTime: mustClock("18:00:00"),
		Duration: 10, Weekdays: "0,1,2,3,4,5,6", Priority: 1, Active: true,
	})
	require.NoError(t, err)

	w := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/schedule/%d", entry.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// deleting the entry leaves the media item alone
	_, err = ts.store.GetMediaByID(media.ID)
	require.NoError(t, err)

	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/schedule/%d", entry.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
