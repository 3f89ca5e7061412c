package packets

import (
	"time"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
)

type ProfileResponse struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type MediaResponse struct {
	ID        int     `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	FilePath  *string `json:"file_path"`
	Text      *string `json:"text"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
}

type MediaDetailResponse struct {
	MediaResponse
	Schedules []ScheduleResponse `json:"schedules"`
}

type ScheduleResponse struct {
	ID        int    `json:"id"`
	MediaID   int    `json:"media_id"`
	MediaName string `json:"media_name,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Region    int    `json:"region"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
	Weekdays  string `json:"weekdays"`
	Priority  int    `json:"priority"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type ValidationResponse struct {
	Valid  bool    `json:"valid"`
	Reason *string `json:"reason"`
}

type UpcomingResponse struct {
	Region     int                `json:"region"`
	HoursAhead int                `json:"hours_ahead"`
	Schedules  []ScheduleResponse `json:"schedules"`
}

func NewMediaResponse(m model.Media) MediaResponse {
	return MediaResponse{
		ID:        m.ID,
		Type:      m.Type,
		Name:      m.Name,
		FilePath:  m.FilePath,
		Text:      m.Text,
		Active:    m.Active,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func NewScheduleResponse(s model.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:        s.ID,
		MediaID:   s.MediaID,
		Region:    s.Region,
		StartDate: s.StartDate.Format("2006-01-02"),
		EndDate:   s.EndDate.Format("2006-01-02"),
		StartTime: s.StartTime.Format("15:04:05"),
		EndTime:   s.EndTime.Format("15:04:05"),
		Duration:  s.Duration,
		Weekdays:  s.Weekdays,
		Priority:  s.Priority,
		Active:    s.Active,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func NewScheduleWithMediaResponse(s model.ScheduleWithMedia) ScheduleResponse {
	out := NewScheduleResponse(s.Schedule)
	out.MediaName = s.MediaName
	out.MediaType = s.MediaType
	return out
}
