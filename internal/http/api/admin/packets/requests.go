package packets

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateCurrentProfileRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
}

type CreateTextMediaRequest struct {
	Name string `json:"name" binding:"required"`
	Text string `json:"text" binding:"required"`
}

type CreateLinkMediaRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

type UpdateMediaRequest struct {
	Name   *string `json:"name"`
	Text   *string `json:"text"`
	Active *bool   `json:"active"`
}

// CreateScheduleRequest carries dates as "2006-01-02" and times as
// "15:04:05". Weekdays is the comma-separated Sunday=0 set; it defaults to
// every day of the week.
type CreateScheduleRequest struct {
	MediaID   int     `json:"media_id" binding:"required"`
	Region    int     `json:"region" binding:"required"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	Duration  *int    `json:"duration"`
	Weekdays  *string `json:"weekdays"`
	Priority  *int    `json:"priority"`
	Active    *bool   `json:"active"`
}

type UpdateScheduleRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Duration  *int    `json:"duration"`
	Weekdays  *string `json:"weekdays"`
	Priority  *int    `json:"priority"`
	Active    *bool   `json:"active"`
}

type ReorderScheduleItem struct {
	ID       int `json:"id" binding:"required"`
	Priority int `json:"priority"`
}

type ReorderSchedulesRequest struct {
	Updates []ReorderScheduleItem `json:"updates" binding:"required,dive"`
}
