package endpoints

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/db"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/middleware"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/scheduler"
)

const testSecret = "test-secret"

// fakeStore is an in-memory db.Store for handler tests. It mirrors the SQL
// semantics the handlers rely on, including sql.ErrNoRows for missing rows
// and the ordering of EntriesForRegionAt.
type fakeStore struct {
	mu           sync.Mutex
	users        map[int]model.User
	media        map[int]model.Media
	schedules    map[int]model.Schedule
	nextUser     int
	nextMedia    int
	nextSchedule int
}

var _ db.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[int]model.User{},
		media:        map[int]model.Media{},
		schedules:    map[int]model.Schedule{},
		nextUser:     1,
		nextMedia:    1,
		nextSchedule: 1,
	}
}

func (f *fakeStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextUser
	f.nextUser++
	f.users[id] = model.User{
		ID: id, Email: email, HashedPassword: hashedPassword, Name: name,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	return id, nil
}

func (f *fakeStore) GetUserByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) GetUserByID(id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := u
	return &out, nil
}

func (f *fakeStore) UpdateUserProfile(id int, email string, name *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Email = email
	u.Name = name
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

func (f *fakeStore) CreateMedia(mediaType, name string, filePath, text *string) (model.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextMedia
	f.nextMedia++
	m := model.Media{
		ID: id, Type: mediaType, Name: name, FilePath: filePath, Text: text,
		Active: true, CreatedAt: time.Now(),
	}
	f.media[id] = m
	return m, nil
}

func (f *fakeStore) GetMediaByID(id int) (model.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.media[id]
	if !ok {
		return model.Media{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeStore) ListMedia(mediaType *string, active *bool) ([]model.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Media
	for _, m := range f.media {
		if mediaType != nil && m.Type != *mediaType {
			continue
		}
		if active != nil && m.Active != *active {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateMedia(id int, name, text *string, active *bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.media[id]
	if !ok {
		return sql.ErrNoRows
	}
	if name != nil {
		m.Name = *name
	}
	if text != nil && m.Type == model.MediaTypeText {
		m.Text = text
	}
	if active != nil {
		m.Active = *active
	}
	f.media[id] = m
	return nil
}

func (f *fakeStore) DeleteMedia(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.media[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.media, id)
	// cascade
	for sid, s := range f.schedules {
		if s.MediaID == id {
			delete(f.schedules, sid)
		}
	}
	return nil
}

func (f *fakeStore) MediaStats() (model.MediaStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats model.MediaStats
	for _, m := range f.media {
		stats.Total++
		switch m.Type {
		case model.MediaTypeVideo:
			stats.Videos++
		case model.MediaTypeImage:
			stats.Images++
		case model.MediaTypeText:
			stats.Texts++
		case model.MediaTypeYouTube:
			stats.YouTube++
		case model.MediaTypeLink:
			stats.Links++
		}
		if m.Active {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	return stats, nil
}

func (f *fakeStore) CreateSchedule(s model.Schedule) (model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextSchedule
	f.nextSchedule++
	s.CreatedAt = time.Now()
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeStore) withMedia(s model.Schedule) model.ScheduleWithMedia {
	out := model.ScheduleWithMedia{Schedule: s}
	if m, ok := f.media[s.MediaID]; ok {
		out.MediaName = m.Name
		out.MediaType = m.Type
	}
	return out
}

func (f *fakeStore) GetScheduleByID(id int) (model.ScheduleWithMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return model.ScheduleWithMedia{}, sql.ErrNoRows
	}
	return f.withMedia(s), nil
}

func (f *fakeStore) ListSchedules(region *int, active *bool) ([]model.ScheduleWithMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ScheduleWithMedia
	for _, s := range f.schedules {
		if region != nil && s.Region != *region {
			continue
		}
		if active != nil && s.Active != *active {
			continue
		}
		out = append(out, f.withMedia(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListSchedulesForMedia(mediaID int) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Schedule
	for _, s := range f.schedules {
		if s.MediaID == mediaID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateSchedule(id int, params db.UpdateScheduleParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.StartDate != nil {
		s.StartDate = *params.StartDate
	}
	if params.EndDate != nil {
		s.EndDate = *params.EndDate
	}
	if params.StartTime != nil {
		s.StartTime = *params.StartTime
	}
	if params.EndTime != nil {
		s.EndTime = *params.EndTime
	}
	if params.Duration != nil {
		s.Duration = *params.Duration
	}
	if params.Weekdays != nil {
		s.Weekdays = *params.Weekdays
	}
	if params.Priority != nil {
		s.Priority = *params.Priority
	}
	if params.Active != nil {
		s.Active = *params.Active
	}
	f.schedules[id] = s
	return nil
}

func (f *fakeStore) DeleteSchedule(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.schedules, id)
	return nil
}

func (f *fakeStore) SetSchedulePriority(id, priority int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Priority = priority
	f.schedules[id] = s
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func (f *fakeStore) EntriesForRegionAt(region int, onDate, atTime time.Time) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := dateOnly(onDate)
	sec := secondOfDay(atTime)
	var out []model.Schedule
	for _, s := range f.schedules {
		if s.Region != region || !s.Active {
			continue
		}
		m, ok := f.media[s.MediaID]
		if !ok || !m.Active {
			continue
		}
		if day.Before(dateOnly(s.StartDate)) || day.After(dateOnly(s.EndDate)) {
			continue
		}
		if sec < secondOfDay(s.StartTime) || sec > secondOfDay(s.EndTime) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeStore) ListUpcomingSchedules(region int, from, to time.Time) ([]model.ScheduleWithMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ScheduleWithMedia
	for _, s := range f.schedules {
		if s.Region != region || !s.Active {
			continue
		}
		if dateOnly(s.EndDate).Before(dateOnly(from)) || dateOnly(s.StartDate).After(dateOnly(to)) {
			continue
		}
		out = append(out, f.withMedia(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeStorage records saved and removed files without touching disk.
type fakeStorage struct {
	saved   []string
	removed []string
}

func (f *fakeStorage) SaveFile(_ *multipart.FileHeader, filename string) (string, error) {
	path := "uploads/" + filename
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeStorage) RemoveFile(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

type testServer struct {
	router *gin.Engine
	store  *fakeStore
	files  *fakeStorage
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	files := &fakeStorage{}
	svc := scheduler.NewService(store)

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	}, AuthPublicModule(testSecret, store))
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	},
		MediaModule(store, files, middleware.NoopNotifier()),
		ScheduleModule(store, svc, middleware.NoopNotifier()),
		AuthSessionModule(testSecret, store),
	)

	hashed, err := middleware.HashPassword("password123")
	require.NoError(t, err)
	userID, err := store.CreateUser("admin@example.com", hashed, nil)
	require.NoError(t, err)
	token, err := middleware.GenerateJWT(userID, testSecret)
	require.NoError(t, err)

	return &testServer{router: r, store: store, files: files, token: token}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+ts.token)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) doPublic(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func strptr(s string) *string { return &s }

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustClock(s string) time.Time {
	c, err := time.Parse("15:04:05", s)
	if err != nil {
		panic(err)
	}
	return c
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestSignupLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	w := ts.doPublic(t, http.MethodPost, "/api/admin/auth/signup", gin.H{
		"email":    "new@example.com",
		"password": "longenough",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var signup map[string]string
	decodeJSON(t, w, &signup)
	require.NotEmpty(t, signup["token"])

	// duplicate email
	w = ts.doPublic(t, http.MethodPost, "/api/admin/auth/signup", gin.H{
		"email":    "new@example.com",
		"password": "longenough",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = ts.doPublic(t, http.MethodPost, "/api/admin/auth/login", gin.H{
		"email":    "new@example.com",
		"password": "longenough",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.doPublic(t, http.MethodPost, "/api/admin/auth/login", gin.H{
		"email":    "new@example.com",
		"password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	w := ts.doPublic(t, http.MethodGet, "/api/admin/media", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentProfile(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/admin/auth/current_profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]any
	decodeJSON(t, w, &profile)
	require.Equal(t, "admin@example.com", profile["email"])
}
