// Package weather fetches current conditions from OpenWeatherMap and caches
// them in Redis. The service is constructed and injected; resolution never
// waits on it.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Config struct {
	APIKey          string
	City            string
	Country         string
	RefreshInterval time.Duration
	// BaseURL overrides the OpenWeatherMap endpoint, used by tests.
	BaseURL string
}

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Report is what the player receives for the weather region.
type Report struct {
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
	Emoji       string `json:"emoji"`
	City        string `json:"city"`
	Cached      bool   `json:"cached"`
	CacheAge    int    `json:"cache_age,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// Cache is the freshness store. Get returns redis.Nil-compatible not-found
// via an error; Set never expires entries so stale readings stay available
// as a fallback.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

func (c *redisCache) Set(ctx context.Context, key, value string) error {
	return c.rdb.Set(ctx, key, value, 0).Err()
}

type cachedReading struct {
	Report    Report    `json:"report"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Service struct {
	cfg    Config
	cache  Cache
	client *http.Client
}

func NewService(cfg Config, cache Cache) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 10 * time.Minute
	}
	return &Service{
		cfg:    cfg,
		cache:  cache,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Current returns the freshest reading available: the cache while it is
// within the refresh interval, otherwise the upstream API, otherwise the
// stale cache, otherwise a static fallback. It never returns an error to
// the player.
func (s *Service) Current(ctx context.Context) Report {
	now := time.Now()
	stale, haveStale := s.fromCache(ctx)
	if haveStale {
		age := now.Sub(stale.FetchedAt)
		if age < s.cfg.RefreshInterval {
			r := stale.Report
			r.Cached = true
			r.CacheAge = int(age.Seconds())
			r.Emoji = IconEmoji(r.Icon)
			return r
		}
	}

	report, err := s.fetch(ctx)
	if err == nil {
		s.toCache(ctx, cachedReading{Report: report, FetchedAt: now})
		report.Emoji = IconEmoji(report.Icon)
		return report
	}
	log.Error().Err(err).Str("city", s.cfg.City).Msg("weather fetch failed")

	if haveStale {
		r := stale.Report
		r.Cached = true
		r.CacheAge = int(now.Sub(stale.FetchedAt).Seconds())
		r.Emoji = IconEmoji(r.Icon)
		return r
	}

	return s.fallback()
}

func (s *Service) cacheKey() string {
	return "weather:" + s.cfg.City
}

func (s *Service) fromCache(ctx context.Context) (cachedReading, bool) {
	raw, err := s.cache.Get(ctx, s.cacheKey())
	if err != nil {
		return cachedReading{}, false
	}
	var reading cachedReading
	if err := json.Unmarshal([]byte(raw), &reading); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable weather cache entry")
		return cachedReading{}, false
	}
	return reading, true
}

func (s *Service) toCache(ctx context.Context, reading cachedReading) {
	raw, err := json.Marshal(reading)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(), string(raw)); err != nil {
		log.Warn().Err(err).Msg("failed to cache weather reading")
	}
}

type owmResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Name string `json:"name"`
}

func (s *Service) fetch(ctx context.Context) (Report, error) {
	if s.cfg.APIKey == "" {
		return Report{}, fmt.Errorf("no API key configured")
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s", s.cfg.City, s.cfg.Country))
	params.Set("appid", s.cfg.APIKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Report{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("weather API returned %d", resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, err
	}
	if len(body.Weather) == 0 {
		return Report{}, fmt.Errorf("weather API response missing conditions")
	}

	return Report{
		Temperature: int(body.Main.Temp),
		Condition:   body.Weather[0].Description,
		Icon:        body.Weather[0].Icon,
		City:        body.Name,
	}, nil
}

func (s *Service) fallback() Report {
	return Report{
		Temperature: 25,
		Condition:   "weather unavailable",
		Icon:        "01d",
		Emoji:       IconEmoji("01d"),
		City:        s.cfg.City,
		Fallback:    true,
	}
}

var iconEmojis = map[string]string{
	"01d": "☀️", "01n": "🌙",
	"02d": "⛅", "02n": "☁️",
	"03d": "☁️", "03n": "☁️",
	"04d": "☁️", "04n": "☁️",
	"09d": "🌧️", "09n": "🌧️",
	"10d": "🌦️", "10n": "🌧️",
	"11d": "⛈️", "11n": "⛈️",
	"13d": "❄️", "13n": "❄️",
	"50d": "🌫️", "50n": "🌫️",
}

// IconEmoji maps an OpenWeatherMap icon code to a display emoji.
func IconEmoji(code string) string {
	if e, ok := iconEmojis[code]; ok {
		return e
	}
	return "🌡️"
}
