package main

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment    string
	ServerAddress  string
	SecretKey      string
	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string

	UploadDir       string
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string

	WeatherAPIKey   string
	WeatherCity     string
	WeatherCountry  string
	WeatherInterval time.Duration
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	env := Environment{
		Environment:    os.Getenv("APP_ENV"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SecretKey:      os.Getenv("JWT_SECRET"),
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),

		UploadDir:       os.Getenv("UPLOAD_DIR"),
		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),

		WeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		WeatherCity:    os.Getenv("WEATHER_CITY"),
		WeatherCountry: os.Getenv("WEATHER_COUNTRY"),
	}

	if env.DatabaseURL == "" || env.SecretKey == "" || env.ServerAddress == "" {
		log.Fatal().Msg("DATABASE_URL, JWT_SECRET and SERVER_ADDRESS are required")
	}

	if env.MigrationsPath == "" {
		env.MigrationsPath = "./migrations"
	}
	if env.UploadDir == "" {
		env.UploadDir = "./uploads"
	}
	if env.WeatherCity == "" {
		env.WeatherCity = "Sao Paulo"
	}
	if env.WeatherCountry == "" {
		env.WeatherCountry = "BR"
	}

	env.WeatherInterval = 10 * time.Minute
	if v := os.Getenv("WEATHER_UPDATE_INTERVAL"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			log.Fatal().Str("value", v).Msg("WEATHER_UPDATE_INTERVAL must be a positive number of minutes")
		}
		env.WeatherInterval = time.Duration(minutes) * time.Minute
	}

	return env
}
