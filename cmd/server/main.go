package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/db"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/middleware"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/redis"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/scheduler"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/weather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	env := LoadEnvironment()

	conn, err := db.Init(env.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	if err := db.RunMigrations(conn, env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("could not run migrations")
	}
	store := db.NewStore(conn)

	storageSystem := InitStorage(env)

	rdb := redis.New(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	weatherSvc := weather.NewService(weather.Config{
		APIKey:          env.WeatherAPIKey,
		City:            env.WeatherCity,
		Country:         env.WeatherCountry,
		RefreshInterval: env.WeatherInterval,
	}, weather.NewRedisCache(rdb))

	notifier := middleware.NoopNotifier()
	if env.MQTTBrokerURL != "" {
		notifier, err = middleware.NewMQTTNotifier(env.MQTTBrokerURL, "mediaplayer-api")
		if err != nil {
			log.Fatal().Err(err).Str("broker", env.MQTTBrokerURL).Msg("could not connect to MQTT broker")
		}
		log.Info().Str("broker", env.MQTTBrokerURL).Msg("publishing catalog updates over MQTT")
	}

	svc := scheduler.NewService(store)

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem, svc, weatherSvc, notifier)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
