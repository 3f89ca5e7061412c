package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/db"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api"
	adminapi "github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api/admin/endpoints"
	playerapi "github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api/player/endpoints"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/middleware"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/scheduler"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/storage"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/weather"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	storageSystem storage.Storage,
	svc *scheduler.Service,
	weatherSvc *weather.Service,
	notifier middleware.Notifier,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.MediaModule(store, storageSystem, notifier),
		adminapi.ScheduleModule(store, svc, notifier),
		adminapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/player",
	},
		playerapi.PlayerModule(svc, weatherSvc),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", env.UploadDir)
	}
}
