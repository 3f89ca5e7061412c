package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/scheduler"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/weather"
)

// PlayerController serves the unauthenticated endpoints the display loop
// polls. Resolution happens per request against the current wall clock.
type PlayerController struct {
	svc     *scheduler.Service
	weather *weather.Service
}

func PlayerModule(svc *scheduler.Service, weatherSvc *weather.Service) api.Module {
	ctl := &PlayerController{svc: svc, weather: weatherSvc}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/active-content", ctl.activeContent)
		c.PUBLIC_GET("/active-content/region/:region", ctl.regionContent)
		c.PUBLIC_GET("/weather", ctl.currentWeather)
		c.PUBLIC_GET("/health", ctl.health)
	})
}

// GET /api/player/active-content
func (p *PlayerController) activeContent(ctx *gin.Context) (any, *api.APIError) {
	return p.svc.ActiveContent(time.Now()), nil
}

// GET /api/player/active-content/region/:region
func (p *PlayerController) regionContent(ctx *gin.Context) (any, *api.APIError) {
	n, err := strconv.Atoi(ctx.Param("region"))
	if err != nil || !scheduler.Region(n).Valid() {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "region must be 1, 2 or 4"}
	}

	view, err := p.svc.ContentForRegion(scheduler.Region(n), time.Now())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not resolve region"}
	}

	return gin.H{
		"region":    n,
		"content":   view,
		"timestamp": time.Now().Format(time.RFC3339),
	}, nil
}

// GET /api/player/weather always answers 200; the service degrades to a
// stale reading or a static fallback before it ever errors.
func (p *PlayerController) currentWeather(ctx *gin.Context) (any, *api.APIError) {
	return p.weather.Current(ctx.Request.Context()), nil
}

// GET /api/player/health
func (p *PlayerController) health(ctx *gin.Context) (any, *api.APIError) {
	return gin.H{"status": "ok", "service": "mediaplayer-api"}, nil
}
