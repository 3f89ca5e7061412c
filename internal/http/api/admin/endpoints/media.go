package endpoints

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/db"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/api/admin/packets"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/http/middleware"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/storage"
)

var allowedVideoExt = map[string]bool{".mp4": true, ".webm": true, ".avi": true, ".mov": true}
var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type MediaController struct {
	store    db.Store
	files    storage.Storage
	notifier middleware.Notifier
}

func MediaModule(store db.Store, files storage.Storage, notifier middleware.Notifier) api.Module {
	ctl := &MediaController{store: store, files: files, notifier: notifier}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/media", ctl.listMedia)
		c.GET("/media/stats/summary", ctl.mediaStats)
		c.GET("/media/:id", ctl.getMedia)
		c.POST("/media/upload", ctl.uploadMedia)
		c.POST("/media/text", ctl.createTextMedia)
		c.POST("/media/youtube", ctl.createYouTubeMedia)
		c.POST("/media/link", ctl.createLinkMedia)
		c.PUT("/media/:id", ctl.updateMedia)
		c.DELETE("/media/:id", ctl.deleteMedia)
	})
}

// GET /api/admin/media
func (m *MediaController) listMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var mediaType *string
	if v, ok := ctx.GetQuery("type"); ok {
		mediaType = &v
	}
	var active *bool
	if v, ok := ctx.GetQuery("active"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "active must be a boolean"}
		}
		active = &b
	}

	all, err := m.store.ListMedia(mediaType, active)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list media"}
	}

	out := make([]packets.MediaResponse, len(all))
	for i, x := range all {
		out[i] = packets.NewMediaResponse(x)
	}
	return out, nil
}

// GET /api/admin/media/:id
func (m *MediaController) getMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	media, err := m.store.GetMediaByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "media not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get media"}
	}

	schedules, err := m.store.ListSchedulesForMedia(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list schedules"}
	}

	detail := packets.MediaDetailResponse{
		MediaResponse: packets.NewMediaResponse(media),
		Schedules:     make([]packets.ScheduleResponse, len(schedules)),
	}
	for i, s := range schedules {
		detail.Schedules[i] = packets.NewScheduleResponse(s)
	}
	return detail, nil
}

// POST /api/admin/media/upload (multipart: file, type, name)
func (m *MediaController) uploadMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	mediaType := ctx.PostForm("type")
	if mediaType != model.MediaTypeVideo && mediaType != model.MediaTypeImage {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "type must be 'video' or 'image'"}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if mediaType == model.MediaTypeVideo && !allowedVideoExt[ext] {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: fmt.Sprintf("video format %s not allowed", ext)}
	}
	if mediaType == model.MediaTypeImage && !allowedImageExt[ext] {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: fmt.Sprintf("image format %s not allowed", ext)}
	}

	path, err := m.files.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	name := ctx.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	media, err := m.store.CreateMedia(mediaType, name, &path, nil)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create media"}
	}

	m.notifier.CatalogUpdated("media", media.ID)
	return packets.NewMediaResponse(media), nil
}

// POST /api/admin/media/text
func (m *MediaController) createTextMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreateTextMediaRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if len(request.Text) < 3 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "text too short"}
	}

	media, err := m.store.CreateMedia(model.MediaTypeText, request.Name, nil, &request.Text)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create media"}
	}

	m.notifier.CatalogUpdated("media", media.ID)
	return packets.NewMediaResponse(media), nil
}

// POST /api/admin/media/youtube
func (m *MediaController) createYouTubeMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreateLinkMediaRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if !strings.Contains(request.URL, "youtube.com") && !strings.Contains(request.URL, "youtu.be") {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid YouTube link"}
	}

	media, err := m.store.CreateMedia(model.MediaTypeYouTube, request.Name, &request.URL, nil)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create media"}
	}

	m.notifier.CatalogUpdated("media", media.ID)
	return packets.NewMediaResponse(media), nil
}

// POST /api/admin/media/link
func (m *MediaController) createLinkMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.CreateLinkMediaRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	media, err := m.store.CreateMedia(model.MediaTypeLink, request.Name, &request.URL, nil)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create media"}
	}

	m.notifier.CatalogUpdated("media", media.ID)
	return packets.NewMediaResponse(media), nil
}

// PUT /api/admin/media/:id
func (m *MediaController) updateMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	var request packets.UpdateMediaRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := m.store.UpdateMedia(id, request.Name, request.Text, request.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "media not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update media"}
	}

	updated, err := m.store.GetMediaByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch updated media"}
	}

	m.notifier.CatalogUpdated("media", id)
	return packets.NewMediaResponse(updated), nil
}

// DELETE /api/admin/media/:id removes the media item and, through the
// cascading foreign key, every schedule entry that references it.
func (m *MediaController) deleteMedia(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	media, err := m.store.GetMediaByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "media not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not get media"}
	}

	if media.FilePath != nil && media.Type != model.MediaTypeYouTube && media.Type != model.MediaTypeLink {
		if err := m.files.RemoveFile(*media.FilePath); err != nil {
			log.Warn().Err(err).Str("path", *media.FilePath).Msg("could not remove stored file")
		}
	}

	if err := m.store.DeleteMedia(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete media"}
	}

	m.notifier.CatalogUpdated("media", id)
	return gin.H{"message": "media deleted"}, nil
}

// GET /api/admin/media/stats/summary
func (m *MediaController) mediaStats(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	stats, err := m.store.MediaStats()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute stats"}
	}
	return stats, nil
}
