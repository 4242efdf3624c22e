package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/engine"
	"github.com/Castaway-Media/castaway/internal/http/api"
	"github.com/Castaway-Media/castaway/internal/http/api/playout/packets"
)

type ChannelController struct {
	engine *engine.Engine
}

func NewChannelController(eng *engine.Engine) *ChannelController {
	return &ChannelController{engine: eng}
}

func ChannelModule(eng *engine.Engine) api.Module {
	ctl := NewChannelController(eng)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/channels/:id/schedule", ctl.getSchedule)
		c.GET("/channels/:id/now", ctl.getNowPlaying)
		c.POST("/channels/:id/schedule/generate", ctl.generateSchedule)
	})
}

func (cc *ChannelController) getSchedule(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := channelID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	now := time.Now().UTC()
	from, apiErr := timeQuery(ctx, "from", now)
	if apiErr != nil {
		return nil, apiErr
	}
	to, apiErr := timeQuery(ctx, "to", now.Add(72*time.Hour))
	if apiErr != nil {
		return nil, apiErr
	}

	entries, err := cc.engine.Schedule(ctx.Request.Context(), id, from, to)
	if err != nil {
		return nil, mapEngineError(err)
	}
	return packets.ScheduleResponse{
		ChannelID: id,
		From:      from.Format(time.RFC3339),
		To:        to.Format(time.RFC3339),
		Entries:   entries,
	}, nil
}

func (cc *ChannelController) getNowPlaying(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := channelID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	at, apiErr := timeQuery(ctx, "at", time.Now().UTC())
	if apiErr != nil {
		return nil, apiErr
	}

	now, err := cc.engine.Resolve(ctx.Request.Context(), id, at)
	if err != nil {
		return nil, mapEngineError(err)
	}
	return packets.NowPlayingResponse{Playing: now != nil, Now: now}, nil
}

func (cc *ChannelController) generateSchedule(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := channelID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.GenerateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid request body: " + err.Error()}
	}

	created, err := cc.engine.GenerateSchedule(ctx.Request.Context(), id, req.Days, req.Reset)
	if err != nil {
		log.Warn().Err(err).Int("channel_id", id).Msg("generate schedule failed")
		return nil, mapEngineError(err)
	}
	return packets.GenerateScheduleResponse{Created: created}, nil
}

func channelID(ctx *gin.Context) (int, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		return 0, &api.Error{Code: http.StatusBadRequest, Message: "invalid channel id"}
	}
	return id, nil
}

func timeQuery(ctx *gin.Context, name string, def time.Time) (time.Time, *api.Error) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &api.Error{Code: http.StatusBadRequest, Message: "invalid " + name + ": expected RFC3339"}
	}
	return t.UTC(), nil
}

// mapEngineError translates engine failures into response codes: pool/data
// problems are 422 (fix the configuration), a concurrent build is 409
// (retryable), catalog outages are 502.
func mapEngineError(err error) *api.Error {
	var vErr *engine.ValidationError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return &api.Error{Code: http.StatusNotFound, Message: "channel not found"}
	case errors.As(err, &vErr):
		return &api.Error{Code: http.StatusBadRequest, Message: vErr.Error()}
	case errors.Is(err, engine.ErrCandidatePoolEmpty):
		return &api.Error{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	case errors.Is(err, engine.ErrBuilderStalled):
		return &api.Error{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	case errors.Is(err, engine.ErrBuildInProgress):
		return &api.Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, catalog.ErrUnavailable):
		return &api.Error{Code: http.StatusBadGateway, Message: "media catalog unavailable"}
	default:
		return &api.Error{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}
