package endpoints

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/db"
	"github.com/Castaway-Media/castaway/internal/engine"
	"github.com/Castaway-Media/castaway/internal/http/api"
	"github.com/Castaway-Media/castaway/internal/listing"
	"github.com/Castaway-Media/castaway/internal/model"
)

// LiveTVController serves the playlist, programme listing and stream
// endpoints that playback clients tune to.
type LiveTVController struct {
	engine  *engine.Engine
	store   db.Store
	catalog catalog.Client
	baseURL string
}

func NewLiveTVController(eng *engine.Engine, store db.Store, cat catalog.Client, baseURL string) *LiveTVController {
	return &LiveTVController{engine: eng, store: store, catalog: cat, baseURL: baseURL}
}

func LiveTVModule(eng *engine.Engine, store db.Store, cat catalog.Client, baseURL string) api.Module {
	ctl := NewLiveTVController(eng, store, cat, baseURL)
	return api.ModuleFunc(func(c *api.Controller) {
		c.Raw(http.MethodGet, "/playlist.m3u", ctl.playlist)
		c.Raw(http.MethodGet, "/epg.xml", ctl.programmeListing)
		c.Raw(http.MethodGet, "/stream/:id", ctl.stream)
	})
}

// playlist exports the channel list as M3U. Scope with ?channel=<id>;
// without it, all enabled channels are listed.
func (lc *LiveTVController) playlist(ctx *gin.Context) {
	channels, ok := lc.scopedChannels(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := listing.WriteM3U(&buf, channels, lc.baseURL); err != nil {
		log.Error().Err(err).Msg("livetv: playlist render failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "playlist render failed"})
		return
	}
	ctx.Data(http.StatusOK, "application/x-mpegurl", buf.Bytes())
}

// programmeListing exports XMLTV for entries intersecting [from, to),
// defaulting to the next 72 hours.
func (lc *LiveTVController) programmeListing(ctx *gin.Context) {
	channels, ok := lc.scopedChannels(ctx)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, apiErr := timeQuery(ctx, "from", now)
	if apiErr == nil {
		var to time.Time
		to, apiErr = timeQuery(ctx, "to", now.Add(72*time.Hour))
		if apiErr == nil {
			entriesByChannel := make(map[int][]model.ScheduleEntry, len(channels))
			for _, ch := range channels {
				if !ch.Enabled {
					continue
				}
				entries, err := lc.store.ListEntriesInRange(ctx.Request.Context(), ch.ID, from, to)
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "schedule read failed"})
					return
				}
				entriesByChannel[ch.ID] = entries
			}

			tv := listing.BuildXMLTV(channels, entriesByChannel, from, to)
			var buf bytes.Buffer
			if err := listing.WriteXMLTV(&buf, tv); err != nil {
				log.Error().Err(err).Msg("livetv: epg render failed")
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "epg render failed"})
				return
			}
			ctx.Data(http.StatusOK, "application/xml", buf.Bytes())
			return
		}
	}
	ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
}

// stream redirects to the catalog's playback URL for whatever the channel is
// playing right now. A schedule gap is a 404 for a tuning client.
func (lc *LiveTVController) stream(ctx *gin.Context) {
	id, apiErr := channelID(ctx)
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	now, err := lc.engine.Resolve(ctx.Request.Context(), id, time.Now().UTC())
	if err != nil {
		apiErr := mapEngineError(err)
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if now == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "nothing scheduled at this time"})
		return
	}
	ctx.Redirect(http.StatusFound, lc.catalog.StreamURL(now.Entry.MediaItemID))
}

func (lc *LiveTVController) scopedChannels(ctx *gin.Context) ([]model.Channel, bool) {
	if raw := ctx.Query("channel"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel scope"})
			return nil, false
		}
		ch, err := lc.store.GetChannelByID(ctx.Request.Context(), id)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "channel read failed"})
			return nil, false
		}
		if ch == nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
			return nil, false
		}
		return []model.Channel{*ch}, true
	}

	channels, err := lc.store.ListChannels(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "channel list failed"})
		return nil, false
	}
	return channels, true
}
