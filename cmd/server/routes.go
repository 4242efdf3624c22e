package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/config"
	"github.com/Castaway-Media/castaway/internal/db"
	"github.com/Castaway-Media/castaway/internal/engine"
	"github.com/Castaway-Media/castaway/internal/http/api"
	playout "github.com/Castaway-Media/castaway/internal/http/api/playout/endpoints"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, eng *engine.Engine, cat catalog.Client) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		playout.ChannelModule(eng),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/livetv",
	},
		playout.LiveTVModule(eng, store, cat, cfg.StreamBaseURL),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
