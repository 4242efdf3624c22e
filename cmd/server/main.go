package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Castaway-Media/castaway/internal/catalog"
	"github.com/Castaway-Media/castaway/internal/config"
	"github.com/Castaway-Media/castaway/internal/db"
	"github.com/Castaway-Media/castaway/internal/engine"
	"github.com/Castaway-Media/castaway/internal/recency"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	store := db.NewStore()
	cat := catalog.NewJellyfinClient(cfg.CatalogURL, cfg.CatalogAPIKey, cfg.CatalogTimeout)

	var rec recency.Store
	if cfg.RedisAddress != "" {
		rec = recency.NewRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword, cfg.RecencyWindow)
		log.Info().Str("address", cfg.RedisAddress).Msg("recency store: redis")
	} else {
		rec = recency.NewMemory()
		log.Info().Msg("recency store: in-memory")
	}

	eng := engine.New(store, cat, rec, engine.Options{
		LowWaterMark:  cfg.LowWaterMark,
		HighWaterMark: cfg.HighWaterMark,
		RecencyWindow: cfg.RecencyWindow,
		Retention:     cfg.Retention,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// background top-up keeps every auto channel's coverage above the
	// low-water mark
	go eng.RunTopUp(ctx, cfg.TopUpInterval)

	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, store, eng, cat)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
