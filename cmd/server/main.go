package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mindspace/internal/app"
	"github.com/mindspace/internal/config"
	"github.com/mindspace/internal/db"
	"github.com/mindspace/internal/server"
)

func main() {
	loaded, err := config.LoadDotEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, "server")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	defer application.Close()
	logger := application.Logger
	if len(loaded) > 0 {
		logger.Info().Strs("files", loaded).Msg("loaded env files")
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.New(server.Options{
		API:       application.API,
		StaticDir: application.Config.StaticDir,
		DB:        db.DB,
		Redis:     application.Redis,
		Logger:    logger,
	})
	application.RunBackground(ctx)

	srv := &http.Server{
		Addr:              ":" + application.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("static_dir", application.Config.StaticDir).
		Str("brand", application.Config.Brand).
		Bool("tts", application.TTS.Available()).
		Msg("starting server")
	logger.Info().Msg("endpoints: /insights/*, /api/wellness/*, /api/tts/*, /api/newsletter*, /health, /stats, /metrics")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
