// Package server runs every route on one gin engine for local development
// and single-host deployments, alongside the static site.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mindspace/internal/api"
)

type Options struct {
	API       *api.API
	StaticDir string
	// DB and Redis are optional; when set they are reported by /health.
	DB     *sql.DB
	Redis  *redis.Client
	Logger zerolog.Logger
}

func New(opts Options) *gin.Engine {
	logger := opts.Logger.With().Str("component", "server").Logger()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", healthHandler(opts.DB, opts.Redis))
	router.GET("/stats", statsHandler(opts.API))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, route := range opts.API.Routes() {
		h := adapt(route.Handler, logger)
		for _, path := range route.Paths {
			for _, method := range route.Methods {
				router.Handle(method, path, h)
			}
		}
	}

	static := staticHandler(opts.StaticDir)
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			static(c)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Info()
		if status >= http.StatusInternalServerError {
			ev = logger.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client", c.RemoteIP()).
			Msg("request")
	}
}

func healthHandler(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if db != nil {
			dbStatus = "ok"
			if err := db.PingContext(ctx); err != nil {
				dbStatus = "error"
			}
		}
		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				redisStatus = "error"
			}
		}

		status := "healthy"
		statusCode := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
		})
	}
}

func statsHandler(a *api.API) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := gin.H{
			"rate_limit_clients": a.Limiter().Clients(),
			"tts_available":      a.TTS().Available(),
		}
		if audio := a.TTS().AudioCache(); audio != nil {
			stats["audio_cache_size"] = audio.Size()
			stats["audio_cache_hit_rate"] = audio.HitRate()
		}
		c.JSON(http.StatusOK, stats)
	}
}
