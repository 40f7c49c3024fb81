// Package app builds the handler graph from configuration. The Lambda
// functions and the local server share it.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mindspace/internal/admission"
	"github.com/mindspace/internal/api"
	"github.com/mindspace/internal/auth"
	"github.com/mindspace/internal/config"
	"github.com/mindspace/internal/db"
	"github.com/mindspace/internal/email"
	"github.com/mindspace/internal/insights"
	"github.com/mindspace/internal/llm"
	"github.com/mindspace/internal/logging"
	"github.com/mindspace/internal/newsletter"
	"github.com/mindspace/internal/tts"
)

const cacheCleanupInterval = time.Minute

type App struct {
	Config *config.Config
	Logger zerolog.Logger
	API    *api.API
	TTS    *tts.Client
	Redis  *redis.Client

	memory *admission.MemoryStore
}

// New loads configuration and wires every collaborator. Optional backends
// that fail to come up are logged and left out; only invalid configuration
// is an error.
func New(ctx context.Context, service string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log, service)
	a := &App{Config: cfg, Logger: logger}

	// Rate-limit state: Redis when configured, otherwise in process.
	var store admission.Store
	if cfg.Admission.RedisAddr != "" {
		client, err := admission.NewRedisClient(cfg.Admission.RedisAddr)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Admission.RedisAddr).Msg("redis unavailable, rate limiting in memory")
		} else {
			a.Redis = client
			store = admission.NewRedisStore(client, cfg.Admission.RateLimit, cfg.Admission.RateWindow)
		}
	}
	if store == nil {
		a.memory = admission.NewMemoryStore(cfg.Admission.RateLimit, cfg.Admission.RateWindow)
		store = a.memory
	}

	gen, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("text generation disabled")
		gen = nil
	} else if gen == nil {
		logger.Info().Msg("no text generation credentials, insights use fallbacks")
	}

	a.TTS = tts.NewClient(tts.Options{
		APIKey:    cfg.TTS.APIKey,
		BaseURL:   cfg.TTS.BaseURL,
		ModelID:   cfg.TTS.ModelID,
		CacheTTL:  cfg.TTS.CacheTTL,
		CacheSize: cfg.TTS.CacheSize,
	}, logger)

	a.API = api.New(api.Deps{
		Insights:   insights.NewGenerator(gen, cfg.LLM.Timeout, logger),
		TTS:        a.TTS,
		Newsletter: newNewsletter(cfg, logger),
		Referer:    admission.NewRefererPolicy(cfg.Admission.AllowedOrigins...),
		Limiter:    admission.NewLimiter(store),
		Logger:     logger,
	})
	return a, nil
}

func newNewsletter(cfg *config.Config, logger zerolog.Logger) *newsletter.Service {
	var store newsletter.Store
	switch err := db.InitDB(cfg.DatabaseURL); {
	case err == nil:
		store = newsletter.NewSQLStore(db.DB, db.Driver)
	case errors.Is(err, db.ErrNotConfigured):
		logger.Info().Msg("no database configured, newsletter disabled")
	default:
		logger.Error().Err(err).Msg("database unavailable, newsletter disabled")
	}

	var mailer newsletter.Mailer
	if sender := email.NewResendSender(cfg.Newsletter.ResendAPIKey); sender != nil {
		mailer = sender
	}

	return newsletter.NewService(
		store,
		mailer,
		auth.NewSigner(cfg.Newsletter.TokenSecret),
		newsletter.BrandFor(cfg.Brand),
		cfg.Newsletter.FromEmail,
		logger,
	)
}

// RunBackground starts housekeeping loops that stop with ctx.
func (a *App) RunBackground(ctx context.Context) {
	if a.memory != nil && a.Config.Admission.SweepInterval > 0 {
		go a.memory.RunSweeper(ctx, a.Config.Admission.SweepInterval, func(removed int) {
			if removed > 0 {
				a.Logger.Debug().Int("removed", removed).Msg("swept idle rate-limit clients")
			}
		})
	}
	if audio := a.TTS.AudioCache(); audio != nil {
		go audio.RunCleanup(ctx, cacheCleanupInterval)
	}
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if db.DB != nil {
		db.DB.Close()
	}
}
