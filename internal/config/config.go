package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	StaticDir string
	Brand     string

	Admission  AdmissionConfig
	LLM        LLMConfig
	TTS        TTSConfig
	Newsletter NewsletterConfig
	Log        LogConfig

	DatabaseURL string
}

type AdmissionConfig struct {
	// AllowedOrigins are extra referer/origin substrings on top of the
	// built-in list, including the deployment domains.
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
	SweepInterval  time.Duration
	RedisAddr      string
}

type LLMConfig struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	Timeout       time.Duration
}

type TTSConfig struct {
	APIKey    string
	BaseURL   string
	ModelID   string
	CacheTTL  time.Duration
	CacheSize int
}

type NewsletterConfig struct {
	ResendAPIKey string
	FromEmail    string
	TokenSecret  string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// LoadDotEnv fills unset variables from .env.local and .env in the working
// directory. Set DOTENV=off to skip.
func LoadDotEnv() ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DOTENV"))) {
	case "0", "false", "off", "no":
		return nil, nil
	}

	var loaded []string
	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("failed to load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		StaticDir:   getEnv("STATIC_DIR", "."),
		Brand:       strings.ToLower(getEnv("SITE_BRAND", "mindbalance")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", "openai"),
			OpenAIAPIKey:  os.Getenv("AI_INTEGRATIONS_OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("AI_INTEGRATIONS_OPENAI_BASE_URL"),
			OpenAIModel:   os.Getenv("OPENAI_MODEL"),
			GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
			GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
			GeminiModel:   os.Getenv("GEMINI_MODEL"),
		},
		TTS: TTSConfig{
			APIKey:  os.Getenv("ELEVENLABS_API_KEY"),
			BaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
			ModelID: getEnv("ELEVENLABS_MODEL", "eleven_multilingual_v2"),
		},
		Newsletter: NewsletterConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			FromEmail:    os.Getenv("NEWSLETTER_FROM_EMAIL"),
			TokenSecret:  os.Getenv("NEWSLETTER_TOKEN_SECRET"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	cfg.Admission.AllowedOrigins = allowedOrigins()
	cfg.Admission.RedisAddr = os.Getenv("REDIS_ADDR")

	var err error
	if cfg.Admission.RateLimit, err = getInt("RATE_LIMIT_REQUESTS", 10); err != nil {
		return nil, err
	}
	if cfg.Admission.RateWindow, err = getSeconds("RATE_LIMIT_WINDOW", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.Admission.SweepInterval, err = getSeconds("RATE_LIMIT_SWEEP_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.LLM.Timeout, err = getSeconds("UPSTREAM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.TTS.CacheTTL, err = getSeconds("TTS_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.TTS.CacheSize, err = getInt("TTS_CACHE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.Log.Pretty, err = getBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}

	if cfg.Admission.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	if cfg.Admission.RateWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	return cfg, nil
}

func allowedOrigins() []string {
	var out []string
	out = append(out, splitList(os.Getenv("ALLOWED_ORIGINS"))...)
	if dev := strings.TrimSpace(os.Getenv("REPLIT_DEV_DOMAIN")); dev != "" {
		out = append(out, dev)
	}
	out = append(out, splitList(os.Getenv("REPLIT_DOMAINS"))...)
	return out
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

// getSeconds accepts a whole number of seconds or a Go duration string.
func getSeconds(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
