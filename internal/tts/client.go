// Package tts proxies text-to-speech requests to ElevenLabs.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mindspace/internal/cache"
	"github.com/mindspace/internal/metrics"
)

const (
	MaxTextLength = 5000
	OutputFormat  = "mp3_44100_128"

	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultModelID = "eleven_multilingual_v2"

	maxErrorBody = 4 << 10
)

var (
	ErrNotConfigured = errors.New("voice synthesis is not configured")
	ErrEmptyText     = errors.New("no text provided")
	ErrTextTooLong   = fmt.Errorf("text too long (max %d characters)", MaxTextLength)
)

// UpstreamError is a non-2xx answer from the synthesis API.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("elevenlabs: status %d: %s", e.StatusCode, e.Message)
}

// IsQuota reports whether the upstream refused for quota or rate limiting.
func (e *UpstreamError) IsQuota() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "limit")
}

// IsQuota reports whether err carries an UpstreamError that IsQuota.
func IsQuota(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.IsQuota()
}

type Options struct {
	APIKey     string
	BaseURL    string
	ModelID    string
	CacheTTL   time.Duration
	CacheSize  int
	HTTPClient *http.Client
}

type Client struct {
	apiKey     string
	baseURL    string
	modelID    string
	httpClient *http.Client
	audio      *cache.LocalCache[[]byte]
	logger     zerolog.Logger
}

func NewClient(opts Options, logger zerolog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ModelID == "" {
		opts.ModelID = DefaultModelID
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	c := &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		modelID:    opts.ModelID,
		httpClient: opts.HTTPClient,
		logger:     logger.With().Str("component", "tts").Logger(),
	}
	if opts.CacheTTL > 0 && opts.CacheSize > 0 {
		c.audio = cache.NewLocalCache[[]byte](opts.CacheTTL, opts.CacheSize)
	}
	return c
}

func (c *Client) Available() bool {
	return c.apiKey != ""
}

// AudioCache exposes the synthesized audio cache; nil when caching is off.
func (c *Client) AudioCache() *cache.LocalCache[[]byte] {
	return c.audio
}

// Validate trims text and checks it against the request limits.
func Validate(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", ErrTextTooLong
	}
	return text, nil
}

// Synthesize returns MP3 audio for text spoken by the resolved voice.
func (c *Client) Synthesize(ctx context.Context, text, voice, language string) ([]byte, error) {
	if !c.Available() {
		return nil, ErrNotConfigured
	}
	text, err := Validate(text)
	if err != nil {
		return nil, err
	}
	voiceID := ResolveVoice(voice, language)

	key := voiceID + "\x00" + text
	if c.audio != nil {
		if audio, ok := c.audio.Get(key); ok {
			return audio, nil
		}
	}

	start := time.Now()
	audio, err := c.convert(ctx, voiceID, text)
	metrics.UpstreamDuration.WithLabelValues("voice-synthesis").Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn().Err(err).Str("voice_id", voiceID).Int("chars", len(text)).Msg("synthesis failed")
		return nil, err
	}

	if c.audio != nil {
		c.audio.Set(key, audio)
	}
	return audio, nil
}

func (c *Client) convert(ctx context.Context, voiceID, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": c.modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.baseURL, url.PathEscape(voiceID), url.QueryEscape(OutputFormat))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMessage(body)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}

// upstreamMessage pulls detail.message or detail.status out of an error
// body, falling back to the raw text.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Detail) > 0 {
		var detail struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(parsed.Detail, &detail); err == nil && (detail.Status != "" || detail.Message != "") {
			return strings.TrimSpace(detail.Status + " " + detail.Message)
		}
		var s string
		if err := json.Unmarshal(parsed.Detail, &s); err == nil {
			return s
		}
	}
	return strings.TrimSpace(string(body))
}
