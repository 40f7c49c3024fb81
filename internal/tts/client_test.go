package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestResolveVoice(t *testing.T) {
	tests := []struct {
		voice, language, want string
	}{
		{"adam", "en", "21m00Tcm4TlvDq8ikWAM"},
		{"", "fr", "ErXwobaYiN019PkySvjV"},
		{"nobody", "es", "21m00Tcm4TlvDq8ikWAM"},
		{"", "", "EXAVITQu4vr4xnSDxMaL"},
		{"", "de", "EXAVITQu4vr4xnSDxMaL"},
	}
	for _, tt := range tests {
		if got := ResolveVoice(tt.voice, tt.language); got != tt.want {
			t.Errorf("ResolveVoice(%q, %q) = %s, want %s", tt.voice, tt.language, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if _, err := Validate("   "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("blank text: %v", err)
	}
	if _, err := Validate(strings.Repeat("a", MaxTextLength+1)); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("long text: %v", err)
	}
	got, err := Validate("  breathe  ")
	if err != nil || got != "breathe" {
		t.Fatalf("Validate = %q, %v", got, err)
	}
}

func TestSynthesizeNotConfigured(t *testing.T) {
	c := NewClient(Options{}, zerolog.Nop())
	if c.Available() {
		t.Fatal("expected client without key to be unavailable")
	}
	if _, err := c.Synthesize(context.Background(), "hi", "", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

func TestSynthesizeRequestAndCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/text-to-speech/ErXwobaYiN019PkySvjV" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("output_format"); got != OutputFormat {
			t.Errorf("output_format = %s", got)
		}
		if got := r.Header.Get("xi-api-key"); got != "secret" {
			t.Errorf("api key header = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["text"] != "Bonjour" || body["model_id"] != DefaultModelID {
			t.Errorf("body = %v", body)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3audio"))
	}))
	defer srv.Close()

	c := NewClient(Options{
		APIKey:    "secret",
		BaseURL:   srv.URL,
		CacheTTL:  time.Minute,
		CacheSize: 4,
	}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		audio, err := c.Synthesize(context.Background(), " Bonjour ", "", "fr")
		if err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
		if string(audio) != "ID3audio" {
			t.Fatalf("audio = %q", audio)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("upstream calls = %d, want 1", calls.Load())
	}
	if c.AudioCache().Size() != 1 {
		t.Fatalf("cache size = %d", c.AudioCache().Size())
	}
}

func TestSynthesizeUpstreamErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantQuota bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"detail":"slow down"}`, true},
		{"quota message", http.StatusUnauthorized, `{"detail":{"status":"quota_exceeded","message":"This request exceeds your quota"}}`, true},
		{"server error", http.StatusInternalServerError, `boom`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Options{APIKey: "k", BaseURL: srv.URL}, zerolog.Nop())
			_, err := c.Synthesize(context.Background(), "hello", "rachel", "en")

			var ue *UpstreamError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %v, want UpstreamError", err)
			}
			if ue.StatusCode != tt.status {
				t.Fatalf("status = %d", ue.StatusCode)
			}
			if got := IsQuota(err); got != tt.wantQuota {
				t.Fatalf("IsQuota = %v, want %v", got, tt.wantQuota)
			}
		})
	}
}

func TestVoicesReturnsCopy(t *testing.T) {
	v := Voices()
	v[0].Name = "changed"
	if Voices()[0].Name == "changed" {
		t.Fatal("Voices exposed internal slice")
	}
}
