package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mindspace/internal/api"
	"github.com/mindspace/internal/insights"
	"github.com/mindspace/internal/models"
)

type failingLLM struct{}

func (failingLLM) GenerateJSON(context.Context, string, int) (string, error) {
	return "", errors.New("unavailable")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T, opts Options) (*gin.Engine, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "index.html", "home")
	writeFile(t, root, "about/index.html", "about")
	writeFile(t, root, "css/site.css", "body{}")

	if opts.API == nil {
		opts.API = api.New(api.Deps{
			Insights: insights.NewGenerator(failingLLM{}, time.Second, zerolog.Nop()),
			Logger:   zerolog.Nop(),
		})
	}
	opts.StaticDir = root
	opts.Logger = zerolog.Nop()
	return New(opts), root
}

func do(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStaticFiles(t *testing.T) {
	r, _ := newTestServer(t, Options{})
	tests := []struct {
		target string
		want   string
	}{
		{"/", "home"},
		{"/about/", "about"},
		{"/css/site.css", "body{}"},
		{"/profile/settings", "home"},
	}
	for _, tt := range tests {
		rec := do(r, http.MethodGet, tt.target, "", nil)
		if rec.Code != http.StatusOK || rec.Body.String() != tt.want {
			t.Errorf("GET %s = %d %q, want %q", tt.target, rec.Code, rec.Body.String(), tt.want)
		}
	}

	if rec := do(r, http.MethodPost, "/nowhere", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("POST unknown = %d", rec.Code)
	}
}

func TestHiddenFilesAreNotServed(t *testing.T) {
	r, root := newTestServer(t, Options{})
	writeFile(t, root, ".env", "RESEND_API_KEY=re_secret\nNEWSLETTER_TOKEN_SECRET=s3cret\n")
	writeFile(t, root, ".git/config", "[remote \"origin\"]")
	writeFile(t, root, "assets/.hidden/app.js", "secret")

	for _, target := range []string{"/.env", "/.git/config", "/.git/", "/assets/.hidden/app.js", "/about/../.env"} {
		rec := do(r, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d %q, want 404", target, rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "origin") {
			t.Errorf("GET %s leaked %q", target, rec.Body.String())
		}
	}

	if _, ok := resolve(root, "/.env"); ok {
		t.Error("resolve(/.env) should refuse")
	}
	if got, ok := resolve(root, "/css/site.css"); !ok || got != filepath.Join(root, "css", "site.css") {
		t.Errorf("resolve(/css/site.css) = %q %v", got, ok)
	}
}

func TestResolveStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "home")
	outside := filepath.Join(filepath.Dir(root), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(outside)

	got, ok := resolve(root, "/../secret.txt")
	if !ok {
		t.Fatal("expected fallback to index")
	}
	if got != filepath.Join(root, "index.html") {
		t.Fatalf("resolved to %s", got)
	}

	if _, ok := resolve(t.TempDir(), "/anything"); ok {
		t.Fatal("empty root should not resolve")
	}
}

func TestInsightRouteThroughAdapter(t *testing.T) {
	r, _ := newTestServer(t, Options{})
	rec := do(r, http.MethodPost, "/insights/goal-suggestion",
		`{"current_goals":[{"category":"exercise"}],"completed_goals":[]}`,
		map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got models.GoalSuggestionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Success || got.Category != "mindfulness" || got.Why != insights.GoalFallbackWhy {
		t.Fatalf("got %+v", got)
	}

	if rec := do(r, http.MethodOptions, "/insights/generate", "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", rec.Code)
	}
}

func TestAdmissionThroughAdapter(t *testing.T) {
	r, _ := newTestServer(t, Options{})

	rec := do(r, http.MethodGet, "/api/tts/voices", "", map[string]string{"Referer": "https://evil.example/"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign referer = %d", rec.Code)
	}

	// httptest requests come from 192.0.2.1.
	body := `{"email":"bad"}`
	for i := 0; i < 10; i++ {
		if rec := do(r, http.MethodPost, "/api/newsletter", body, nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("request %d = %d", i+1, rec.Code)
		}
	}
	if rec := do(r, http.MethodPost, "/api/newsletter", body, nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over limit = %d", rec.Code)
	}
}

func TestHealthAndStats(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r, _ := newTestServer(t, Options{Redis: rdb})

	rec := do(r, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"redis":"ok"`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}

	mr.Close()
	rec = do(r, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"degraded"`) {
		t.Fatalf("health after redis loss = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/stats", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "rate_limit_clients") {
		t.Fatalf("stats = %d %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestServer(t, Options{})
	rec := do(r, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("metrics = %d", rec.Code)
	}
}
