package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-lambda-go/events"

	"github.com/mindspace/internal/api"
)

func TestNewWiresBackends(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("AI_INTEGRATIONS_OPENAI_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "2")

	a, err := New(context.Background(), "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Redis == nil || a.memory != nil {
		t.Fatal("expected redis-backed rate limiting")
	}

	handler := api.Router(a.API.Group(api.GroupNewsletter))
	send := func() events.APIGatewayProxyResponse {
		r := events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Path:       "/api/newsletter",
			Body:       `{"email":"someone@example.org"}`,
		}
		r.RequestContext.Identity.SourceIP = "198.51.100.9"
		resp, err := handler(context.Background(), r)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := send(); resp.StatusCode != http.StatusOK {
		t.Fatalf("subscribe = %d %s", resp.StatusCode, resp.Body)
	}
	if resp := send(); resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat subscribe = %d %s", resp.StatusCode, resp.Body)
	}
	if resp := send(); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third request = %d", resp.StatusCode)
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RATE_LIMIT_SWEEP_INTERVAL", "1")

	a, err := New(context.Background(), "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Redis != nil || a.memory == nil {
		t.Fatal("expected in-memory rate limiting")
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.RunBackground(ctx)
	cancel()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "zero")
	if _, err := New(context.Background(), "test"); err == nil {
		t.Fatal("expected configuration error")
	}
}
