package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mindspace/internal/config"
)

func TestOpenAIGeneratorRequestsJSONObject(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-5-nano",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"insight\": \"hi\"}"}
			}]
		}`)
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator(OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key"}, srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	got, err := g.GenerateJSON(context.Background(), "prompt text", 150)
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"insight": "hi"}` {
		t.Fatalf("content = %q", got)
	}

	if body["model"] != DefaultOpenAIModel {
		t.Errorf("model = %v", body["model"])
	}
	if body["max_completion_tokens"] != float64(150) {
		t.Errorf("max_completion_tokens = %v", body["max_completion_tokens"])
	}
	rf, _ := body["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("response_format = %v", body["response_format"])
	}
}

func TestOpenAIGeneratorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error": {"message": "overloaded"}}`)
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator(OpenAIConfig{BaseURL: srv.URL, APIKey: "k"}, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.GenerateJSON(context.Background(), "p", 10); err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("upstream called %d times, want 1", n)
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIConfig{}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	gen, err := NewFromConfig(ctx, config.LLMConfig{Provider: "openai"})
	if err != nil || gen != nil {
		t.Fatalf("unconfigured provider: gen=%v err=%v", gen, err)
	}

	gen, err = NewFromConfig(ctx, config.LLMConfig{Provider: "openai", OpenAIAPIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := gen.(*OpenAIGenerator); !ok {
		t.Fatalf("got %T", gen)
	}

	if _, err := NewFromConfig(ctx, config.LLMConfig{Provider: "nope"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
