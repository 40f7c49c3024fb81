package api

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// Route groups, one per Lambda function that serves several routes.
const (
	GroupInsights   = "insights"
	GroupTTS        = "tts"
	GroupNewsletter = "newsletter"
)

type Route struct {
	Name    string
	Group   string
	Methods []string
	Paths   []string
	Handler Handler
}

// Routes returns every endpoint with its admission gates applied.
func (a *API) Routes() []Route {
	referer := func(h Handler) Handler { return withReferer(a.referer, a.logger, h) }
	rate := func(h Handler) Handler { return withRateLimit(a.limiter, a.logger, h) }

	insightMethods := []string{http.MethodPost, http.MethodOptions}
	return []Route{
		{
			Name:    "generate-insight",
			Group:   GroupInsights,
			Methods: insightMethods,
			Paths:   []string{"/insights/generate", "/api/wellness/insights"},
			Handler: a.GenerateInsight,
		},
		{
			Name:    "mood-analysis",
			Group:   GroupInsights,
			Methods: insightMethods,
			Paths:   []string{"/insights/mood-analysis", "/api/wellness/mood-analysis"},
			Handler: a.MoodAnalysis,
		},
		{
			Name:    "goal-suggestion",
			Group:   GroupInsights,
			Methods: insightMethods,
			Paths:   []string{"/insights/goal-suggestion", "/api/wellness/goal-suggestion"},
			Handler: a.GoalSuggestion,
		},
		{
			Name:    "tts-voices",
			Group:   GroupTTS,
			Methods: []string{http.MethodGet},
			Paths:   []string{"/api/tts/voices"},
			Handler: referer(a.TTSVoices),
		},
		{
			Name:    "tts-health",
			Group:   GroupTTS,
			Methods: []string{http.MethodGet},
			Paths:   []string{"/api/tts/health"},
			Handler: referer(a.TTSHealth),
		},
		{
			Name:    "tts-generate",
			Group:   GroupTTS,
			Methods: []string{http.MethodPost},
			Paths:   []string{"/api/tts/generate"},
			Handler: referer(rate(a.TTSGenerate)),
		},
		{
			Name:    "newsletter-subscribe",
			Group:   GroupNewsletter,
			Methods: []string{http.MethodPost},
			Paths:   []string{"/api/newsletter", "/api/newsletter/subscribe"},
			Handler: referer(rate(a.Subscribe)),
		},
		{
			Name:    "newsletter-unsubscribe",
			Group:   GroupNewsletter,
			Methods: []string{http.MethodGet},
			Paths:   []string{"/api/newsletter/unsubscribe"},
			Handler: rate(a.Unsubscribe),
		},
	}
}

// Lookup returns the gated handler for the named route, or nil.
func (a *API) Lookup(name string) Handler {
	for _, r := range a.Routes() {
		if r.Name == name {
			return r.Handler
		}
	}
	return nil
}

// Group returns the routes belonging to group.
func (a *API) Group(group string) []Route {
	var out []Route
	for _, r := range a.Routes() {
		if r.Group == group {
			out = append(out, r)
		}
	}
	return out
}

// Router dispatches on path and method. OPTIONS on a known path answers 204.
func Router(routes []Route) Handler {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		path := request.Path
		if len(path) > 1 {
			path = strings.TrimRight(path, "/")
		}

		known := false
		for _, r := range routes {
			if !slices.Contains(r.Paths, path) {
				continue
			}
			known = true
			if slices.Contains(r.Methods, request.HTTPMethod) {
				return r.Handler(ctx, request)
			}
		}

		switch {
		case !known:
			return createErrorResponse(http.StatusNotFound, "NOT_FOUND", "Not found", ""), nil
		case request.HTTPMethod == http.MethodOptions:
			return noContent(), nil
		default:
			return createErrorResponse(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", ""), nil
		}
	}
}
