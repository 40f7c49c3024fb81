// Package insights turns a user's wellness data into short AI-written
// insights. Every call returns a presentable result: when the upstream model
// fails or answers with something unusable, a canned fallback is used.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindspace/internal/metrics"
	"github.com/mindspace/internal/models"
)

// Output token caps per variant.
const (
	wellnessMaxTokens = 300
	moodMaxTokens     = 200
	goalMaxTokens     = 150
)

var ErrMalformedResponse = errors.New("malformed upstream response")

// TextGenerator asks a hosted model for a JSON object and returns its raw text.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Generator struct {
	llm     TextGenerator
	timeout time.Duration
	logger  zerolog.Logger
	pick    func(n int) int
}

// NewGenerator wraps llm. A nil llm sends every call straight to fallback.
// timeout bounds each upstream call; zero leaves it to the caller's context.
func NewGenerator(llm TextGenerator, timeout time.Duration, logger zerolog.Logger) *Generator {
	return &Generator{
		llm:     llm,
		timeout: timeout,
		logger:  logger.With().Str("component", "insights").Logger(),
		pick:    rand.IntN,
	}
}

// WellnessInsight summarizes mood, goals and streak into an insight and an
// affirmation. Fallbacks are drawn at random from FallbackInsights and carry
// Success=false.
func (g *Generator) WellnessInsight(ctx context.Context, req models.WellnessInsightRequest) models.WellnessInsightResponse {
	var out struct {
		Insight     string `json:"insight"`
		Affirmation string `json:"affirmation"`
	}
	err := g.complete(ctx, "wellness", wellnessPrompt(req), wellnessMaxTokens, &out, func() bool {
		return out.Insight != "" && out.Affirmation != ""
	})
	if err != nil {
		fb := FallbackInsights[g.pick(len(FallbackInsights))]
		return models.WellnessInsightResponse{
			Success:     false,
			Insight:     fb.Insight,
			Affirmation: fb.Affirmation,
		}
	}
	return models.WellnessInsightResponse{
		Success:     true,
		Insight:     out.Insight,
		Affirmation: out.Affirmation,
	}
}

// MoodAnalysis always reports Success=true, including its fallback. With
// fewer than three entries the model is not consulted.
func (g *Generator) MoodAnalysis(ctx context.Context, req models.MoodAnalysisRequest) models.MoodAnalysisResponse {
	if len(req.MoodEntries) < minMoodEntries {
		metrics.InsightResults.WithLabelValues("mood", "skipped").Inc()
		return MoodGuidance()
	}

	st := computeMoodStats(req.MoodEntries)

	var out struct {
		Analysis   string `json:"analysis"`
		Suggestion string `json:"suggestion"`
	}
	err := g.complete(ctx, "mood", moodPrompt(st), moodMaxTokens, &out, func() bool {
		return out.Analysis != "" && out.Suggestion != ""
	})
	if err != nil {
		return models.MoodAnalysisResponse{
			Success:    true,
			Analysis:   fmt.Sprintf("Your average mood is %.1f/5 with %d being most common.", st.Average, st.MostCommon),
			Suggestion: MoodFallbackSuggestion,
		}
	}
	return models.MoodAnalysisResponse{
		Success:    true,
		Analysis:   out.Analysis,
		Suggestion: out.Suggestion,
	}
}

// GoalSuggestion proposes a goal in the first category without an active
// goal. Fallbacks come from GoalSuggestions and carry Success=false.
func (g *Generator) GoalSuggestion(ctx context.Context, req models.GoalSuggestionRequest) models.GoalSuggestionResponse {
	existing, missing := goalCoverage(req.CurrentGoals)
	category := missing[0]

	var out struct {
		Goal     string `json:"goal"`
		Category string `json:"category"`
		Why      string `json:"why"`
	}
	err := g.complete(ctx, "goal", goalPrompt(existing, missing, len(req.CompletedGoals)), goalMaxTokens, &out, func() bool {
		return out.Goal != "" && out.Why != ""
	})
	if err != nil {
		return models.GoalSuggestionResponse{
			Success:  false,
			Goal:     GoalSuggestions[category],
			Category: category,
			Why:      GoalFallbackWhy,
		}
	}
	if out.Category == "" {
		out.Category = category
	}
	return models.GoalSuggestionResponse{
		Success:  true,
		Goal:     out.Goal,
		Category: out.Category,
		Why:      out.Why,
	}
}

// complete runs one prompt through the model and decodes the reply into dst.
// There are no retries: any failure is returned for the caller to fall back.
func (g *Generator) complete(ctx context.Context, variant, prompt string, maxTokens int, dst any, valid func() bool) error {
	err := g.call(ctx, prompt, maxTokens, dst, valid)
	if err != nil {
		g.logger.Warn().Err(err).Str("variant", variant).Msg("insight generation failed, using fallback")
		metrics.InsightResults.WithLabelValues(variant, "fallback").Inc()
		return err
	}
	metrics.InsightResults.WithLabelValues(variant, "success").Inc()
	return nil
}

func (g *Generator) call(ctx context.Context, prompt string, maxTokens int, dst any, valid func() bool) error {
	if g.llm == nil {
		return errors.New("text generation is not configured")
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := g.llm.GenerateJSON(ctx, prompt, maxTokens)
	metrics.UpstreamDuration.WithLabelValues("text-generation").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("upstream call: %w", err)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(content), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !valid() {
		return fmt.Errorf("%w: missing expected keys", ErrMalformedResponse)
	}
	return nil
}

// MoodGuidance is the fixed answer for histories too short to analyze.
func MoodGuidance() models.MoodAnalysisResponse {
	return models.MoodAnalysisResponse{
		Success:    true,
		Analysis:   MoodGuidanceAnalysis,
		Suggestion: MoodGuidanceSuggestion,
	}
}

// DefaultInsightResponse is returned when the request itself is unreadable.
func DefaultInsightResponse() models.WellnessInsightResponse {
	return models.WellnessInsightResponse{Success: false, Insight: DefaultInsight, Affirmation: DefaultAffirmation}
}

// DefaultGoalResponse is returned when the request itself is unreadable.
func DefaultGoalResponse() models.GoalSuggestionResponse {
	return models.GoalSuggestionResponse{Success: false, Goal: DefaultGoal, Category: "mindfulness", Why: DefaultGoalWhy}
}
