package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mindspace/internal/insights"
	"github.com/mindspace/internal/models"
)

// The insight endpoints always answer 200; an unreadable body gets the
// endpoint's default result instead of an error status.

func (a *API) GenerateInsight(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if isPreflight(request) {
		return noContent(), nil
	}

	var req models.WellnessInsightRequest
	if err := decodeBody(request, &req); err != nil && !errors.Is(err, errEmptyBody) {
		a.requestLogger(request).Warn().Err(err).Msg("unreadable wellness insight request")
		return jsonResponse(http.StatusOK, insights.DefaultInsightResponse()), nil
	}

	return jsonResponse(http.StatusOK, a.insights.WellnessInsight(ctx, req)), nil
}

func (a *API) MoodAnalysis(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if isPreflight(request) {
		return noContent(), nil
	}

	var req models.MoodAnalysisRequest
	if err := decodeBody(request, &req); err != nil && !errors.Is(err, errEmptyBody) {
		a.requestLogger(request).Warn().Err(err).Msg("unreadable mood analysis request")
		return jsonResponse(http.StatusOK, insights.MoodGuidance()), nil
	}

	return jsonResponse(http.StatusOK, a.insights.MoodAnalysis(ctx, req)), nil
}

func (a *API) GoalSuggestion(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if isPreflight(request) {
		return noContent(), nil
	}

	var req models.GoalSuggestionRequest
	if err := decodeBody(request, &req); err != nil && !errors.Is(err, errEmptyBody) {
		a.requestLogger(request).Warn().Err(err).Msg("unreadable goal suggestion request")
		return jsonResponse(http.StatusOK, insights.DefaultGoalResponse()), nil
	}

	return jsonResponse(http.StatusOK, a.insights.GoalSuggestion(ctx, req)), nil
}
