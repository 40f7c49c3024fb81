package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mindspace/internal/models"
	"github.com/mindspace/internal/tts"
)

const (
	defaultVoice    = "rachel"
	defaultLanguage = "en"
)

func (a *API) TTSVoices(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return jsonResponse(http.StatusOK, models.VoicesResponse{
		Voices:    tts.Voices(),
		Available: a.tts.Available(),
	}), nil
}

func (a *API) TTSHealth(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return jsonResponse(http.StatusOK, models.TTSHealthResponse{
		Available: a.tts.Available(),
		Service:   "elevenlabs",
	}), nil
}

func (a *API) TTSGenerate(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if !a.tts.Available() {
		return createErrorResponse(http.StatusInternalServerError, "NOT_CONFIGURED", "Voice synthesis is not configured", ""), nil
	}

	var req models.TTSRequest
	if err := decodeBody(request, &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "INVALID_REQUEST", "No data provided", ""), nil
	}
	if req.Voice == "" {
		req.Voice = defaultVoice
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}

	audio, err := a.tts.Synthesize(ctx, req.Text, req.Voice, req.Language)
	switch {
	case err == nil:
		return audioResponse(audio), nil
	case errors.Is(err, tts.ErrEmptyText):
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "No text provided", ""), nil
	case errors.Is(err, tts.ErrTextTooLong):
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Text too long (max 5000 characters)", ""), nil
	case tts.IsQuota(err):
		return createErrorResponse(http.StatusTooManyRequests, "QUOTA_EXCEEDED", "API quota exceeded. Please try again later or use browser voice.", ""), nil
	default:
		a.requestLogger(request).Error().Err(err).Msg("voice synthesis failed")
		return createErrorResponse(http.StatusInternalServerError, "UPSTREAM_ERROR", "Voice synthesis failed. Please try again.", ""), nil
	}
}
