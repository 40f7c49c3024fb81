package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mindspace/internal/auth"
	"github.com/mindspace/internal/models"
	"github.com/mindspace/internal/newsletter"
)

func (a *API) Subscribe(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.SubscribeRequest
	if err := decodeBody(request, &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "INVALID_REQUEST", "No data provided", ""), nil
	}

	res, err := a.newsletter.Subscribe(ctx, req.Email)
	switch {
	case errors.Is(err, newsletter.ErrEmailRequired):
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Email address is required", ""), nil
	case errors.Is(err, newsletter.ErrInvalidEmail):
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Please enter a valid email address", ""), nil
	case errors.Is(err, newsletter.ErrNoDatabase):
		return createErrorResponse(http.StatusInternalServerError, "DATABASE_ERROR", "Database connection failed", ""), nil
	case err != nil:
		a.requestLogger(request).Error().Err(err).Msg("newsletter subscription failed")
		return createErrorResponse(http.StatusInternalServerError, "SERVICE_ERROR", "Something went wrong. Please try again.", ""), nil
	}

	return jsonResponse(http.StatusOK, models.SubscribeResponse{
		Success:           !res.AlreadySubscribed,
		Message:           res.Message,
		AlreadySubscribed: res.AlreadySubscribed,
	}), nil
}

func (a *API) Unsubscribe(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	token := request.QueryStringParameters["token"]
	if token == "" {
		return createErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Missing unsubscribe token", ""), nil
	}

	err := a.newsletter.Unsubscribe(ctx, token)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		return createErrorResponse(http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired unsubscribe link", ""), nil
	case errors.Is(err, auth.ErrNoSecret):
		return createErrorResponse(http.StatusInternalServerError, "NOT_CONFIGURED", "Unsubscribe links are not configured", ""), nil
	case errors.Is(err, newsletter.ErrNoDatabase):
		return createErrorResponse(http.StatusInternalServerError, "DATABASE_ERROR", "Database connection failed", ""), nil
	case err != nil:
		a.requestLogger(request).Error().Err(err).Msg("newsletter unsubscribe failed")
		return createErrorResponse(http.StatusInternalServerError, "SERVICE_ERROR", "Something went wrong. Please try again.", ""), nil
	}

	return jsonResponse(http.StatusOK, models.UnsubscribeResponse{
		Success: true,
		Message: newsletter.MsgUnsubscribed,
	}), nil
}
