package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/mindspace/internal/admission"
	"github.com/mindspace/internal/metrics"
)

const (
	msgUnauthorized = "Unauthorized request"
	msgRateLimited  = "Rate limit exceeded. Please wait before trying again."
)

// Handler is the API Gateway proxy handler signature shared by the Lambda
// functions and the local server.
type Handler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// header looks name up case-insensitively; API Gateway preserves the
// client's casing.
func header(request events.APIGatewayProxyRequest, name string) string {
	if v, ok := request.Headers[name]; ok {
		return v
	}
	for k, v := range request.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// ClientIP is the key used for rate limiting.
func ClientIP(request events.APIGatewayProxyRequest) string {
	if ip := strings.TrimSpace(request.RequestContext.Identity.SourceIP); ip != "" {
		return ip
	}
	return admission.UnknownClient
}

func withReferer(policy *admission.RefererPolicy, logger zerolog.Logger, next Handler) Handler {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if err := policy.Check(header(request, "Referer"), header(request, "Origin")); err != nil {
			metrics.AdmissionDecisions.WithLabelValues("referer", "denied").Inc()
			logger.Info().
				Str("gate", "referer").
				Str("client", ClientIP(request)).
				Str("referer", header(request, "Referer")).
				Str("origin", header(request, "Origin")).
				Msg("request denied")
			return createErrorResponse(http.StatusForbidden, "FORBIDDEN", msgUnauthorized, ""), nil
		}
		metrics.AdmissionDecisions.WithLabelValues("referer", "allowed").Inc()
		return next(ctx, request)
	}
}

func withRateLimit(limiter *admission.Limiter, logger zerolog.Logger, next Handler) Handler {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		client := ClientIP(request)
		err := limiter.Allow(ctx, client)
		switch {
		case errors.Is(err, admission.ErrRateLimited):
			metrics.AdmissionDecisions.WithLabelValues("rate", "limited").Inc()
			logger.Info().Str("gate", "rate").Str("client", client).Msg("request rate limited")
			return createErrorResponse(http.StatusTooManyRequests, "RATE_LIMITED", msgRateLimited, ""), nil
		case err != nil:
			// Store unreachable: admit.
			metrics.AdmissionDecisions.WithLabelValues("rate", "error").Inc()
			logger.Error().Err(err).Str("client", client).Msg("rate limit check failed")
		default:
			metrics.AdmissionDecisions.WithLabelValues("rate", "allowed").Inc()
		}
		return next(ctx, request)
	}
}
