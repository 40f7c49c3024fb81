package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mindspace/internal/models"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

func headers(contentType string) map[string]string {
	h := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		h[k] = v
	}
	if contentType != "" {
		h["Content-Type"] = contentType
	}
	return h
}

func jsonResponse(statusCode int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return createErrorResponse(http.StatusInternalServerError, "SERIALIZATION_ERROR", "Failed to serialize response", "")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers("application/json"),
		Body:       string(body),
	}
}

// createErrorResponse never carries upstream bodies or internal error text;
// details is reserved for caller-facing hints.
func createErrorResponse(statusCode int, code, message, details string) events.APIGatewayProxyResponse {
	errorResp := models.ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	body, _ := json.Marshal(errorResp)
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers("application/json"),
		Body:       string(body),
	}
}

func noContent() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    headers(""),
	}
}

func audioResponse(audio []byte) events.APIGatewayProxyResponse {
	h := headers("audio/mpeg")
	h["Cache-Control"] = "public, max-age=3600"
	return events.APIGatewayProxyResponse{
		StatusCode:      http.StatusOK,
		Headers:         h,
		Body:            base64.StdEncoding.EncodeToString(audio),
		IsBase64Encoded: true,
	}
}
