package server

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindspace/internal/api"
)

const maxBodyBytes = 1 << 20

// adapt runs an API Gateway handler behind gin.
func adapt(h api.Handler, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, err := toProxyRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
			return
		}

		resp, err := h(c.Request.Context(), request)
		if err != nil {
			logger.Error().Err(err).Str("path", request.Path).Msg("handler error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		writeProxyResponse(c, resp, logger)
	}
}

func toProxyRequest(c *gin.Context) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	request := events.APIGatewayProxyRequest{
		Resource:              c.FullPath(),
		Path:                  c.Request.URL.Path,
		HTTPMethod:            c.Request.Method,
		Headers:               headers,
		MultiValueHeaders:     c.Request.Header,
		QueryStringParameters: query,
		Body:                  string(body),
	}
	request.RequestContext.RequestID = uuid.NewString()
	request.RequestContext.Identity.SourceIP = c.RemoteIP()
	return request, nil
}

func writeProxyResponse(c *gin.Context, resp events.APIGatewayProxyResponse, logger zerolog.Logger) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			logger.Error().Err(err).Msg("decode response body")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		body = decoded
	}

	if len(body) == 0 {
		c.Status(resp.StatusCode)
		return
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], body)
}
