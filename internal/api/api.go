// Package api holds the HTTP handlers in API Gateway proxy form, the
// admission middleware in front of them and the route table shared by the
// Lambda functions and the local server.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/mindspace/internal/admission"
	"github.com/mindspace/internal/insights"
	"github.com/mindspace/internal/newsletter"
	"github.com/mindspace/internal/tts"
)

var errEmptyBody = errors.New("empty request body")

type Deps struct {
	Insights   *insights.Generator
	TTS        *tts.Client
	Newsletter *newsletter.Service
	Referer    *admission.RefererPolicy
	Limiter    *admission.Limiter
	Logger     zerolog.Logger
}

type API struct {
	insights   *insights.Generator
	tts        *tts.Client
	newsletter *newsletter.Service
	referer    *admission.RefererPolicy
	limiter    *admission.Limiter
	logger     zerolog.Logger
}

// New fills any missing collaborator with an unconfigured default so every
// route answers.
func New(d Deps) *API {
	logger := d.Logger.With().Str("component", "api").Logger()
	if d.Insights == nil {
		d.Insights = insights.NewGenerator(nil, 0, d.Logger)
	}
	if d.TTS == nil {
		d.TTS = tts.NewClient(tts.Options{}, d.Logger)
	}
	if d.Newsletter == nil {
		d.Newsletter = newsletter.NewService(nil, nil, nil, newsletter.BrandFor(""), "", d.Logger)
	}
	if d.Referer == nil {
		d.Referer = admission.NewRefererPolicy()
	}
	if d.Limiter == nil {
		d.Limiter = admission.NewLimiter(admission.NewMemoryStore(admission.DefaultLimit, admission.DefaultWindow))
	}
	return &API{
		insights:   d.Insights,
		tts:        d.TTS,
		newsletter: d.Newsletter,
		referer:    d.Referer,
		limiter:    d.Limiter,
		logger:     logger,
	}
}

// Limiter exposes the rate limiter for stats reporting.
func (a *API) Limiter() *admission.Limiter {
	return a.limiter
}

func (a *API) TTS() *tts.Client {
	return a.tts
}

// decodeBody unmarshals the request body into dst, decoding base64 bodies
// first.
func decodeBody(request events.APIGatewayProxyRequest, dst any) error {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return err
		}
		body = decoded
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, dst)
}

func isPreflight(request events.APIGatewayProxyRequest) bool {
	return request.HTTPMethod == http.MethodOptions
}

func (a *API) requestLogger(request events.APIGatewayProxyRequest) *zerolog.Logger {
	l := a.logger.With().Str("path", request.Path)
	if id := request.RequestContext.RequestID; id != "" {
		l = l.Str("request_id", id)
	}
	logger := l.Logger()
	return &logger
}
