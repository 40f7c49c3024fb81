// Package newsletter handles newsletter subscriptions and the welcome email.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindspace/internal/auth"
	"github.com/mindspace/internal/db"
	"github.com/mindspace/internal/email"
	"github.com/mindspace/internal/models"
)

const (
	MsgSubscribed        = "Thank you for subscribing! Check your inbox for a welcome email."
	MsgAlreadySubscribed = "You are already subscribed to our newsletter!"
	MsgUnsubscribed      = "You have been unsubscribed from our newsletter."
)

var (
	ErrEmailRequired = errors.New("email address is required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrNoDatabase    = errors.New("subscriber database is not configured")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type Mailer interface {
	Send(ctx context.Context, msg email.Message) (string, error)
}

type Result struct {
	AlreadySubscribed bool
	Message           string
}

type Service struct {
	store  Store
	mailer Mailer
	tokens *auth.Signer
	brand  Brand
	from   string
	logger zerolog.Logger
}

// NewService wires the subscription flow. store, mailer and tokens may be
// nil; subscribing then fails, the welcome email is skipped, and welcome
// emails carry no unsubscribe link respectively.
func NewService(store Store, mailer Mailer, tokens *auth.Signer, brand Brand, from string, logger zerolog.Logger) *Service {
	if from == "" {
		from = brand.DefaultFrom()
	}
	return &Service{
		store:  store,
		mailer: mailer,
		tokens: tokens,
		brand:  brand,
		from:   from,
		logger: logger.With().Str("component", "newsletter").Logger(),
	}
}

// NormalizeEmail trims, lowercases and validates an address.
func NormalizeEmail(raw string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if addr == "" {
		return "", ErrEmailRequired
	}
	if !emailPattern.MatchString(addr) {
		return "", ErrInvalidEmail
	}
	return addr, nil
}

func (s *Service) Subscribe(ctx context.Context, raw string) (Result, error) {
	addr, err := NormalizeEmail(raw)
	if err != nil {
		return Result{}, err
	}
	if s.store == nil {
		return Result{}, ErrNoDatabase
	}

	existing, err := s.store.Lookup(ctx, addr)
	if err != nil {
		return Result{}, err
	}
	if existing != nil && existing.Confirmed {
		return Result{AlreadySubscribed: true, Message: MsgAlreadySubscribed}, nil
	}

	err = s.store.Upsert(ctx, models.Subscriber{
		Email:             addr,
		ConfirmationToken: uuid.NewString(),
		Source:            s.brand.Key,
	})
	if db.IsUniqueViolation(err) {
		return Result{AlreadySubscribed: true, Message: MsgAlreadySubscribed}, nil
	}
	if err != nil {
		return Result{}, err
	}

	s.sendWelcome(ctx, addr)
	return Result{Message: MsgSubscribed}, nil
}

// sendWelcome is best effort; failures are logged only.
func (s *Service) sendWelcome(ctx context.Context, addr string) {
	if s.mailer == nil {
		s.logger.Debug().Msg("welcome email skipped, no mailer")
		return
	}

	var token string
	if s.tokens.Enabled() {
		t, err := s.tokens.GenerateToken(addr)
		if err != nil {
			s.logger.Warn().Err(err).Msg("unsubscribe token")
		}
		token = t
	}

	html, err := renderWelcome(s.brand, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("welcome email")
		return
	}

	id, err := s.mailer.Send(ctx, email.Message{
		From:    s.from,
		To:      addr,
		Subject: welcomeSubject(s.brand),
		HTML:    html,
	})
	if errors.Is(err, email.ErrNotConfigured) {
		s.logger.Debug().Msg("welcome email skipped, delivery not configured")
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("welcome email failed")
		return
	}
	s.logger.Info().Str("message_id", id).Msg("welcome email sent")
}

// Unsubscribe validates an unsubscribe token and marks its subscriber
// unconfirmed. Unknown or already unsubscribed addresses succeed.
func (s *Service) Unsubscribe(ctx context.Context, token string) error {
	if s.store == nil {
		return ErrNoDatabase
	}
	addr, err := s.tokens.ValidateToken(token)
	if err != nil {
		return err
	}
	removed, err := s.store.Unsubscribe(ctx, addr)
	if err != nil {
		return fmt.Errorf("unsubscribe %s: %w", addr, err)
	}
	s.logger.Info().Bool("removed", removed).Msg("unsubscribe")
	return nil
}
