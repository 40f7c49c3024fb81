package newsletter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mindspace/internal/db"
	"github.com/mindspace/internal/models"
)

type Store interface {
	Lookup(ctx context.Context, email string) (*models.Subscriber, error)
	Upsert(ctx context.Context, sub models.Subscriber) error
	Unsubscribe(ctx context.Context, email string) (bool, error)
}

// SQLStore keeps subscribers in the newsletter_subscribers table.
type SQLStore struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewSQLStore(conn *sql.DB, dialect db.Dialect) *SQLStore {
	return &SQLStore{db: conn, dialect: dialect}
}

// Lookup returns nil, nil when the email is unknown.
func (s *SQLStore) Lookup(ctx context.Context, email string) (*models.Subscriber, error) {
	var (
		sub    models.Subscriber
		source sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		db.Rebind(s.dialect, "SELECT id, email, confirmed, source FROM newsletter_subscribers WHERE email = ?"),
		email,
	).Scan(&sub.ID, &sub.Email, &sub.Confirmed, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}
	sub.Source = source.String
	return &sub, nil
}

// Upsert confirms sub, inserting it or re-subscribing an existing row.
func (s *SQLStore) Upsert(ctx context.Context, sub models.Subscriber) error {
	_, err := s.db.ExecContext(ctx, db.Rebind(s.dialect,
		`INSERT INTO newsletter_subscribers (email, confirmation_token, confirmed, source)
		 VALUES (?, ?, TRUE, ?)
		 ON CONFLICT (email) DO UPDATE SET
			confirmed = TRUE,
			subscribed_at = CURRENT_TIMESTAMP,
			unsubscribed_at = NULL`),
		sub.Email, sub.ConfirmationToken, sub.Source,
	)
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

func (s *SQLStore) Unsubscribe(ctx context.Context, email string) (bool, error) {
	res, err := s.db.ExecContext(ctx, db.Rebind(s.dialect,
		`UPDATE newsletter_subscribers
		 SET confirmed = FALSE, unsubscribed_at = CURRENT_TIMESTAMP
		 WHERE email = ? AND confirmed = TRUE`),
		email,
	)
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	return n > 0, nil
}
