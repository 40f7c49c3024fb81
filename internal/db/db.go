package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

var ErrNotConfigured = errors.New("DATABASE_URL environment variable is not set")

// DB is the process-wide handle shared by the handlers of one process.
var (
	DB     *sql.DB
	Driver Dialect
)

// InitDB opens dbURL into DB, falling back to DATABASE_URL when empty.
func InitDB(dbURL string) error {
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return ErrNotConfigured
	}

	var err error
	DB, Driver, err = Open(dbURL)
	return err
}

// Open connects to dsn, which is a postgres URL, "sqlite://<path>", a
// "file:" URI or ":memory:", and creates the schema.
func Open(dsn string) (*sql.DB, Dialect, error) {
	dialect, source := parseDSN(dsn)

	conn, err := sql.Open(string(dialect), source)
	if err != nil {
		return nil, "", fmt.Errorf("error opening database: %w", err)
	}
	if dialect == SQLite {
		// One writer; also keeps ":memory:" databases on a single connection.
		conn.SetMaxOpenConns(1)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := createTables(conn, dialect); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("error creating tables: %w", err)
	}

	return conn, dialect, nil
}

func parseDSN(dsn string) (Dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "sqlite3://"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite3://")
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return SQLite, dsn
	default:
		return Postgres, dsn
	}
}

func createTables(conn *sql.DB, dialect Dialect) error {
	var queries []string
	switch dialect {
	case SQLite:
		queries = []string{
			`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT UNIQUE NOT NULL,
				confirmation_token TEXT,
				confirmed BOOLEAN NOT NULL DEFAULT FALSE,
				source TEXT,
				subscribed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				unsubscribed_at TIMESTAMP
			)`,
		}
	default:
		queries = []string{
			`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
				id SERIAL PRIMARY KEY,
				email VARCHAR(255) UNIQUE NOT NULL,
				confirmation_token VARCHAR(64),
				confirmed BOOLEAN NOT NULL DEFAULT FALSE,
				source VARCHAR(32),
				subscribed_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				unsubscribed_at TIMESTAMP WITH TIME ZONE
			)`,
		}
	}

	for _, query := range queries {
		if _, err := conn.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// Rebind rewrites "?" placeholders into "$n" for postgres.
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
