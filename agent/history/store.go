package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// Record is one CLI invocation: the prompt, what came back, and how the
// error (if any) was classified.
type Record struct {
	bun.BaseModel `bun:"table:prompt_runs,alias:pr"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Prompt       string    `bun:"prompt,notnull"`
	Response     string    `bun:"response"`
	ErrorClass   string    `bun:"error_class"`
	ErrorMessage string    `bun:"error_message"`
	DurationMS   int64     `bun:"duration_ms,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

// Store appends run records. Appending is best effort at the call site: a
// failed write is logged, never fatal.
type Store interface {
	Append(ctx context.Context, rec *Record) error
}

var _ Store = NoopStore{}

// NoopStore is used when no history DSN is configured.
type NoopStore struct{}

func (NoopStore) Append(context.Context, *Record) error {
	return nil
}

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db      *bun.DB
	timeout time.Duration
}

func NewPostgresStore(cfg Config) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("history dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresStore{
		db:      db,
		timeout: timeout,
	}, nil
}

// Migrate creates the prompt_runs table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create prompt_runs table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("nil history record")
	}
	if strings.TrimSpace(rec.Prompt) == "" {
		return errors.New("history record requires a prompt")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("insert prompt run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
