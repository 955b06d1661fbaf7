package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	"github.com/aussiebroadwan/linkbot/internal/directory/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout bounds how long a single store operation may wait for
// the connection or the sqlite write lock.
const DefaultBusyTimeout = 30 * time.Second

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string

	busyTimeout time.Duration
	logger      *slog.Logger
}

type Option func(*Store)

// WithBusyTimeout overrides DefaultBusyTimeout. Non-positive values disable
// the per-operation deadline.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) { s.busyTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// DSN builds a modernc sqlite connection string for the database file at
// path with WAL journaling, foreign keys and the given busy timeout applied
// to every connection.
func DSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + path + "?" + q.Encode()
}

// NewStore opens the database behind dsn. The pool is capped at a single
// connection: sqlite allows one writer at a time and serializing every
// statement through one connection keeps "database is locked" errors out of
// the hot path and makes check-then-insert sequences race free.
func NewStore(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:          db,
		q:           gen.New(db),
		dsn:         dsn,
		busyTimeout: DefaultBusyTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Enforce FKs even when the DSN did not carry the pragma.
	ctx, cancel := bound(context.Background(), s.busyTimeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, mapReadError(err)
	}

	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := bound(ctx, s.busyTimeout)
	defer cancel()
	return mapReadError(s.db.PingContext(ctx))
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
// Because the pool holds one connection, no other store call can proceed
// until the transaction is committed or rolled back.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapReadError(err)
	}
	return newTx(tx, s), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
// The whole transaction is bounded by the busy timeout.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	ctx, cancel := bound(ctx, s.busyTimeout)
	defer cancel()

	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return mapReadError(tx.Commit())
}

func (s *Store) Users() store.Users {
	return &usersRepo{q: s.q, db: s.db, busyTimeout: s.busyTimeout, logger: s.logger}
}

func (s *Store) Links() store.Links {
	return &linksRepo{q: s.q, busyTimeout: s.busyTimeout}
}

// bound derives a context limited to d. A non-positive d leaves ctx as is.
func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func mapUser(row gen.User, logger *slog.Logger) domain.User {
	role, err := domain.ParseRole(row.Role)
	if err != nil {
		logger.Warn("user has an unrecognised role, treating as least privileged",
			slog.Int64("user_id", row.ID),
			slog.String("stored_role", row.Role),
		)
	}

	return domain.User{
		ID:         row.ID,
		Name:       row.Name,
		StartToken: row.StartToken,
		Role:       role,
	}
}

func mapLink(row gen.IdentityLink) domain.IdentityLink {
	return domain.IdentityLink{
		ExternalID: row.ExternalID,
		UserID:     row.UserID,
	}
}

// mapUserWithLink merges a LEFT OUTER JOIN row. The link is present only when
// both nullable columns are set.
func mapUserWithLink(u gen.User, externalID, userID sql.NullInt64, logger *slog.Logger) domain.UserWithLink {
	out := domain.UserWithLink{User: mapUser(u, logger)}
	if externalID.Valid && userID.Valid {
		link := mapLink(gen.IdentityLink{ExternalID: externalID.Int64, UserID: userID.Int64})
		out.Link = &link
	}
	return out
}
