package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrNameTaken     = errors.New("store: name already taken")
	ErrCreate        = errors.New("store: create failed")
	ErrDelete        = errors.New("store: delete failed")
	ErrConnection    = errors.New("store: connection unavailable")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories per table so transactional and non-transactional
// callers share the same method set.
type Store interface {
	Users() Users
	Links() Links

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user with a freshly generated start token and
	// returns the stored row. Names are unique: a second user with the same
	// name fails with ErrCreate and ErrNameTaken.
	CreateUser(ctx context.Context, name string, role domain.Role) (domain.User, error)

	// FindByStartToken returns the user owning token joined with its link.
	FindByStartToken(ctx context.Context, token string) (domain.UserWithLink, error)

	// FindByName returns the user named name joined with its link.
	FindByName(ctx context.Context, name string) (domain.UserWithLink, error)

	// DeleteUser removes the user's identity links and then the user row,
	// returning the number of user rows matched. Outside a Tx the delete is
	// only committed when exactly one row matched; any other count is
	// returned with nothing removed. Inside a Tx the caller decides.
	DeleteUser(ctx context.Context, name string) (int64, error)

	// ListWithLinks returns every user with its optional link, ordered by id.
	ListWithLinks(ctx context.Context) ([]domain.UserWithLink, error)
}

type Links interface {
	// InsertLink binds externalID to userID. A duplicate external id fails
	// with both ErrCreate and ErrAlreadyExists.
	InsertLink(ctx context.Context, externalID, userID int64) (domain.IdentityLink, error)

	// ListLinks returns all identity links ordered by external id.
	ListLinks(ctx context.Context) ([]domain.IdentityLink, error)
}
