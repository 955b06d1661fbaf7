package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	"github.com/aussiebroadwan/linkbot/internal/directory/store/drivers/sqlite/gen"
)

type txStore struct {
	tx     *sql.Tx
	q      *gen.Queries
	parent *Store
}

func newTx(tx *sql.Tx, parent *Store) *txStore {
	return &txStore{
		tx:     tx,
		q:      gen.New(tx),
		parent: parent,
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // nothing to close; caller will commit/rollback and outer DB stays open

// Ping is a no-op for transactions. The connection is already held.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

// Users inside a transaction never open their own tx: db is left nil.
func (t *txStore) Users() store.Users {
	return &usersRepo{q: t.q, busyTimeout: t.parent.busyTimeout, logger: t.parent.logger}
}

func (t *txStore) Links() store.Links {
	return &linksRepo{q: t.q, busyTimeout: t.parent.busyTimeout}
}

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations should be applied before starting a tx
