package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	"github.com/aussiebroadwan/linkbot/internal/directory/store/drivers/sqlite/gen"
	"github.com/aussiebroadwan/linkbot/pkg/cryptox"
)

// maxTokenAttempts caps start token regeneration on a unique index hit.
const maxTokenAttempts = 3

type usersRepo struct {
	q *gen.Queries
	// db is nil when the repo is scoped to an outer transaction.
	db          *sql.DB
	busyTimeout time.Duration
	logger      *slog.Logger
}

func (r *usersRepo) CreateUser(ctx context.Context, name string, role domain.Role) (domain.User, error) {
	ctx, cancel := bound(ctx, r.busyTimeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		token, err := cryptox.GenerateStartToken()
		if err != nil {
			return domain.User{}, fmt.Errorf("%w: %w", store.ErrCreate, err)
		}

		row, err := r.q.CreateUser(ctx, gen.CreateUserParams{
			Name:       name,
			StartToken: token,
			Role:       role.String(),
		})
		if err == nil {
			return mapUser(row, r.logger), nil
		}

		if isUniqueViolationOn(err, "users.name") {
			return domain.User{}, fmt.Errorf("%w: %w: %w", store.ErrCreate, store.ErrNameTaken, err)
		}

		err = mapCreateError(err)
		if !errors.Is(err, store.ErrAlreadyExists) || attempt >= maxTokenAttempts {
			return domain.User{}, err
		}
		r.logger.Warn("start token collision, regenerating", slog.Int("attempt", attempt))
	}
}

func (r *usersRepo) FindByStartToken(ctx context.Context, token string) (domain.UserWithLink, error) {
	ctx, cancel := bound(ctx, r.busyTimeout)
	defer cancel()

	row, err := r.q.GetUserWithLinkByStartToken(ctx, token)
	if err != nil {
		return domain.UserWithLink{}, mapReadError(err)
	}
	return mapUserWithLink(
		gen.User{ID: row.ID, Name: row.Name, StartToken: row.StartToken, Role: row.Role},
		row.ExternalID, row.UserID, r.logger,
	), nil
}

func (r *usersRepo) FindByName(ctx context.Context, name string) (domain.UserWithLink, error) {
	ctx, cancel := bound(ctx, r.busyTimeout)
	defer cancel()

	row, err := r.q.GetUserWithLinkByName(ctx, name)
	if err != nil {
		return domain.UserWithLink{}, mapReadError(err)
	}
	return mapUserWithLink(
		gen.User{ID: row.ID, Name: row.Name, StartToken: row.StartToken, Role: row.Role},
		row.ExternalID, row.UserID, r.logger,
	), nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, name string) (int64, error) {
	ctx, cancel := bound(ctx, r.busyTimeout)
	defer cancel()

	if r.db == nil {
		return r.deleteUser(ctx, r.q, name)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, mapDeleteError(err)
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	n, err := r.deleteUser(ctx, r.q.WithTx(tx), name)
	if err != nil {
		return 0, err
	}
	if n != 1 {
		r.logger.Error("delete matched an unexpected number of users, rolling back",
			slog.String("name", name),
			slog.Int64("rows", n),
		)
		return n, nil
	}
	if err := tx.Commit(); err != nil {
		return 0, mapDeleteError(err)
	}
	return n, nil
}

// deleteUser removes the links owned by the user called name and then the
// user row itself.
func (r *usersRepo) deleteUser(ctx context.Context, q *gen.Queries, name string) (int64, error) {
	row, err := q.GetUserWithLinkByName(ctx, name)
	if err != nil {
		return 0, mapReadError(err)
	}

	if _, err := q.DeleteIdentityLinksByUserID(ctx, row.ID); err != nil {
		return 0, mapDeleteError(err)
	}

	n, err := q.DeleteUsersByName(ctx, name)
	if err != nil {
		return 0, mapDeleteError(err)
	}
	return n, nil
}

func (r *usersRepo) ListWithLinks(ctx context.Context) ([]domain.UserWithLink, error) {
	ctx, cancel := bound(ctx, r.busyTimeout)
	defer cancel()

	rows, err := r.q.ListUsersWithLinks(ctx)
	if err != nil {
		return nil, mapReadError(err)
	}

	users := make([]domain.UserWithLink, len(rows))
	for i, row := range rows {
		users[i] = mapUserWithLink(
			gen.User{ID: row.ID, Name: row.Name, StartToken: row.StartToken, Role: row.Role},
			row.ExternalID, row.UserID, r.logger,
		)
	}
	return users, nil
}
