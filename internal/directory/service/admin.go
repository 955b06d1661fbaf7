package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/internal/directory/metrics"
	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
)

var ErrNameTaken = errors.New("name already taken")

// AdminService performs operator mutations against the directory store.
type AdminService struct {
	Store     store.Store
	Directory *cache.Directory
	URLs      domain.URLBuilder
	Metrics   *metrics.Metrics
}

// CreateUser adds a user with a fresh start token. The user has no link and
// is therefore not visible in the directory until it registers.
func (s *AdminService) CreateUser(ctx context.Context, name string, role domain.Role) (domain.DirectoryEntry, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if !role.Valid() {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: %w", ErrInvalidRequest, domain.ErrUnknownRole)
	}

	// 1. Names identify users for deletion so they must stay unique. The
	// unique index catches a racing insert that passes this check.
	if _, err := s.Store.Users().FindByName(ctx, name); err == nil {
		log.Warn("attempted to create user with existing name", slog.String("name", name))
		return domain.DirectoryEntry{}, fmt.Errorf("%w: %w", ErrCreate, ErrNameTaken)
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check user name", slog.Any("error", err))
		return domain.DirectoryEntry{}, translateStoreError(err)
	}

	// 2. Insert.
	u, err := s.Store.Users().CreateUser(ctx, name, role)
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			log.Warn("attempted to create user with existing name", slog.String("name", name))
		} else {
			log.Error("failed to create user", slog.String("name", name), slog.Any("error", err))
		}
		return domain.DirectoryEntry{}, translateStoreError(err)
	}

	log.Info("user created",
		slog.Int64("user_id", u.ID),
		slog.String("name", u.Name),
		slog.String("role", u.Role.String()),
	)
	s.Metrics.IncrementUsersCreated()
	return domain.NewDirectoryEntry(domain.UserWithLink{User: u}, s.URLs), nil
}

// DeleteUser removes the named user and its identity link. The directory is
// not refreshed, so a linked identity stays resolvable until the next
// rebuild.
func (s *AdminService) DeleteUser(ctx context.Context, name string) (domain.DirectoryEntry, error) {
	log := slogx.FromContext(ctx)

	if name == "" {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}

	u, err := s.Store.Users().FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("attempted to delete unknown user", slog.String("name", name))
		} else {
			log.Error("failed to look up user", slog.String("name", name), slog.Any("error", err))
		}
		return domain.DirectoryEntry{}, translateStoreError(err)
	}

	n, err := s.Store.Users().DeleteUser(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("user vanished before delete", slog.String("name", name))
		} else {
			log.Error("failed to delete user", slog.String("name", name), slog.Any("error", err))
		}
		return domain.DirectoryEntry{}, translateStoreError(err)
	}
	if n != 1 {
		// The store rolled the delete back, nothing was removed.
		panic(fmt.Sprintf("directory: deleting user %q removed %d rows, expected 1", name, n))
	}

	log.Info("user deleted", slog.Int64("user_id", u.User.ID), slog.String("name", name))
	s.Metrics.IncrementUsersDeleted()
	return domain.NewDirectoryEntry(u, s.URLs), nil
}

// ListUsers returns every user, linked or not, ordered by id.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.DirectoryEntry, error) {
	users, err := s.Store.Users().ListWithLinks(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list users", slog.Any("error", err))
		return nil, translateStoreError(err)
	}

	out := make([]domain.DirectoryEntry, 0, len(users))
	for _, u := range users {
		out = append(out, domain.NewDirectoryEntry(u, s.URLs))
	}
	return out, nil
}

func (s *AdminService) ListLinks(ctx context.Context) ([]domain.IdentityLink, error) {
	links, err := s.Store.Links().ListLinks(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list identity links", slog.Any("error", err))
		return nil, translateStoreError(err)
	}
	return links, nil
}

// ListRegistered returns the users currently linked to an identity, as seen
// by the directory.
func (s *AdminService) ListRegistered(_ context.Context) []domain.DirectoryEntry {
	return s.Directory.Snapshot()
}

// RefreshDirectory rebuilds the directory from the store and returns the
// number of linked identities.
func (s *AdminService) RefreshDirectory(ctx context.Context) (int, error) {
	start := time.Now()
	if err := s.Directory.Refresh(ctx); err != nil {
		slogx.FromContext(ctx).Error("failed to refresh directory", slog.Any("error", err))
		return 0, translateStoreError(err)
	}
	s.Metrics.ObserveRefresh(start)

	n := s.Directory.Len()
	s.Metrics.SetDirectoryEntries(n)
	return n, nil
}
