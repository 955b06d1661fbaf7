package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/internal/directory/metrics"
	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
)

// RegistrationService links an external identity to the user owning a
// start token. A token binds to the first identity that redeems it and is
// never reassigned.
type RegistrationService struct {
	Store     store.Store
	Directory *cache.Directory
	URLs      domain.URLBuilder
	Metrics   *metrics.Metrics

	// mu makes the find-then-insert sequence atomic within the process.
	mu sync.Mutex
}

// Register redeems startToken for externalID.
//
// Returns ErrNotFound for an unknown token, ErrConflict when the token is
// already bound to another identity, and ErrCreate or ErrConnection when the
// store rejects the link.
func (s *RegistrationService) Register(ctx context.Context, startToken string, externalID int64) (domain.DirectoryEntry, error) {
	start := time.Now()
	defer s.Metrics.ObserveRegister(start)

	log := slogx.FromContext(ctx).With(slog.Int64("external_id", externalID))

	if startToken == "" {
		return domain.DirectoryEntry{}, fmt.Errorf("%w: start token is required", ErrInvalidRequest)
	}

	// 1. Fast path: identity already known.
	if entry, ok := s.Directory.Lookup(externalID); ok {
		s.Metrics.IncrementRegistration(metrics.OutcomeIdempotent)
		return entry, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A registration that held the lock before us may have linked the
	// identity since the fast path ran.
	if entry, ok := s.Directory.Lookup(externalID); ok {
		s.Metrics.IncrementRegistration(metrics.OutcomeIdempotent)
		return entry, nil
	}

	// 2. Resolve the token.
	u, err := s.Store.Users().FindByStartToken(ctx, startToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("registration with unknown start token")
			s.Metrics.IncrementRegistration(metrics.OutcomeNotFound)
			return domain.DirectoryEntry{}, translateStoreError(err)
		}
		log.Error("failed to look up start token", slog.Any("error", err))
		s.Metrics.IncrementRegistration(metrics.OutcomeError)
		return domain.DirectoryEntry{}, translateStoreError(err)
	}

	// 3. Token already redeemed.
	if u.Link != nil {
		if u.Link.ExternalID == externalID {
			s.Metrics.IncrementRegistration(metrics.OutcomeIdempotent)
			return domain.NewDirectoryEntry(u, s.URLs), nil
		}
		log.Warn("start token already bound to a different identity",
			slog.Int64("user_id", u.User.ID),
			slog.Int64("bound_external_id", u.Link.ExternalID),
		)
		s.Metrics.IncrementRegistration(metrics.OutcomeConflict)
		return domain.DirectoryEntry{}, ErrConflict
	}

	// 4. Bind the identity.
	if _, err := s.Store.Links().InsertLink(ctx, externalID, u.User.ID); err != nil {
		log.Error("failed to insert identity link",
			slog.Int64("user_id", u.User.ID),
			slog.Any("error", err),
		)
		s.Metrics.IncrementRegistration(metrics.OutcomeError)
		return domain.DirectoryEntry{}, translateStoreError(err)
	}

	// 5. Make the write visible to readers. The link is committed, so the
	// refresh must not be abandoned when the caller goes away.
	refreshStart := time.Now()
	if err := s.Directory.Refresh(context.WithoutCancel(ctx)); err != nil {
		log.Error("failed to refresh directory after registration", slog.Any("error", err))
		s.Metrics.IncrementRegistration(metrics.OutcomeError)
		return domain.DirectoryEntry{}, translateStoreError(err)
	}
	s.Metrics.ObserveRefresh(refreshStart)
	s.Metrics.SetDirectoryEntries(s.Directory.Len())

	entry, ok := s.Directory.Lookup(externalID)
	if !ok {
		panic(fmt.Sprintf("directory: identity %d missing immediately after linking user %d", externalID, u.User.ID))
	}

	log.Info("identity registered", slog.Int64("user_id", u.User.ID))
	s.Metrics.IncrementRegistration(metrics.OutcomeLinked)
	return entry, nil
}
