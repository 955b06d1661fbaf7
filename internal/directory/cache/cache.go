package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
)

// Source is the full-scan query the cache is rebuilt from.
type Source interface {
	ListWithLinks(ctx context.Context) ([]domain.UserWithLink, error)
}

// lookupStatus tags the outcome of a read so lock failures stay distinct
// from a genuine miss until the public boundary.
type lookupStatus int

const (
	statusFound lookupStatus = iota
	statusNotFound
	statusLockUnavailable
)

type lookupResult struct {
	status lookupStatus
	entry  domain.DirectoryEntry
}

// Directory is an in-memory projection of every linked user keyed by
// external identity. Reads never touch the store.
//
// A rebuild that panics while holding the write lock poisons the directory.
// Every read afterwards fails closed (unknown identity, not an admin) until a
// later Refresh succeeds.
type Directory struct {
	source Source
	urls   domain.URLBuilder
	logger *slog.Logger

	// refreshMu orders rebuilds so an older scan never replaces a newer one.
	refreshMu sync.Mutex

	mu       sync.RWMutex
	entries  map[int64]domain.DirectoryEntry
	poisoned atomic.Bool
}

// Load builds a Directory from a full scan of source. The returned
// directory is usable only if err is nil.
func Load(ctx context.Context, source Source, urls domain.URLBuilder, logger *slog.Logger) (*Directory, error) {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Directory{
		source:  source,
		urls:    urls,
		logger:  logger,
		entries: make(map[int64]domain.DirectoryEntry),
	}
	if err := d.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	return d, nil
}

// Refresh re-runs the full scan and replaces the directory contents. The
// store scan runs outside the lock; only the in-memory rebuild holds it.
func (d *Directory) Refresh(ctx context.Context) error {
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	users, err := d.source.ListWithLinks(ctx)
	if err != nil {
		return err
	}

	var size int
	d.withWriteLock(func() {
		size = d.rebuild(users)
	})
	d.logger.Debug("directory refreshed", slog.Int("entries", size))
	return nil
}

// rebuild replaces the entries with the linked users. Callers hold the write
// lock. The URL builder runs here, so a panicking builder poisons the
// directory instead of leaving a half-built map behind.
func (d *Directory) rebuild(users []domain.UserWithLink) int {
	next := make(map[int64]domain.DirectoryEntry, len(users))
	for _, u := range users {
		if u.Link == nil {
			continue
		}
		next[u.Link.ExternalID] = domain.NewDirectoryEntry(u, d.urls)
	}
	d.entries = next
	d.poisoned.Store(false)
	return len(next)
}

// withWriteLock runs fn under the exclusive lock. If fn panics the
// directory is marked poisoned before the lock is released and the panic
// continues up the stack.
func (d *Directory) withWriteLock(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			d.poisoned.Store(true)
			panic(r)
		}
	}()

	fn()
}

func (d *Directory) lookup(externalID int64) lookupResult {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.poisoned.Load() {
		return lookupResult{status: statusLockUnavailable}
	}

	entry, ok := d.entries[externalID]
	if !ok {
		return lookupResult{status: statusNotFound}
	}
	return lookupResult{status: statusFound, entry: entry.Clone()}
}

// Lookup returns the entry linked to externalID. Lock failures are reported
// as a miss.
func (d *Directory) Lookup(externalID int64) (domain.DirectoryEntry, bool) {
	res := d.lookup(externalID)
	switch res.status {
	case statusFound:
		return res.entry, true
	case statusLockUnavailable:
		d.logger.Error("directory lock unavailable, treating identity as unknown",
			slog.Int64("external_id", externalID),
		)
		return domain.DirectoryEntry{}, false
	default:
		d.logger.Log(context.Background(), slogx.LevelTrace, "identity not in directory",
			slog.Int64("external_id", externalID),
		)
		return domain.DirectoryEntry{}, false
	}
}

// Exists reports whether externalID is linked to a user.
func (d *Directory) Exists(externalID int64) bool {
	_, ok := d.Lookup(externalID)
	return ok
}

// IsAdmin reports whether externalID belongs to an admin. Unknown identities
// are never admins.
func (d *Directory) IsAdmin(externalID int64) bool {
	entry, ok := d.Lookup(externalID)
	return ok && entry.IsAdmin()
}

// Len returns the number of linked identities, or 0 when poisoned.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.poisoned.Load() {
		return 0
	}
	return len(d.entries)
}

// Snapshot returns copies of all entries ordered by user id. A poisoned
// directory yields nil.
func (d *Directory) Snapshot() []domain.DirectoryEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.poisoned.Load() {
		d.logger.Error("directory lock unavailable, returning empty snapshot")
		return nil
	}

	out := make([]domain.DirectoryEntry, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return *out[i].ExternalID < *out[j].ExternalID
	})
	return out
}
