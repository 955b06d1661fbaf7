package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/internal/directory/metrics"
)

// ResyncService periodically rebuilds the directory so changes made outside
// the registration path (deletions, other processes using the same database
// file) become visible.
type ResyncService struct {
	Directory *cache.Directory
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Interval  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewResyncService creates a resync worker. If interval is 0 or negative,
// defaults to 1 hour.
func NewResyncService(dir *cache.Directory, logger *slog.Logger, m *metrics.Metrics, interval time.Duration) *ResyncService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ResyncService{
		Directory: dir,
		Logger:    logger,
		Metrics:   m,
		Interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *ResyncService) Start() {
	go s.run()
	s.Logger.Info("directory resync started", "interval", s.Interval)
}

// Stop blocks until any in-progress rebuild has finished.
func (s *ResyncService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("directory resync stopped")
}

func (s *ResyncService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.resync()
		case <-s.stopCh:
			return
		}
	}
}

// resync rebuilds the directory once. A failure keeps the previous snapshot.
func (s *ResyncService) resync() {
	start := time.Now()
	if err := s.Directory.Refresh(context.Background()); err != nil {
		s.Logger.Error("directory resync failed", "error", err)
		return
	}
	s.Metrics.ObserveRefresh(start)

	n := s.Directory.Len()
	s.Metrics.SetDirectoryEntries(n)
	s.Logger.Debug("directory resynced", "entries", n)
}
