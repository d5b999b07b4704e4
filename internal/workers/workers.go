package workers

import (
	"context"
	"time"

	"github.com/cerfaos/analyse/internal/logging"
	syncsvc "github.com/cerfaos/analyse/internal/sync"
)

// Syncer periodically pulls a user's data from the export API into the
// local store. The first sync of a fresh database is a full pull; later
// runs are delta syncs anchored on the latest stored activity date.
type Syncer struct {
	service  *syncsvc.Service
	userID   int64
	interval time.Duration
}

// NewSyncer creates a new sync worker
func NewSyncer(service *syncsvc.Service, userID int64, interval time.Duration) *Syncer {
	return &Syncer{
		service:  service,
		userID:   userID,
		interval: interval,
	}
}

// Run starts the sync worker. It syncs once immediately, then on every
// tick until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	logging.Info("syncer started", "user_id", s.userID, "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.syncOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("syncer stopped", "user_id", s.userID)
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *Syncer) syncOnce(ctx context.Context) {
	logging.Debug("starting sync", "user_id", s.userID)

	stats, err := s.service.SyncDelta(ctx, s.userID)
	if err != nil {
		if ctx.Err() != nil {
			logging.Info("sync cancelled", "user_id", s.userID)
			return
		}
		logging.Error("sync failed", "user_id", s.userID, "error", err.Error())
		return
	}

	if stats.Activities == 0 && stats.Records == 0 {
		logging.Debug("nothing new to sync", "user_id", s.userID)
		return
	}
	logging.Info("sync finished",
		"user_id", s.userID,
		"activities", stats.Activities,
		"records", stats.Records)
}
