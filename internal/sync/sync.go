package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/cerfaos/analyse/internal/logging"
	"github.com/cerfaos/analyse/internal/store"
)

// Storage is the subset of the store the sync service writes through.
type Storage interface {
	UpsertActivity(ctx context.Context, a store.Activity) error
	UpsertRecord(ctx context.Context, r store.PersonalRecord) error
	UpsertProfile(ctx context.Context, p store.UserProfile) error
	LatestActivityDate(ctx context.Context, userID int64) (time.Time, error)
}

// Fetcher is the subset of the export API client the sync service reads from.
type Fetcher interface {
	FetchActivities(ctx context.Context, userID int64, since time.Time) ([]Activity, error)
	FetchRecords(ctx context.Context, userID int64) ([]Record, error)
	FetchProfile(ctx context.Context, userID int64) (Profile, error)
}

// Service pulls a user's data from the export API into local storage.
type Service struct {
	storage Storage
	client  Fetcher
}

// NewService creates a new sync service
func NewService(storage Storage, client Fetcher) *Service {
	return &Service{
		storage: storage,
		client:  client,
	}
}

// Stats summarizes one sync run.
type Stats struct {
	Activities int
	Records    int
}

// Sync pulls everything the user has: profile, full activity history, and
// all personal records.
func (s *Service) Sync(ctx context.Context, userID int64) (Stats, error) {
	return s.sync(ctx, userID, time.Time{})
}

// SyncDelta pulls only activities on or after the latest locally stored
// activity date. Records and profile are always refreshed in full; they
// are small and carry no reliable change marker.
func (s *Service) SyncDelta(ctx context.Context, userID int64) (Stats, error) {
	since, err := s.storage.LatestActivityDate(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("resolving last sync date: %w", err)
	}
	return s.sync(ctx, userID, since)
}

func (s *Service) sync(ctx context.Context, userID int64, since time.Time) (Stats, error) {
	profile, err := s.client.FetchProfile(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("syncing profile for user %d: %w", userID, err)
	}
	if err := s.storage.UpsertProfile(ctx, convertProfile(profile)); err != nil {
		return Stats{}, fmt.Errorf("saving profile for user %d: %w", userID, err)
	}

	activities, err := s.client.FetchActivities(ctx, userID, since)
	if err != nil {
		return Stats{}, fmt.Errorf("syncing activities for user %d: %w", userID, err)
	}
	for _, a := range activities {
		if err := s.storage.UpsertActivity(ctx, convertActivity(userID, a)); err != nil {
			return Stats{}, fmt.Errorf("saving activity %d: %w", a.ID, err)
		}
	}

	records, err := s.client.FetchRecords(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("syncing records for user %d: %w", userID, err)
	}
	for _, r := range records {
		if err := s.storage.UpsertRecord(ctx, convertRecord(userID, r)); err != nil {
			return Stats{}, fmt.Errorf("saving record %d: %w", r.ID, err)
		}
	}

	logging.Info("sync complete",
		"user_id", userID,
		"activities", len(activities),
		"records", len(records),
		"delta", !since.IsZero())

	return Stats{Activities: len(activities), Records: len(records)}, nil
}

func convertActivity(userID int64, a Activity) store.Activity {
	return store.Activity{
		ID:            a.ID,
		UserID:        userID,
		Date:          a.Date,
		Type:          a.Type,
		SubSport:      a.SubSport,
		Distance:      a.Distance,
		Duration:      a.Duration,
		ElevationGain: a.ElevationGain,
		Trimp:         a.Trimp,
		Calories:      a.Calories,
		AvgHeartRate:  a.AvgHeartRate,
		AvgSpeed:      a.AvgSpeed,
		HasGPS:        a.HasGPS,
	}
}

func convertRecord(userID int64, r Record) store.PersonalRecord {
	return store.PersonalRecord{
		ID:            r.ID,
		UserID:        userID,
		ActivityType:  r.ActivityType,
		RecordType:    r.RecordType,
		Value:         r.Value,
		Unit:          r.Unit,
		AchievedAt:    r.AchievedAt,
		PreviousValue: r.PreviousValue,
	}
}

func convertProfile(p Profile) store.UserProfile {
	return store.UserProfile{
		ID:        p.ID,
		Name:      p.Name,
		MaxHR:     p.MaxHR,
		RestingHR: p.RestingHR,
	}
}
