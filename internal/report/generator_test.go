package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cerfaos/analyse/internal/store"
)

// mockSources implements the generator's data interfaces in memory and
// records the windows it was asked for.
type mockSources struct {
	activities []store.Activity
	records    []store.PersonalRecord
	profile    store.UserProfile

	activityErr error
	recordErr   error
	profileErr  error

	activityWindows [][2]time.Time
	recordTypes     []string
}

func (m *mockSources) ActivitiesInRange(ctx context.Context, userID int64, start, end time.Time) ([]store.Activity, error) {
	if m.activityErr != nil {
		return nil, m.activityErr
	}
	m.activityWindows = append(m.activityWindows, [2]time.Time{start, end})

	var result []store.Activity
	for _, a := range m.activities {
		if !a.Date.Before(start) && !a.Date.After(end.AddDate(0, 0, 1)) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockSources) RecordsInRange(ctx context.Context, userID int64, start, end time.Time, types []string) ([]store.PersonalRecord, error) {
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	m.recordTypes = types
	return m.records, nil
}

func (m *mockSources) Profile(ctx context.Context, userID int64) (store.UserProfile, error) {
	if m.profileErr != nil {
		return store.UserProfile{}, m.profileErr
	}
	return m.profile, nil
}

func newTestGenerator(m *mockSources) *Generator {
	return NewGenerator(m, m, m)
}

func TestMonthlyReportEmptyPeriod(t *testing.T) {
	t.Parallel()

	m := &mockSources{profile: store.UserProfile{ID: 1, Name: "Jo"}}
	rep, err := newTestGenerator(m).MonthlyReport(context.Background(), 1, 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Summary.TotalActivities != 0 {
		t.Errorf("TotalActivities = %d", rep.Summary.TotalActivities)
	}
	if rep.Summary.AvgHeartRate != nil {
		t.Errorf("AvgHeartRate = %v, want nil", *rep.Summary.AvgHeartRate)
	}
	for _, b := range rep.ZoneDistribution {
		if b.Percentage != 0 {
			t.Errorf("zone %d percentage = %v, want 0", b.Zone, b.Percentage)
		}
	}
	if len(rep.TopActivities.ByDistance) != 0 || len(rep.TopActivities.ByTrimp) != 0 {
		t.Errorf("expected empty rankings")
	}
	if len(rep.Records.New) != 0 || len(rep.Records.Improved) != 0 {
		t.Errorf("expected empty record lists")
	}
	if rep.ActivitiesCount != 0 {
		t.Errorf("ActivitiesCount = %d", rep.ActivitiesCount)
	}
	if rep.MonthlyBreakdown != nil {
		t.Errorf("monthly report must not carry a monthly breakdown")
	}
	if rep.Period.Label != "mars 2025" {
		t.Errorf("period label = %q", rep.Period.Label)
	}
}

func TestMonthlyReportZoneFallbackDefaults(t *testing.T) {
	t.Parallel()

	// Profile without measured heart rates falls back to 190/60
	m := &mockSources{profile: store.UserProfile{ID: 1}}
	rep, err := newTestGenerator(m).MonthlyReport(context.Background(), 1, 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.HeartRateZones) != 5 {
		t.Fatalf("zones = %d, want 5", len(rep.HeartRateZones))
	}
	if rep.HeartRateZones[0].Min != 125 {
		t.Errorf("zone 1 min = %d, want 125 from default 190/60", rep.HeartRateZones[0].Min)
	}
	if rep.HeartRateZones[4].Max != 190 {
		t.Errorf("zone 5 max = %d, want 190", rep.HeartRateZones[4].Max)
	}
}

func TestMonthlyReportProfileOverridesDefaults(t *testing.T) {
	t.Parallel()

	m := &mockSources{profile: store.UserProfile{ID: 1, MaxHR: ptr(200), RestingHR: ptr(50)}}
	rep, err := newTestGenerator(m).MonthlyReport(context.Background(), 1, 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.HeartRateZones[4].Max != 200 {
		t.Errorf("zone 5 max = %d, want 200 from profile", rep.HeartRateZones[4].Max)
	}
}

func TestMonthlyReportFetchesExtendedLoadWindow(t *testing.T) {
	t.Parallel()

	m := &mockSources{profile: store.UserProfile{ID: 1}}
	_, err := newTestGenerator(m).MonthlyReport(context.Background(), 1, 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.activityWindows) != 2 {
		t.Fatalf("activity fetches = %d, want 2", len(m.activityWindows))
	}

	primary := m.activityWindows[0]
	wantStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !primary[0].Equal(wantStart) {
		t.Errorf("primary window start = %v, want %v", primary[0], wantStart)
	}

	extended := m.activityWindows[1]
	wantExtended := time.Date(2025, time.January, 18, 0, 0, 0, 0, time.UTC)
	if !extended[0].Equal(wantExtended) {
		t.Errorf("extended window start = %v, want %v", extended[0], wantExtended)
	}
	if !extended[1].Equal(primary[1]) {
		t.Errorf("extended window end = %v, want %v", extended[1], primary[1])
	}
}

func TestMonthlyReportPassesRelevantRecordTypes(t *testing.T) {
	t.Parallel()

	m := &mockSources{profile: store.UserProfile{ID: 1}}
	_, err := newTestGenerator(m).MonthlyReport(context.Background(), 1, 3, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.recordTypes) != len(RelevantRecordTypes) {
		t.Fatalf("record types = %v", m.recordTypes)
	}
	for _, rt := range m.recordTypes {
		if rt == "heart_rate" || rt == "calories" {
			t.Errorf("record type %q must be excluded", rt)
		}
	}
}

func TestAnnualReportCarriesMonthlyBreakdown(t *testing.T) {
	t.Parallel()

	m := &mockSources{
		profile: store.UserProfile{ID: 1},
		activities: []store.Activity{
			{ID: 1, Date: time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC), Type: "course", Distance: 10, Duration: 3600, Trimp: 50},
		},
	}
	rep, err := newTestGenerator(m).AnnualReport(context.Background(), 1, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.MonthlyBreakdown) != 12 {
		t.Fatalf("breakdown = %d buckets, want 12", len(rep.MonthlyBreakdown))
	}
	if rep.MonthlyBreakdown[4].Count != 1 {
		t.Errorf("may count = %d, want 1", rep.MonthlyBreakdown[4].Count)
	}
	var bucketSum int
	for _, b := range rep.MonthlyBreakdown {
		bucketSum += b.Count
	}
	if bucketSum != rep.Summary.TotalActivities {
		t.Errorf("bucket counts sum to %d, want %d", bucketSum, rep.Summary.TotalActivities)
	}
	if rep.Period.Label != "Année 2025" {
		t.Errorf("period label = %q", rep.Period.Label)
	}
	if len(rep.ByType) != 1 || rep.ByType[0].Type != "course" {
		t.Errorf("by type = %+v", rep.ByType)
	}
	if rep.ActivitiesCount != 1 {
		t.Errorf("ActivitiesCount = %d", rep.ActivitiesCount)
	}
}

func TestReportCollaboratorFailuresAbort(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name string
		m    *mockSources
	}{
		{name: "profile failure", m: &mockSources{profileErr: boom}},
		{name: "activity failure", m: &mockSources{activityErr: boom}},
		{name: "record failure", m: &mockSources{recordErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rep, err := newTestGenerator(tt.m).MonthlyReport(context.Background(), 1, 3, 2025)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, boom) {
				t.Errorf("error chain lost: %v", err)
			}
			if rep != nil {
				t.Errorf("expected no partial report, got %+v", rep)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	m := &mockSources{profileErr: store.ErrNotFound}
	_, err := newTestGenerator(m).MonthlyReport(context.Background(), 99, 3, 2025)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound = true for unrelated error")
	}
}
