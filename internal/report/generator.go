package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cerfaos/analyse/internal/hrzone"
	"github.com/cerfaos/analyse/internal/logging"
	"github.com/cerfaos/analyse/internal/store"
)

// ActivitySource fetches activity windows for report generation.
type ActivitySource interface {
	ActivitiesInRange(ctx context.Context, userID int64, start, end time.Time) ([]store.Activity, error)
}

// RecordSource fetches personal records achieved inside a window.
type RecordSource interface {
	RecordsInRange(ctx context.Context, userID int64, start, end time.Time, types []string) ([]store.PersonalRecord, error)
}

// ProfileSource resolves the athlete profile the zone model depends on.
type ProfileSource interface {
	Profile(ctx context.Context, userID int64) (store.UserProfile, error)
}

// Generator assembles period reports from its data sources. All
// aggregation after the fetches is pure, so a single Generator is safe for
// concurrent use.
type Generator struct {
	activities ActivitySource
	records    RecordSource
	profiles   ProfileSource
}

// NewGenerator returns a Generator reading from the given sources.
func NewGenerator(activities ActivitySource, records RecordSource, profiles ProfileSource) *Generator {
	return &Generator{
		activities: activities,
		records:    records,
		profiles:   profiles,
	}
}

// Report is the full output of one report generation.
type Report struct {
	Period           Period              `json:"period"`
	Summary          Summary             `json:"summary"`
	HeartRateZones   []hrzone.Zone       `json:"heart_rate_zones"`
	ZoneDistribution []ZoneBucket        `json:"zone_distribution"`
	Polarization     hrzone.Polarization `json:"polarization"`
	TrainingLoad     TrainingLoad        `json:"training_load"`
	TopActivities    TopActivities       `json:"top_activities"`
	Records          Records             `json:"records"`
	ByType           []TypeGroup         `json:"by_type"`
	ActivitiesCount  int                 `json:"activities_count"`
	MonthlyBreakdown []MonthBucket       `json:"monthly_breakdown,omitempty"`
}

// MonthlyReport generates the report for one calendar month.
func (g *Generator) MonthlyReport(ctx context.Context, userID int64, month, year int) (*Report, error) {
	return g.generate(ctx, userID, MonthlyPeriod(month, year))
}

// AnnualReport generates the report for one calendar year, including the
// per-month breakdown.
func (g *Generator) AnnualReport(ctx context.Context, userID int64, year int) (*Report, error) {
	return g.generate(ctx, userID, AnnualPeriod(year))
}

// generate runs the full pipeline for a resolved period. Any collaborator
// failure aborts the whole report; there are no partial results.
func (g *Generator) generate(ctx context.Context, userID int64, period Period) (*Report, error) {
	logging.Debug("generating report",
		"user_id", userID,
		"period_type", string(period.Type),
		"period_label", period.Label)

	profile, err := g.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching profile for user %d: %w", userID, err)
	}

	activities, err := g.activities.ActivitiesInRange(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("fetching activities for %s: %w", period.Label, err)
	}

	extendedStart := period.Start.AddDate(0, 0, -loadLookbackDays)
	extended, err := g.activities.ActivitiesInRange(ctx, userID, extendedStart, period.End)
	if err != nil {
		return nil, fmt.Errorf("fetching training load window for %s: %w", period.Label, err)
	}

	records, err := g.records.RecordsInRange(ctx, userID, period.Start, period.End, RelevantRecordTypes)
	if err != nil {
		return nil, fmt.Errorf("fetching records for %s: %w", period.Label, err)
	}

	maxHR := hrzone.DefaultMaxHR
	if profile.MaxHR != nil {
		maxHR = *profile.MaxHR
	}
	restingHR := hrzone.DefaultRestingHR
	if profile.RestingHR != nil {
		restingHR = *profile.RestingHR
	}
	zones := hrzone.BuildZones(maxHR, restingHR)

	distribution, polarization := DistributeZones(activities, zones)

	report := &Report{
		Period:           period,
		Summary:          Summarize(activities),
		HeartRateZones:   zones,
		ZoneDistribution: distribution,
		Polarization:     polarization,
		TrainingLoad:     calculateTrainingLoad(extended, period),
		TopActivities:    RankTop(activities),
		Records:          FilterRecords(records),
		ByType:           GroupByType(activities),
		ActivitiesCount:  len(activities),
	}
	if period.Type == PeriodAnnual {
		report.MonthlyBreakdown = MonthlyBreakdown(activities)
	}

	logging.Debug("report generated",
		"user_id", userID,
		"period_label", period.Label,
		"activities", report.ActivitiesCount,
		"new_records", len(report.Records.New),
		"improved_records", len(report.Records.Improved))

	return report, nil
}

// IsNotFound reports whether err means the requested user does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
