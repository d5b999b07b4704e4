package report

import (
	"math"
	"sort"

	"github.com/cerfaos/analyse/internal/store"
)

const (
	minImprovementPct = 2.0
	maxRecordsPerList = 4
)

// RelevantRecordTypes is the allow-list of record types shown in reports.
// Heart-rate and calorie records are deliberately absent.
var RelevantRecordTypes = []string{
	"distance",
	"avg_speed",
	"max_speed",
	"trimp",
	"elevation",
	"duration",
}

var recordTypeNames = map[string]string{
	"distance":  "Distance",
	"avg_speed": "Vitesse moyenne",
	"max_speed": "Vitesse max",
	"trimp":     "Charge TRIMP",
	"elevation": "Dénivelé",
	"duration":  "Durée",
}

// FormatRecordTypeName returns the display label for a record type. Unknown
// types fall back to the raw type string.
func FormatRecordTypeName(recordType string) string {
	if name, ok := recordTypeNames[recordType]; ok {
		return name
	}
	return recordType
}

// RecordEntry is a personal record as rendered in a report.
type RecordEntry struct {
	ID            int64    `json:"id"`
	ActivityType  string   `json:"activity_type"`
	RecordType    string   `json:"record_type"`
	Label         string   `json:"label"`
	Value         float64  `json:"value"`
	Unit          string   `json:"unit"`
	AchievedAt    string   `json:"achieved_at"`
	PreviousValue *float64 `json:"previous_value,omitempty"`
	Improvement   *float64 `json:"improvement,omitempty"`
}

// Records splits the period's personal records into first-ever and improved
// entries, each capped to four.
type Records struct {
	New      []RecordEntry `json:"new"`
	Improved []RecordEntry `json:"improved"`
}

// FilterRecords classifies records achieved in the period. Records that
// improve on a previous value by less than 2% are dropped entirely. Input
// order is achievement date descending; new records keep that order while
// improved records are re-sorted by improvement percentage.
func FilterRecords(records []store.PersonalRecord) Records {
	result := Records{
		New:      []RecordEntry{},
		Improved: []RecordEntry{},
	}

	for _, r := range records {
		entry := RecordEntry{
			ID:            r.ID,
			ActivityType:  r.ActivityType,
			RecordType:    r.RecordType,
			Label:         FormatRecordTypeName(r.RecordType),
			Value:         r.Value,
			Unit:          r.Unit,
			AchievedAt:    r.AchievedAt.Format("2006-01-02"),
			PreviousValue: r.PreviousValue,
		}

		if r.PreviousValue == nil || *r.PreviousValue == 0 {
			result.New = append(result.New, entry)
			continue
		}

		improvement := math.Round((r.Value-*r.PreviousValue) / *r.PreviousValue * 1000) / 10
		if improvement < minImprovementPct {
			continue
		}
		entry.Improvement = &improvement
		result.Improved = append(result.Improved, entry)
	}

	sort.SliceStable(result.Improved, func(i, j int) bool {
		return *result.Improved[i].Improvement > *result.Improved[j].Improvement
	})

	if len(result.New) > maxRecordsPerList {
		result.New = result.New[:maxRecordsPerList]
	}
	if len(result.Improved) > maxRecordsPerList {
		result.Improved = result.Improved[:maxRecordsPerList]
	}
	return result
}
