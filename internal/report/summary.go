package report

import (
	"math"

	"github.com/cerfaos/analyse/internal/store"
)

// LocationTotals accumulates the indoor or outdoor share of a period
type LocationTotals struct {
	Activities    int     `json:"activities"`
	Distance      float64 `json:"distance"`
	Duration      int     `json:"duration"`
	ElevationGain float64 `json:"elevation_gain"`
	Trimp         float64 `json:"trimp"`
}

// Summary holds the period totals. AvgHeartRate and AvgSpeed are nil when
// no activity carried the corresponding sample.
type Summary struct {
	TotalActivities int            `json:"total_activities"`
	TotalDistance   float64        `json:"total_distance"`
	TotalDuration   int            `json:"total_duration"`
	TotalElevation  float64        `json:"total_elevation"`
	TotalCalories   float64        `json:"total_calories"`
	TotalTrimp      float64        `json:"total_trimp"`
	AvgHeartRate    *int           `json:"avg_heart_rate"`
	AvgSpeed        *float64       `json:"avg_speed"`
	Indoor          LocationTotals `json:"indoor"`
	Outdoor         LocationTotals `json:"outdoor"`
}

// Summarize folds the period's activities into totals in a single pass.
// Missing numeric fields count as zero; heart-rate and speed averages only
// include activities that actually carry a positive sample.
func Summarize(activities []store.Activity) Summary {
	var s Summary
	var hrSum, speedSum float64
	var hrCount, speedCount int

	for _, a := range activities {
		s.TotalActivities++
		s.TotalDistance += a.Distance
		s.TotalDuration += a.Duration
		s.TotalElevation += a.ElevationGain
		s.TotalCalories += a.Calories
		s.TotalTrimp += a.Trimp

		if a.AvgHeartRate != nil && *a.AvgHeartRate > 0 {
			hrSum += *a.AvgHeartRate
			hrCount++
		}
		if a.AvgSpeed != nil && *a.AvgSpeed > 0 {
			speedSum += *a.AvgSpeed
			speedCount++
		}

		bucket := &s.Outdoor
		if IsIndoor(a) {
			bucket = &s.Indoor
		}
		bucket.Activities++
		bucket.Distance += a.Distance
		bucket.Duration += a.Duration
		bucket.ElevationGain += a.ElevationGain
		bucket.Trimp += a.Trimp
	}

	if hrCount > 0 {
		avg := int(math.Round(hrSum / float64(hrCount)))
		s.AvgHeartRate = &avg
	}
	if speedCount > 0 {
		avg := round1(speedSum / float64(speedCount))
		s.AvgSpeed = &avg
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
