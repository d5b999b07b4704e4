package report

import (
	"math"

	"github.com/cerfaos/analyse/internal/store"
)

// MonthBucket is one calendar month of an annual breakdown. Sums are
// rounded to whole numbers; the averages are nil when the month has no
// contributing activities.
type MonthBucket struct {
	Month         int      `json:"month"`
	Label         string   `json:"label"`
	Count         int      `json:"count"`
	Distance      int      `json:"distance"`
	Duration      int      `json:"duration"`
	ElevationGain int      `json:"elevation_gain"`
	Trimp         int      `json:"trimp"`
	AvgSpeed      *float64 `json:"avg_speed"`
	AvgHeartRate  *int     `json:"avg_heart_rate"`
}

// MonthlyBreakdown folds activities into twelve calendar-month buckets.
// All twelve months are always present, zeroed when empty. Bucketing looks
// only at the activity's month, not its year.
func MonthlyBreakdown(activities []store.Activity) []MonthBucket {
	type accumulator struct {
		count         int
		distance      float64
		duration      int
		elevationGain float64
		trimp         float64
		speedSum      float64
		speedCount    int
		hrSum         float64
		hrCount       int
	}
	acc := make([]accumulator, 12)

	for _, a := range activities {
		m := int(a.Date.Month()) - 1
		acc[m].count++
		acc[m].distance += a.Distance
		acc[m].duration += a.Duration
		acc[m].elevationGain += a.ElevationGain
		acc[m].trimp += a.Trimp
		if a.AvgSpeed != nil && *a.AvgSpeed > 0 {
			acc[m].speedSum += *a.AvgSpeed
			acc[m].speedCount++
		}
		if a.AvgHeartRate != nil && *a.AvgHeartRate > 0 {
			acc[m].hrSum += *a.AvgHeartRate
			acc[m].hrCount++
		}
	}

	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		b := MonthBucket{
			Month:         i + 1,
			Label:         monthNames[i],
			Count:         acc[i].count,
			Distance:      int(math.Round(acc[i].distance)),
			Duration:      acc[i].duration,
			ElevationGain: int(math.Round(acc[i].elevationGain)),
			Trimp:         int(math.Round(acc[i].trimp)),
		}
		if acc[i].speedCount > 0 {
			speed := round1(acc[i].speedSum / float64(acc[i].speedCount))
			b.AvgSpeed = &speed
		}
		if acc[i].hrCount > 0 {
			hr := int(math.Round(acc[i].hrSum / float64(acc[i].hrCount)))
			b.AvgHeartRate = &hr
		}
		buckets[i] = b
	}
	return buckets
}
