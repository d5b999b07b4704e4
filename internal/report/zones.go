package report

import (
	"math"

	"github.com/cerfaos/analyse/internal/hrzone"
	"github.com/cerfaos/analyse/internal/store"
)

// ZoneBucket is one heart-rate zone with the period's accumulated time
type ZoneBucket struct {
	Zone        int     `json:"zone"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Color       string  `json:"color"`
	Seconds     int     `json:"seconds"`
	Hours       float64 `json:"hours"`
	Percentage  float64 `json:"percentage"`
}

// DistributeZones sums per-activity zone durations element-wise across the
// period and finalizes each zone bucket. An activity whose duration vector
// is shorter than the zone list contributes zero to the missing zones.
// Percentages are zero when the period has no zone time at all.
func DistributeZones(activities []store.Activity, zones []hrzone.Zone) ([]ZoneBucket, hrzone.Polarization) {
	totals := make([]float64, len(zones))
	for _, a := range activities {
		durations := hrzone.ZoneDurations(a, zones).Durations
		for i := range totals {
			if i < len(durations) {
				totals[i] += durations[i]
			}
		}
	}

	var grandTotal float64
	for _, t := range totals {
		grandTotal += t
	}

	buckets := make([]ZoneBucket, len(zones))
	for i, z := range zones {
		pct := 0.0
		if grandTotal > 0 {
			pct = math.Round(totals[i]/grandTotal*1000) / 10
		}
		buckets[i] = ZoneBucket{
			Zone:        z.Zone,
			Name:        z.Name,
			Description: z.Description,
			Min:         z.Min,
			Max:         z.Max,
			Color:       z.Color,
			Seconds:     int(math.Round(totals[i])),
			Hours:       round2(totals[i] / 3600),
			Percentage:  pct,
		}
	}

	pairs := make([]hrzone.ZoneSeconds, len(buckets))
	for i, b := range buckets {
		pairs[i] = hrzone.ZoneSeconds{Zone: b.Zone, Seconds: b.Seconds}
	}

	return buckets, hrzone.BuildPolarizationSummary(pairs)
}
