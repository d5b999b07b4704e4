// Package hrzone models heart-rate training zones: Karvonen zone
// boundaries from max/resting heart rate, per-activity time-in-zone
// splitting, and the polarization summary derived from zone totals.
package hrzone

import (
	"math"

	"github.com/cerfaos/analyse/internal/store"
)

// Fallback athlete settings when the profile has no measured values
const (
	DefaultMaxHR     = 190
	DefaultRestingHR = 60
)

// Zone is one configured heart-rate zone. Min and Max are bpm bounds;
// Max of the top zone is unbounded in practice but kept at maxHR here.
type Zone struct {
	Zone        int    `json:"zone"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Color       string `json:"color"`
}

// zoneBands defines the five Karvonen bands as fractions of heart-rate reserve
var zoneBands = []struct {
	name        string
	description string
	low, high   float64
	color       string
}{
	{"Récupération", "Endurance fondamentale, récupération active", 0.50, 0.60, "#4ade80"},
	{"Endurance", "Aérobie légère, conversation facile", 0.60, 0.70, "#60a5fa"},
	{"Tempo", "Aérobie soutenue, effort contrôlé", 0.70, 0.80, "#facc15"},
	{"Seuil", "Proche du seuil lactique", 0.80, 0.90, "#fb923c"},
	{"VO2max", "Intensité maximale, efforts courts", 0.90, 1.00, "#f87171"},
}

// BuildZones derives the five heart-rate zones from the athlete's max and
// resting heart rate using the Karvonen (heart-rate reserve) method.
func BuildZones(maxHR, restingHR int) []Zone {
	reserve := float64(maxHR - restingHR)

	zones := make([]Zone, len(zoneBands))
	for i, band := range zoneBands {
		zones[i] = Zone{
			Zone:        i + 1,
			Name:        band.name,
			Description: band.description,
			Min:         restingHR + int(math.Round(reserve*band.low)),
			Max:         restingHR + int(math.Round(reserve*band.high)),
			Color:       band.color,
		}
	}
	return zones
}

// Durations is the per-zone time split for a single activity, positionally
// aligned with the zone list it was computed against.
type Durations struct {
	Durations []float64 `json:"durations"`
}

// ZoneDurations splits an activity's duration across the given zones.
// Without per-sample data the whole duration lands in the zone containing
// the activity's average heart rate; activities with no heart rate or no
// duration contribute a zero vector.
func ZoneDurations(a store.Activity, zones []Zone) Durations {
	durations := make([]float64, len(zones))
	if a.AvgHeartRate == nil || a.Duration <= 0 || len(zones) == 0 {
		return Durations{Durations: durations}
	}

	hr := *a.AvgHeartRate
	idx := 0
	for i, z := range zones {
		if hr >= float64(z.Min) {
			idx = i
		}
	}
	// Below zone 1 still counts as zone 1 (very easy efforts)
	durations[idx] = float64(a.Duration)
	return Durations{Durations: durations}
}

// ZoneSeconds pairs a zone number with accumulated seconds
type ZoneSeconds struct {
	Zone    int `json:"zone"`
	Seconds int `json:"seconds"`
}

// Polarization summarizes the intensity distribution across zone totals:
// low is zones 1-2, moderate zone 3, high zones 4-5.
type Polarization struct {
	LowPct      float64 `json:"low_pct"`
	ModeratePct float64 `json:"moderate_pct"`
	HighPct     float64 `json:"high_pct"`
	Profile     string  `json:"profile"`
}

// BuildPolarizationSummary classifies the training intensity distribution.
// The 80/20 reading: ~80% low intensity with meaningful high-intensity work
// is "polarized"; decreasing share per band is "pyramidal"; a moderate-heavy
// spread is "threshold".
func BuildPolarizationSummary(buckets []ZoneSeconds) Polarization {
	var low, moderate, high, total float64
	for _, b := range buckets {
		sec := float64(b.Seconds)
		total += sec
		switch {
		case b.Zone <= 2:
			low += sec
		case b.Zone == 3:
			moderate += sec
		default:
			high += sec
		}
	}

	if total == 0 {
		return Polarization{Profile: "aucune donnée"}
	}

	p := Polarization{
		LowPct:      round1(low / total * 100),
		ModeratePct: round1(moderate / total * 100),
		HighPct:     round1(high / total * 100),
	}

	switch {
	case p.LowPct >= 75 && p.HighPct >= 10:
		p.Profile = "polarisé"
	case p.LowPct >= 60 && p.ModeratePct >= p.HighPct:
		p.Profile = "pyramidal"
	case p.ModeratePct >= 35:
		p.Profile = "seuil"
	default:
		p.Profile = "mixte"
	}
	return p
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
