// Package trainingload computes the CTL/ATL/TSB fitness series from
// activity training-impulse (TRIMP) scores.
package trainingload

import (
	"time"

	"github.com/cerfaos/analyse/internal/store"
)

// SeedDays is the ramp-up length of the chronic-load moving average.
// Callers that slice a stable window out of the series must skip exactly
// this many leading days; keep the report package's lookback in sync.
const SeedDays = 42

// EMA time constants (days) for chronic and acute load
const (
	ctlDays = 42.0
	atlDays = 7.0
)

// DayPoint is one day of the fitness series
type DayPoint struct {
	Date  time.Time `json:"date"`
	Trimp float64   `json:"trimp"`
	CTL   float64   `json:"ctl"`
	ATL   float64   `json:"atl"`
	TSB   float64   `json:"tsb"`
}

// Result holds the computed daily series
type Result struct {
	History []DayPoint `json:"history"`
}

// Calculate computes the daily CTL/ATL/TSB series over totalDays calendar
// days starting at start. Activities outside the grid are ignored; days
// without activities carry zero load. Multiple activities on the same day
// sum their TRIMP.
func Calculate(activities []store.Activity, start time.Time, totalDays int) Result {
	if totalDays <= 0 {
		return Result{}
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	loadByDay := make(map[string]float64, len(activities))
	for _, a := range activities {
		key := a.Date.Format("2006-01-02")
		loadByDay[key] += a.Trimp
	}

	ctlDecay := 2.0 / (ctlDays + 1.0)
	atlDecay := 2.0 / (atlDays + 1.0)

	history := make([]DayPoint, 0, totalDays)
	var ctl, atl float64

	for i := 0; i < totalDays; i++ {
		day := startDay.AddDate(0, 0, i)
		trimp := loadByDay[day.Format("2006-01-02")]

		ctl = ctl + ctlDecay*(trimp-ctl)
		atl = atl + atlDecay*(trimp-atl)

		history = append(history, DayPoint{
			Date:  day,
			Trimp: trimp,
			CTL:   ctl,
			ATL:   atl,
			TSB:   ctl - atl,
		})
	}

	return Result{History: history}
}
