package report

import (
	"fmt"
	"time"
)

// PeriodType distinguishes monthly from annual reports
type PeriodType string

const (
	PeriodMonthly PeriodType = "monthly"
	PeriodAnnual  PeriodType = "annual"
)

// Period is a resolved reporting window. Start and End are inclusive
// calendar boundaries.
type Period struct {
	Type  PeriodType `json:"type"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Label string     `json:"label"`
}

// French month names for period labels (the product locale is French)
var monthNames = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// MonthlyPeriod resolves the inclusive boundaries and label of one
// calendar month. Out-of-range months are not validated: time.Date
// normalizes them (month 13 rolls into January of year+1) and the
// boundaries and label follow the normalized date.
func MonthlyPeriod(month, year int) Period {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Period{
		Type:  PeriodMonthly,
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s %d", monthNames[start.Month()-1], start.Year()),
	}
}

// AnnualPeriod resolves the inclusive boundaries and label of one
// calendar year.
func AnnualPeriod(year int) Period {
	return Period{
		Type:  PeriodAnnual,
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		Label: fmt.Sprintf("Année %d", year),
	}
}

// daysBetween counts whole calendar days from a to b (0 when equal)
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}
