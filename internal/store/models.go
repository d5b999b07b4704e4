package store

import "time"

// Activity is one completed training session. Numeric fields that are
// simply absent on an import (distance, trimp, ...) are stored as zero;
// AvgHeartRate and AvgSpeed keep a nil/value distinction because a
// missing sensor must not drag averages toward zero.
type Activity struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Date          time.Time `json:"date"`
	Type          string    `json:"type"`
	SubSport      string    `json:"sub_sport,omitempty"`
	Distance      float64   `json:"distance"`
	Duration      int       `json:"duration"`
	ElevationGain float64   `json:"elevation_gain"`
	Trimp         float64   `json:"trimp"`
	Calories      float64   `json:"calories"`
	AvgHeartRate  *float64  `json:"avg_heart_rate,omitempty"`
	AvgSpeed      *float64  `json:"avg_speed,omitempty"`
	HasGPS        bool      `json:"has_gps"`
}

// PersonalRecord is one best-ever value for a record type within an
// activity type. A nil PreviousValue means first-ever record of that type.
type PersonalRecord struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ActivityType  string    `json:"activity_type"`
	RecordType    string    `json:"record_type"`
	Value         float64   `json:"value"`
	Unit          string    `json:"unit"`
	AchievedAt    time.Time `json:"achieved_at"`
	PreviousValue *float64  `json:"previous_value,omitempty"`
}

// UserProfile holds the athlete settings the zone model depends on.
// MaxHR/RestingHR are optional; callers fall back to defaults.
type UserProfile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	MaxHR     *int   `json:"max_hr,omitempty"`
	RestingHR *int   `json:"resting_hr,omitempty"`
}
