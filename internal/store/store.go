package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/cerfaos/analyse/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database with typed queries
type Store struct {
	db *sql.DB
}

// New wraps an open database handle
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite database at path, configures it for concurrent
// access and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := configure(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring SQLite: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return New(db), nil
}

// Migrate applies pending goose migrations
func Migrate(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for _, r := range results {
		logging.Debug("migration applied", "version", r.Source.Version, "path", r.Source.Path)
	}
	return nil
}

// configure sets up SQLite for concurrent access. WAL allows concurrent
// reads; a single connection keeps modernc/sqlite happy under writes.
func configure(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle (migrations, stats)
func (s *Store) DB() *sql.DB {
	return s.db
}

// endOfDay pushes an inclusive calendar end date to the last instant of
// that day so BETWEEN-style queries include the whole day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ActivitiesInRange returns the user's activities with dates inside
// [start, end] (both inclusive), ordered ascending by date.
func (s *Store) ActivitiesInRange(ctx context.Context, userID int64, start, end time.Time) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, type, sub_sport, distance, duration,
		       elevation_gain, trimp, calories, avg_heart_rate, avg_speed, has_gps
		FROM activities
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`,
		userID, start, endOfDay(end))
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func scanActivity(rows *sql.Rows) (Activity, error) {
	var a Activity
	var subSport sql.NullString
	var avgHR, avgSpeed sql.NullFloat64
	var hasGPS int

	err := rows.Scan(&a.ID, &a.UserID, &a.Date, &a.Type, &subSport,
		&a.Distance, &a.Duration, &a.ElevationGain, &a.Trimp, &a.Calories,
		&avgHR, &avgSpeed, &hasGPS)
	if err != nil {
		return Activity{}, fmt.Errorf("scanning activity: %w", err)
	}

	a.SubSport = subSport.String
	if avgHR.Valid {
		a.AvgHeartRate = &avgHR.Float64
	}
	if avgSpeed.Valid {
		a.AvgSpeed = &avgSpeed.Float64
	}
	a.HasGPS = hasGPS != 0
	return a, nil
}

// UpsertActivity inserts or replaces an activity by id
func (s *Store) UpsertActivity(ctx context.Context, a Activity) error {
	var avgHR, avgSpeed sql.NullFloat64
	if a.AvgHeartRate != nil {
		avgHR = sql.NullFloat64{Float64: *a.AvgHeartRate, Valid: true}
	}
	if a.AvgSpeed != nil {
		avgSpeed = sql.NullFloat64{Float64: *a.AvgSpeed, Valid: true}
	}
	hasGPS := 0
	if a.HasGPS {
		hasGPS = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, date, type, sub_sport, distance, duration,
		                        elevation_gain, trimp, calories, avg_heart_rate, avg_speed, has_gps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			date = excluded.date,
			type = excluded.type,
			sub_sport = excluded.sub_sport,
			distance = excluded.distance,
			duration = excluded.duration,
			elevation_gain = excluded.elevation_gain,
			trimp = excluded.trimp,
			calories = excluded.calories,
			avg_heart_rate = excluded.avg_heart_rate,
			avg_speed = excluded.avg_speed,
			has_gps = excluded.has_gps`,
		a.ID, a.UserID, a.Date, a.Type, nullString(a.SubSport),
		a.Distance, a.Duration, a.ElevationGain, a.Trimp, a.Calories,
		avgHR, avgSpeed, hasGPS)
	if err != nil {
		return fmt.Errorf("upserting activity %d: %w", a.ID, err)
	}
	return nil
}

// RecordsInRange returns the user's personal records achieved inside
// [start, end], restricted to the given record types and ordered
// descending by achievement date.
func (s *Store) RecordsInRange(ctx context.Context, userID int64, start, end time.Time, types []string) ([]PersonalRecord, error) {
	if len(types) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, activity_type, record_type, value, unit, achieved_at, previous_value
		FROM personal_records
		WHERE user_id = ? AND achieved_at >= ? AND achieved_at <= ?
		  AND record_type IN (?` + repeatPlaceholder(len(types)-1) + `)
		ORDER BY achieved_at DESC`

	args := []any{userID, start, endOfDay(end)}
	for _, t := range types {
		args = append(args, t)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []PersonalRecord
	for rows.Next() {
		var r PersonalRecord
		var prev sql.NullFloat64
		err := rows.Scan(&r.ID, &r.UserID, &r.ActivityType, &r.RecordType,
			&r.Value, &r.Unit, &r.AchievedAt, &prev)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if prev.Valid {
			r.PreviousValue = &prev.Float64
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

// UpsertRecord inserts or replaces a personal record by id
func (s *Store) UpsertRecord(ctx context.Context, r PersonalRecord) error {
	var prev sql.NullFloat64
	if r.PreviousValue != nil {
		prev = sql.NullFloat64{Float64: *r.PreviousValue, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO personal_records (id, user_id, activity_type, record_type, value, unit, achieved_at, previous_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			activity_type = excluded.activity_type,
			record_type = excluded.record_type,
			value = excluded.value,
			unit = excluded.unit,
			achieved_at = excluded.achieved_at,
			previous_value = excluded.previous_value`,
		r.ID, r.UserID, r.ActivityType, r.RecordType, r.Value, r.Unit, r.AchievedAt, prev)
	if err != nil {
		return fmt.Errorf("upserting record %d: %w", r.ID, err)
	}
	return nil
}

// Profile returns the user's profile, or ErrNotFound
func (s *Store) Profile(ctx context.Context, userID int64) (UserProfile, error) {
	var p UserProfile
	var maxHR, restingHR sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, max_hr, resting_hr FROM users WHERE id = ?`, userID).
		Scan(&p.ID, &p.Name, &maxHR, &restingHR)
	if err == sql.ErrNoRows {
		return UserProfile{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("querying user %d: %w", userID, err)
	}

	if maxHR.Valid {
		v := int(maxHR.Int64)
		p.MaxHR = &v
	}
	if restingHR.Valid {
		v := int(restingHR.Int64)
		p.RestingHR = &v
	}
	return p, nil
}

// UpsertProfile inserts or replaces a user profile by id
func (s *Store) UpsertProfile(ctx context.Context, p UserProfile) error {
	var maxHR, restingHR sql.NullInt64
	if p.MaxHR != nil {
		maxHR = sql.NullInt64{Int64: int64(*p.MaxHR), Valid: true}
	}
	if p.RestingHR != nil {
		restingHR = sql.NullInt64{Int64: int64(*p.RestingHR), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, max_hr, resting_hr)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			max_hr = excluded.max_hr,
			resting_hr = excluded.resting_hr`,
		p.ID, p.Name, maxHR, restingHR)
	if err != nil {
		return fmt.Errorf("upserting user %d: %w", p.ID, err)
	}
	return nil
}

// CountActivities returns the total number of stored activities
func (s *Store) CountActivities(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting activities: %w", err)
	}
	return count, nil
}

// LatestActivityDate returns the most recent stored activity date for the
// user, or the zero time when none exist.
func (s *Store) LatestActivityDate(ctx context.Context, userID int64) (time.Time, error) {
	var date sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(date) FROM activities WHERE user_id = ?`, userID).Scan(&date)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying latest activity date: %w", err)
	}
	if !date.Valid {
		return time.Time{}, nil
	}
	return date.Time, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
