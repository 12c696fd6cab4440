// database/arrival_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gewnthar/arrivals/models"
)

// SaveArrivals replaces the stored flight history of homeAirport with flights.
// Reconciled output is unique per (scheduled date, flight), which is the table
// key within one home airport.
func SaveArrivals(ctx context.Context, homeAirport string, flights []models.ResolvedFlight) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for arrivals: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM arrivals WHERE home_airport = ?", homeAirport); err != nil {
		return fmt.Errorf("failed to delete old arrivals for %s: %w", homeAirport, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO arrivals (
			home_airport, flight_date, flight,
			scheduled_at, scheduled_unix, actual_at, actual_unix,
			gate, airport, city, country, latitude, longitude,
			display_name, status, distance_km
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare arrivals insert statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range flights {
		scheduledAt, scheduledUnix := nullTime(f.Scheduled)
		actualAt, actualUnix := nullTime(f.Actual)
		_, err := stmt.ExecContext(ctx,
			homeAirport, f.ScheduledDate(), f.Flight,
			scheduledAt, scheduledUnix, actualAt, actualUnix,
			f.Gate, f.Airport, f.City, f.Country, nullFloat(f.Latitude), nullFloat(f.Longitude),
			f.DisplayName, f.Status, nullFloat(f.DistanceKM),
		)
		if err != nil {
			return fmt.Errorf("failed to insert arrival %s on %q: %w", f.Flight, f.ScheduledDate(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit arrivals: %w", err)
	}

	slog.InfoContext(ctx, "saved arrivals", "component", "database", "home_airport", homeAirport, "count", len(flights))
	return nil
}

// GetArrivals returns the stored history of homeAirport ordered by scheduled
// time, unscheduled rows last. A non-empty date (YYYY-MM-DD) restricts the
// result to that scheduled date.
func GetArrivals(ctx context.Context, homeAirport, date string) ([]models.ResolvedFlight, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	query := `
		SELECT scheduled_at, actual_at, flight, gate, airport, city, country,
		       latitude, longitude, display_name, status, distance_km
		FROM arrivals
		WHERE home_airport = ?`
	args := []any{homeAirport}
	if date != "" {
		query += " AND flight_date = ?"
		args = append(args, date)
	}
	query += " ORDER BY scheduled_unix IS NULL, scheduled_unix, flight"

	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query arrivals: %w", err)
	}
	defer rows.Close()

	flights := []models.ResolvedFlight{}
	for rows.Next() {
		var f models.ResolvedFlight
		var scheduledAt, actualAt sql.NullString
		var lat, lon, dist sql.NullFloat64
		if err := rows.Scan(
			&scheduledAt, &actualAt, &f.Flight, &f.Gate, &f.Airport, &f.City, &f.Country,
			&lat, &lon, &f.DisplayName, &f.Status, &dist,
		); err != nil {
			return nil, fmt.Errorf("failed to scan arrival row: %w", err)
		}
		if f.Scheduled, err = parseNullTime(scheduledAt); err != nil {
			return nil, err
		}
		if f.Actual, err = parseNullTime(actualAt); err != nil {
			return nil, err
		}
		f.Latitude, f.Longitude, f.DistanceKM = floatPtr(lat), floatPtr(lon), floatPtr(dist)
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating arrival rows: %w", err)
	}
	return flights, nil
}

// Timestamps are stored as RFC 3339 text, which keeps the airport's fixed
// offset, plus unix seconds for ordering.
func nullTime(t *time.Time) (sql.NullString, sql.NullInt64) {
	if t == nil {
		return sql.NullString{}, sql.NullInt64{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true},
		sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
