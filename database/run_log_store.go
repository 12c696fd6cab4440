// database/run_log_store.go
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gewnthar/arrivals/models"
)

func upsertRunQuery() string {
	const insert = `
		INSERT INTO collection_runs (
			run_key, home_airport, captured_at, captured_unix, label_count, row_count
		) VALUES (?, ?, ?, ?, ?, ?)`
	if driver == "sqlite" {
		return insert + `
		ON CONFLICT(run_key) DO UPDATE SET
			home_airport = excluded.home_airport,
			captured_at = excluded.captured_at,
			captured_unix = excluded.captured_unix,
			label_count = excluded.label_count,
			row_count = excluded.row_count`
	}
	return insert + `
		ON DUPLICATE KEY UPDATE
			home_airport = VALUES(home_airport),
			captured_at = VALUES(captured_at),
			captured_unix = VALUES(captured_unix),
			label_count = VALUES(label_count),
			row_count = VALUES(row_count)`
}

// LogCollectionRun records one successful collection run.
func LogCollectionRun(ctx context.Context, run models.CollectionRun) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	_, err := DB.ExecContext(ctx, upsertRunQuery(),
		string(run.RunKey), run.HomeAirport,
		run.CapturedAt.Format(time.RFC3339), run.CapturedAt.Unix(),
		run.LabelCount, run.RowCount,
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to log collection run", "component", "database", "run_key", run.RunKey, "err", err)
		return fmt.Errorf("failed to log collection run %s: %w", run.RunKey, err)
	}

	slog.DebugContext(ctx, "logged collection run", "component", "database", "run_key", run.RunKey, "rows", run.RowCount)
	return nil
}

// GetCollectionRuns returns the logged runs, most recent first.
func GetCollectionRuns(ctx context.Context, limit int) ([]models.CollectionRun, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := DB.QueryContext(ctx, `
		SELECT run_key, home_airport, captured_at, label_count, row_count
		FROM collection_runs
		ORDER BY captured_unix DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection_runs: %w", err)
	}
	defer rows.Close()

	runs := []models.CollectionRun{}
	for rows.Next() {
		var run models.CollectionRun
		var key, capturedAt string
		if err := rows.Scan(&key, &run.HomeAirport, &capturedAt, &run.LabelCount, &run.RowCount); err != nil {
			return nil, fmt.Errorf("failed to scan collection run row: %w", err)
		}
		run.RunKey = models.RunKey(key)
		if run.CapturedAt, err = time.Parse(time.RFC3339, capturedAt); err != nil {
			return nil, fmt.Errorf("failed to parse captured_at %q: %w", capturedAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection run rows: %w", err)
	}
	return runs, nil
}
