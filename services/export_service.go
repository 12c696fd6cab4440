// services/export_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gewnthar/arrivals/models"
	"github.com/jszwec/csvutil"
)

// WriteFlightsCSV writes flights with a header row. Unresolved times and
// unknown coordinates are empty cells.
func WriteFlightsCSV(w io.Writer, flights []models.ResolvedFlight) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(models.ResolvedFlight{}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, f := range flights {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode flight %s: %w", f.Flight, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportFlightsCSV writes the flights to a CSV file at path.
func ExportFlightsCSV(path string, flights []models.ResolvedFlight) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteFlightsCSV(f, flights); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	slog.Info("exported flights", "component", "service", "path", path, "count", len(flights))
	return nil
}
