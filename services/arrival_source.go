// services/arrival_source.go
package services

import (
	"context"
	"fmt"

	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/models"
)

// ArrivalSource serves the reconciled history, optionally for a single
// scheduled date (YYYY-MM-DD).
type ArrivalSource interface {
	Arrivals(ctx context.Context, date string) ([]models.ResolvedFlight, error)
}

// StoreArrivalSource reconciles the snapshot store on every request.
type StoreArrivalSource struct {
	StorePath  string
	Reconciler *ReconcileService
}

func (s StoreArrivalSource) Arrivals(ctx context.Context, date string) ([]models.ResolvedFlight, error) {
	store, err := database.LoadStore(s.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	return FilterByScheduledDate(s.Reconciler.Reconcile(ctx, store), date), nil
}

// DatabaseArrivalSource reads the SQL export, which collection runs refresh.
type DatabaseArrivalSource struct {
	HomeAirport string
}

func (s DatabaseArrivalSource) Arrivals(ctx context.Context, date string) ([]models.ResolvedFlight, error) {
	return database.GetArrivals(ctx, s.HomeAirport, date)
}
