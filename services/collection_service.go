// services/collection_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/models"
)

// SnapshotCollector performs one scrape pass.
type SnapshotCollector interface {
	Collect(ctx context.Context) (*models.Snapshot, error)
}

// CollectionService runs scrape passes and records them in the snapshot store.
// Runs within one process are serialized; separate processes writing the same
// store can still overwrite each other's runs.
type CollectionService struct {
	mu          sync.Mutex
	storePath   string
	homeAirport string
	collector   SnapshotCollector
	reconciler  *ReconcileService // refreshes the SQL export after each run when set
	now         func() time.Time
}

func NewCollectionService(storePath, homeAirport string, collector SnapshotCollector, reconciler *ReconcileService) *CollectionService {
	return &CollectionService{
		storePath:   storePath,
		homeAirport: homeAirport,
		collector:   collector,
		reconciler:  reconciler,
		now:         time.Now,
	}
}

// RunCollection loads the store, collects one snapshot keyed by the run's
// start time, appends it and saves. The store is loaded first so a missing
// store fails before any page is fetched.
func (s *CollectionService) RunCollection(ctx context.Context) (models.CollectionRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := s.now()
	key := models.NewRunKey(started)
	slog.InfoContext(ctx, "starting collection run", "component", "service", "run_key", key, "store", s.storePath)

	store, err := database.LoadStore(s.storePath)
	if err != nil {
		return models.CollectionRun{}, fmt.Errorf("failed to load store: %w", err)
	}
	if _, exists := store[key]; exists {
		return models.CollectionRun{}, fmt.Errorf("%w: a run was already captured at %s", database.ErrDuplicateRunKey, key)
	}

	snapshot, err := s.collector.Collect(ctx)
	if err != nil {
		return models.CollectionRun{}, fmt.Errorf("failed to collect snapshot: %w", err)
	}

	if err := database.AppendRun(store, key, snapshot); err != nil {
		return models.CollectionRun{}, err
	}
	if err := database.SaveStore(s.storePath, store); err != nil {
		return models.CollectionRun{}, fmt.Errorf("failed to save store: %w", err)
	}

	run := models.CollectionRun{
		RunKey:      key,
		HomeAirport: s.homeAirport,
		CapturedAt:  started.UTC(),
		LabelCount:  snapshot.Len(),
		RowCount:    snapshot.RowCount(),
	}
	slog.InfoContext(ctx, "collection run saved", "component", "service", "run_key", key, "labels", run.LabelCount, "rows", run.RowCount)

	if database.DB != nil {
		s.exportToDatabase(ctx, run, store)
	}
	return run, nil
}

// exportToDatabase mirrors the run into the SQL tables. The snapshot is already
// safe in the store, so failures here are logged rather than returned.
func (s *CollectionService) exportToDatabase(ctx context.Context, run models.CollectionRun, store models.Store) {
	if err := database.LogCollectionRun(ctx, run); err != nil {
		slog.WarnContext(ctx, "run log not updated", "component", "service", "err", err)
	}
	if s.reconciler == nil {
		return
	}
	flights := s.reconciler.Reconcile(ctx, store)
	if err := database.SaveArrivals(ctx, s.homeAirport, flights); err != nil {
		slog.WarnContext(ctx, "arrivals export not refreshed", "component", "service", "err", err)
	}
}
