// commands/wiring.go
package commands

import (
	"context"
	"fmt"

	"github.com/gewnthar/arrivals/config"
	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/scraper"
	"github.com/gewnthar/arrivals/services"
	"github.com/skypies/geo"
)

func newFetcher(cfg *config.Config) *scraper.HTTPPageFetcher {
	return scraper.NewHTTPPageFetcher(cfg.Scraper)
}

func newCollectionService(cfg *config.Config, storePath string, fetcher *scraper.HTTPPageFetcher, reconciler *services.ReconcileService) *services.CollectionService {
	collector := scraper.NewCollector(
		fetcher,
		scraper.NewArrivalsExtractor(cfg.ScraperSelectors),
		cfg.Scraper.MinOffset,
		cfg.Scraper.MaxOffset,
	)
	return services.NewCollectionService(storePath, cfg.Airport.Code, collector, reconciler)
}

// homePosition is nil when the home airport has no configured coordinates.
func homePosition(cfg *config.Config) *geo.Latlong {
	if cfg.Airport.Latitude == 0 && cfg.Airport.Longitude == 0 {
		return nil
	}
	return &geo.Latlong{Lat: cfg.Airport.Latitude, Long: cfg.Airport.Longitude}
}

func newReconciler(ctx context.Context, cfg *config.Config, fetcher *scraper.HTTPPageFetcher) (*services.ReconcileService, error) {
	locations, countries, err := scraper.LoadLookups(ctx, cfg.Lookups, fetcher.Client())
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup tables: %w", err)
	}
	return services.NewReconcileService(locations, countries, cfg.Airport.Location(), homePosition(cfg)), nil
}

// openDatabase connects when a database is configured. The returned func
// closes it again.
func openDatabase(cfg *config.Config) (func(), error) {
	if !cfg.Database.Enabled() {
		return func() {}, nil
	}
	if err := database.InitDB(cfg.Database); err != nil {
		return nil, err
	}
	return database.CloseDB, nil
}
