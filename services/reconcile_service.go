// services/reconcile_service.go
package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/scraper"
	"github.com/skypies/geo"
)

// ReconcileService flattens a snapshot store into one deduplicated,
// chronologically ordered flight history.
type ReconcileService struct {
	locations models.AirportLocations
	countries models.CountryCodes
	zone      *time.Location
	home      *geo.Latlong // optional, enables DistanceKM
}

func NewReconcileService(locations models.AirportLocations, countries models.CountryCodes, zone *time.Location, home *geo.Latlong) *ReconcileService {
	if locations == nil {
		locations = models.AirportLocations{}
	}
	if countries == nil {
		countries = models.CountryCodes{}
	}
	if zone == nil {
		zone = time.UTC
	}
	return &ReconcileService{locations: locations, countries: countries, zone: zone, home: home}
}

type flightKey struct {
	date   string
	flight string
}

func isAcceptedStatus(status string) bool {
	for _, s := range models.AcceptedStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Reconcile walks runs in capture order, labels in page order and rows in
// board order. A flight is identified by its scheduled date and flight number;
// the first accepted observation of a flight wins and later ones are dropped.
// Only "Landed" and "En Route" rows are kept.
//
// The key ignores origin airport, so two different flights sharing a number
// on the same day collapse into the first one seen.
//
// The result is sorted by scheduled time. Rows whose scheduled time could not
// be resolved come last, in encounter order.
func (s *ReconcileService) Reconcile(ctx context.Context, store models.Store) []models.ResolvedFlight {
	seen := make(map[flightKey]struct{})
	reported := make(map[string]struct{})
	flights := []models.ResolvedFlight{}

	for _, key := range store.RunKeys() {
		snapshot := store[key]
		captured, captureErr := key.Time()
		if captureErr != nil {
			slog.WarnContext(ctx, "run key is not a timestamp, its times stay unresolved", "component", "service", "run_key", key)
		}

		for _, labelText := range snapshot.Labels() {
			label, labelErr := scraper.ParsePageLabel(labelText)
			if labelErr != nil {
				if _, done := reported[labelText]; !done {
					reported[labelText] = struct{}{}
					slog.WarnContext(ctx, "unparseable page label, times stay unresolved", "component", "service", "label", labelText, "err", labelErr)
				}
			}
			resolvable := labelErr == nil && captureErr == nil
			year := 0
			if resolvable {
				year = LabelYear(label, captured, s.zone)
			}

			for _, row := range snapshot.Rows(labelText) {
				status := strings.TrimSpace(row.Status)
				if !isAcceptedStatus(status) {
					continue
				}

				flight := s.resolveRow(ctx, row, status)
				if resolvable {
					flight.Scheduled = s.resolveTime(ctx, label, row.Scheduled, year, "scheduled", flight.Flight)
					flight.Actual = s.resolveTime(ctx, label, row.Actual, year, "actual", flight.Flight)
				}

				k := flightKey{date: flight.ScheduledDate(), flight: flight.Flight}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				flights = append(flights, flight)
			}
		}
	}

	sort.SliceStable(flights, func(i, j int) bool {
		a, b := flights[i].Scheduled, flights[j].Scheduled
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return flights
}

// resolveRow builds the record without timestamps and joins the lookup tables.
func (s *ReconcileService) resolveRow(ctx context.Context, row models.RawRow, status string) models.ResolvedFlight {
	flight := models.ResolvedFlight{
		Flight:  strings.TrimSpace(row.Flight),
		Gate:    strings.TrimSpace(row.Gate),
		Airport: strings.TrimSpace(row.Airport),
		City:    strings.TrimSpace(row.City),
		Status:  status,
	}

	loc, ok := s.locations.Lookup(flight.Airport)
	if !ok {
		slog.DebugContext(ctx, "no location for airport", "component", "service", "airport", flight.Airport)
		return flight
	}
	flight.Country = s.countries.Code(loc.Country)
	flight.DisplayName = loc.DisplayName
	if loc.Position != nil {
		lat, long := loc.Position.Lat, loc.Position.Long
		flight.Latitude, flight.Longitude = &lat, &long
		if s.home != nil {
			dist := s.home.DistKM(*loc.Position)
			flight.DistanceKM = &dist
		}
	}
	return flight
}

func (s *ReconcileService) resolveTime(ctx context.Context, label scraper.PageLabel, timeOfDay string, year int, field, flight string) *time.Time {
	if strings.TrimSpace(timeOfDay) == "" {
		return nil
	}
	t, err := resolveWithLabel(label, timeOfDay, year, s.zone)
	if err != nil {
		slog.DebugContext(ctx, "unresolved time", "component", "service", "field", field, "flight", flight, "err", err)
		return nil
	}
	return &t
}

// FilterByScheduledDate keeps the flights scheduled on date (YYYY-MM-DD).
// An empty date keeps everything.
func FilterByScheduledDate(flights []models.ResolvedFlight, date string) []models.ResolvedFlight {
	if date == "" {
		return flights
	}
	out := []models.ResolvedFlight{}
	for _, f := range flights {
		if f.ScheduledDate() == date {
			out = append(out, f)
		}
	}
	return out
}
