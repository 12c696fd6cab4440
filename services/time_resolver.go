// services/time_resolver.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/gewnthar/arrivals/scraper"
)

// ResolveArrivalTime turns a board time-of-day into an absolute time using the
// date and window of the page label it was shown under. The label carries no
// year, so the caller supplies one.
//
// A time earlier than the window start belongs to the next calendar day: a
// window "from 23:00 to 01:00" shows a 00:15 arrival on the day after its
// label date. The rule compares clock times only and is applied whenever the
// candidate precedes the window start.
//
// Errors wrap scraper.ErrMalformedLabel; callers treat them as "unresolved".
func ResolveArrivalTime(timeOfDay, label string, year int, zone *time.Location) (time.Time, error) {
	if strings.TrimSpace(timeOfDay) == "" {
		return time.Time{}, fmt.Errorf("%w: empty time of day", scraper.ErrMalformedLabel)
	}
	parsed, err := scraper.ParsePageLabel(label)
	if err != nil {
		return time.Time{}, err
	}
	return resolveWithLabel(parsed, timeOfDay, year, zone)
}

func resolveWithLabel(label scraper.PageLabel, timeOfDay string, year int, zone *time.Location) (time.Time, error) {
	candidate, err := label.At(year, timeOfDay, zone)
	if err != nil {
		return time.Time{}, err
	}
	windowStart, err := label.WindowStart(year, zone)
	if err != nil {
		return time.Time{}, err
	}
	if candidate.Before(windowStart) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// LabelYear picks the year for a label captured at the given instant: of the
// capture year and its neighbours, the one that puts the label date closest to
// the capture. This keeps a "31 December" label captured just after new year
// in the old year.
func LabelYear(label scraper.PageLabel, captured time.Time, zone *time.Location) int {
	local := captured.In(zone)
	best, bestDist := local.Year(), time.Duration(-1)
	for _, year := range []int{local.Year(), local.Year() - 1, local.Year() + 1} {
		start, err := label.WindowStart(year, zone)
		if err != nil {
			continue // e.g. 29 February outside a leap year
		}
		dist := start.Sub(local)
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = year, dist
		}
	}
	return best
}
