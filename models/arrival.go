// models/arrival.go
package models

import "time"

// Statuses observed on the arrivals board. Only StatusLanded and StatusEnRoute
// make it into the reconciled history.
const (
	StatusLanded  = "Landed"
	StatusEnRoute = "En Route"
)

// AcceptedStatuses lists the row statuses kept by reconciliation.
var AcceptedStatuses = []string{StatusLanded, StatusEnRoute}

// RawRow is one arrivals table row exactly as scraped. Values are the raw cell
// text; trimming happens during reconciliation.
type RawRow struct {
	Airline   string `json:"airline"`
	Flight    string `json:"flight"`
	Airport   string `json:"airport"`
	City      string `json:"city"`
	Scheduled string `json:"scheduled"` // HH:MM, local
	Actual    string `json:"actual"`    // HH:MM, local
	Gate      string `json:"gate"`
	Status    string `json:"status"`
}

// ResolvedFlight is one deduplicated, geolocated arrival.
type ResolvedFlight struct {
	Scheduled   *time.Time `json:"dt_scheduled" csv:"dt_scheduled"` // nil when the label or time could not be resolved
	Actual      *time.Time `json:"dt_actual" csv:"dt_actual"`
	Flight      string     `json:"flight" csv:"flight"`
	Gate        string     `json:"gate" csv:"gate"`
	Airport     string     `json:"airport" csv:"airport"`
	City        string     `json:"city" csv:"city"`
	Country     string     `json:"country" csv:"country"` // country code
	Latitude    *float64   `json:"lat" csv:"lat"`
	Longitude   *float64   `json:"long" csv:"long"`
	DisplayName string     `json:"display_name" csv:"display_name"`
	Status      string     `json:"status" csv:"status"`
	DistanceKM  *float64   `json:"distance_km,omitempty" csv:"distance_km"` // great-circle distance from the home airport
}

// ScheduledDate is the date half of the identity key, formatted YYYY-MM-DD in
// the timestamp's own zone. Empty when the scheduled time is unresolved.
func (f ResolvedFlight) ScheduledDate() string {
	if f.Scheduled == nil {
		return ""
	}
	return f.Scheduled.Format("2006-01-02")
}
