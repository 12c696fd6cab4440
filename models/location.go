// models/location.go
package models

import (
	"github.com/gewnthar/arrivals/utils"
	"github.com/skypies/geo"
)

// AirportLocation is the reference data attached to an origin airport.
type AirportLocation struct {
	Country     string
	DisplayName string
	Position    *geo.Latlong // nil when the table has no usable coordinates
}

// AirportLocations maps airport codes (IATA) to their reference data.
type AirportLocations map[string]AirportLocation

// Lookup finds a location by its code. The code is normalized the way the
// table loaders normalize their keys, so "jfk" and "KJFK" find "JFK".
func (l AirportLocations) Lookup(code string) (AirportLocation, bool) {
	loc, ok := l[utils.NormalizeAirportCode(code)]
	return loc, ok
}

// CountryCodes maps country names to their short codes.
type CountryCodes map[string]string

// Code returns the code for country, or "" when unknown.
func (c CountryCodes) Code(country string) string {
	return c[country]
}
