// scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/utils"
	"github.com/jszwec/csvutil"
	"github.com/skypies/geo"
)

// airportLocationRecord is one row of the airport location table.
// Coordinates stay strings so blank cells decode cleanly.
type airportLocationRecord struct {
	Code        string `csv:"code"`
	Country     string `csv:"country"`
	Lat         string `csv:"lat"`
	Lon         string `csv:"lon"`
	DisplayName string `csv:"display_name"`
}

type countryCodeRecord struct {
	Country string `csv:"country"`
	Code    string `csv:"code"`
}

// ParseAirportLocationsCsv reads a code,country,lat,lon,display_name table.
// Header order does not matter.
func ParseAirportLocationsCsv(reader io.Reader) (models.AirportLocations, error) {
	var records []airportLocationRecord

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		if err == io.EOF {
			return models.AirportLocations{}, nil
		}
		return nil, fmt.Errorf("failed to create CSV decoder for airport locations: %w", err)
	}
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode airport locations CSV data: %w", err)
	}

	locations := make(models.AirportLocations, len(records))
	for _, rec := range records {
		code := utils.NormalizeAirportCode(rec.Code)
		if code == "" {
			continue
		}
		locations[code] = models.AirportLocation{
			Country:     strings.TrimSpace(rec.Country),
			DisplayName: strings.TrimSpace(rec.DisplayName),
			Position:    parsePosition(code, rec.Lat, rec.Lon),
		}
	}

	slog.Info("parsed airport locations", "component", "scraper", "count", len(locations))
	return locations, nil
}

// ParseCountryCodesCsv reads a country,code table.
func ParseCountryCodesCsv(reader io.Reader) (models.CountryCodes, error) {
	var records []countryCodeRecord

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		if err == io.EOF {
			return models.CountryCodes{}, nil
		}
		return nil, fmt.Errorf("failed to create CSV decoder for country codes: %w", err)
	}
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode country codes CSV data: %w", err)
	}

	codes := make(models.CountryCodes, len(records))
	for _, rec := range records {
		country := strings.TrimSpace(rec.Country)
		if country == "" {
			continue
		}
		codes[country] = strings.TrimSpace(rec.Code)
	}

	slog.Info("parsed country codes", "component", "scraper", "count", len(codes))
	return codes, nil
}

// parsePosition returns nil unless both coordinates parse.
func parsePosition(code, lat, lon string) *geo.Latlong {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" || lon == "" {
		return nil
	}
	la, errLat := strconv.ParseFloat(lat, 64)
	lo, errLon := strconv.ParseFloat(lon, 64)
	if errLat != nil || errLon != nil {
		slog.Warn("ignoring unparseable coordinates", "component", "scraper", "code", code, "lat", lat, "lon", lon)
		return nil
	}
	return &geo.Latlong{Lat: la, Long: lo}
}
