// scraper/lookup_loader.go
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gewnthar/arrivals/config"
	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/utils"
	"github.com/go-resty/resty/v2"
)

// jsonCoordinate accepts a coordinate written either as a number or as a
// string, as geocoder dumps do both.
type jsonCoordinate string

func (c *jsonCoordinate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = jsonCoordinate(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		if string(data) == "null" {
			*c = ""
			return nil
		}
		return fmt.Errorf("coordinate must be a number or a string, got %s", data)
	}
	*c = jsonCoordinate(n.String())
	return nil
}

type airportLocationJSON struct {
	Country     string         `json:"country"`
	Lat         jsonCoordinate `json:"lat"`
	Lon         jsonCoordinate `json:"lon"`
	DisplayName string         `json:"display_name"`
}

// ParseAirportLocationsJSON reads an object keyed by airport code.
func ParseAirportLocationsJSON(reader io.Reader) (models.AirportLocations, error) {
	var raw map[string]airportLocationJSON
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		if err == io.EOF {
			return models.AirportLocations{}, nil
		}
		return nil, fmt.Errorf("failed to decode airport locations JSON data: %w", err)
	}
	locations := make(models.AirportLocations, len(raw))
	for code, rec := range raw {
		code = utils.NormalizeAirportCode(code)
		if code == "" {
			continue
		}
		locations[code] = models.AirportLocation{
			Country:     strings.TrimSpace(rec.Country),
			DisplayName: strings.TrimSpace(rec.DisplayName),
			Position:    parsePosition(code, string(rec.Lat), string(rec.Lon)),
		}
	}
	return locations, nil
}

// ParseCountryCodesJSON reads an object mapping country name to code.
func ParseCountryCodesJSON(reader io.Reader) (models.CountryCodes, error) {
	var raw map[string]string
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		if err == io.EOF {
			return models.CountryCodes{}, nil
		}
		return nil, fmt.Errorf("failed to decode country codes JSON data: %w", err)
	}
	codes := make(models.CountryCodes, len(raw))
	for country, code := range raw {
		codes[strings.TrimSpace(country)] = strings.TrimSpace(code)
	}
	return codes, nil
}

// LoadAirportLocations reads a location table from disk. The format follows
// the file extension (.json, anything else is CSV).
func LoadAirportLocations(path string) (models.AirportLocations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open airport locations %s: %w", path, err)
	}
	defer f.Close()

	if isJSONFile(path) {
		return ParseAirportLocationsJSON(f)
	}
	return ParseAirportLocationsCsv(f)
}

// LoadCountryCodes reads a country code table from disk.
func LoadCountryCodes(path string) (models.CountryCodes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open country codes %s: %w", path, err)
	}
	defer f.Close()

	if isJSONFile(path) {
		return ParseCountryCodesJSON(f)
	}
	return ParseCountryCodesCsv(f)
}

// LoadLookups loads both lookup tables named in cfg, downloading remote ones
// with client first. An unset source yields an empty table, which leaves the
// matching enrichment fields blank.
func LoadLookups(ctx context.Context, cfg config.LookupsConfig, client *resty.Client) (models.AirportLocations, models.CountryCodes, error) {
	locations := models.AirportLocations{}
	countries := models.CountryCodes{}

	if cfg.AirportLocations != "" {
		path, err := ResolveLookupSource(ctx, client, cfg.AirportLocations, cfg.CacheDir)
		if err != nil {
			return nil, nil, err
		}
		if locations, err = LoadAirportLocations(path); err != nil {
			return nil, nil, err
		}
	} else {
		slog.WarnContext(ctx, "no airport location table configured", "component", "scraper")
	}

	if cfg.CountryCodes != "" {
		path, err := ResolveLookupSource(ctx, client, cfg.CountryCodes, cfg.CacheDir)
		if err != nil {
			return nil, nil, err
		}
		if countries, err = LoadCountryCodes(path); err != nil {
			return nil, nil, err
		}
	} else {
		slog.WarnContext(ctx, "no country code table configured", "component", "scraper")
	}

	return locations, countries, nil
}

func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
