package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gewnthar/arrivals/config"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locationsCsv = `code,country,lat,lon,display_name
JFK,United States,40.6413,-73.7781,"John F. Kennedy International Airport, New York"
KSEA,United States,47.4502,-122.3088,Seattle-Tacoma International Airport
XXX,Nowhere,,,Unknown Field
`

func TestParseAirportLocationsCsv(t *testing.T) {
	locations, err := ParseAirportLocationsCsv(strings.NewReader(locationsCsv))
	require.NoError(t, err)
	require.Len(t, locations, 3)

	jfk, ok := locations.Lookup(" JFK ")
	require.True(t, ok)
	assert.Equal(t, "United States", jfk.Country)
	assert.Equal(t, "John F. Kennedy International Airport, New York", jfk.DisplayName)
	require.NotNil(t, jfk.Position)
	assert.InDelta(t, 40.6413, jfk.Position.Lat, 1e-9)
	assert.InDelta(t, -73.7781, jfk.Position.Long, 1e-9)

	_, ok = locations.Lookup("SEA")
	assert.True(t, ok, "ICAO codes are normalized")

	xxx, ok := locations.Lookup("XXX")
	require.True(t, ok)
	assert.Nil(t, xxx.Position)
}

func TestParseCountryCodesCsv(t *testing.T) {
	codes, err := ParseCountryCodesCsv(strings.NewReader("country,code\nUnited States,US\nJapan,JP\n"))
	require.NoError(t, err)
	assert.Equal(t, "US", codes.Code("United States"))
	assert.Equal(t, "", codes.Code("Atlantis"))

	codes, err = ParseCountryCodesCsv(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestParseAirportLocationsJSON(t *testing.T) {
	doc := `{
		"NRT": {"country": "Japan", "lat": "35.772", "lon": "140.3929", "display_name": "Narita"},
		"SYD": {"country": "Australia", "lat": -33.9399, "lon": 151.1753, "display_name": "Sydney"},
		"ZZZ": {"country": "Nowhere", "lat": null, "lon": null, "display_name": ""}
	}`
	locations, err := ParseAirportLocationsJSON(strings.NewReader(doc))
	require.NoError(t, err)

	nrt := locations["NRT"]
	require.NotNil(t, nrt.Position)
	assert.InDelta(t, 35.772, nrt.Position.Lat, 1e-9)

	syd := locations["SYD"]
	require.NotNil(t, syd.Position)
	assert.InDelta(t, 151.1753, syd.Position.Long, 1e-9)

	assert.Nil(t, locations["ZZZ"].Position)
}

func TestLoadLookupsFromDiskAndURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/countries.json":
			fmt.Fprint(w, `{"United States": "US"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	locationsPath := filepath.Join(dir, "airports.csv")
	require.NoError(t, os.WriteFile(locationsPath, []byte(locationsCsv), 0644))

	cacheDir := filepath.Join(dir, "cache")
	locations, countries, err := LoadLookups(context.Background(), config.LookupsConfig{
		AirportLocations: locationsPath,
		CountryCodes:     srv.URL + "/countries.json",
		CacheDir:         cacheDir,
	}, resty.New())
	require.NoError(t, err)
	assert.Len(t, locations, 3)
	assert.Equal(t, "US", countries.Code("United States"))
	assert.FileExists(t, filepath.Join(cacheDir, "countries.json"))

	_, _, err = LoadLookups(context.Background(), config.LookupsConfig{
		CountryCodes: srv.URL + "/missing.csv",
		CacheDir:     cacheDir,
	}, resty.New())
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(cacheDir, "missing.csv"))
}

func TestLoadLookupsUnset(t *testing.T) {
	locations, countries, err := LoadLookups(context.Background(), config.LookupsConfig{}, resty.New())
	require.NoError(t, err)
	assert.Empty(t, locations)
	assert.Empty(t, countries)
}
