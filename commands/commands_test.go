package commands

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gewnthar/arrivals/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><body>
<table><tr><td><div>Wednesday, 19 February from 20:00 to 22:00</div></td></tr></table>
<table class="my_flight"><tr><td></td><td>Delta</td><td>DL 123</td><td></td><td>JFK</td><td>New York</td><td>20:15</td><td>20:05</td><td>B2</td><td>Landed</td></tr></table>
<table class="my_flight"><tr><td></td><td>United</td><td>UA 9</td><td></td><td>SFO</td><td>San Francisco</td><td>21:00</td><td></td><td>C1</td><td>Cancelled</td></tr></table>
</body></html>`

// setupCLI writes a config pointing at a fake arrivals board and returns
// the config path and store path.
func setupCLI(t *testing.T) (string, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") == "0" {
			fmt.Fprint(w, testPage)
			return
		}
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	storePath := filepath.Join(dir, "database.json")
	locationsPath := filepath.Join(dir, "airports.csv")
	require.NoError(t, os.WriteFile(locationsPath, []byte("code,country,lat,lon,display_name\nJFK,United States,40.6413,-73.7781,JFK Airport\n"), 0644))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`
scraper:
  base_url: %s
  min_offset: -1
  max_offset: 1
  timeout: 5s
store:
  path: %s
lookups:
  airport_locations: %s
log:
  level: error
`, srv.URL, storePath, locationsPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return cfgPath, storePath
}

func runCLI(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScrapeCommand(t *testing.T) {
	cfgPath, storePath := setupCLI(t)

	out, err := runCLI("--config", cfgPath)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "scrape failed: ")
	assert.NoFileExists(t, storePath, "a missing store is never created implicitly")

	out, err = runCLI("--config", cfgPath, "init-store")
	require.NoError(t, err)
	assert.Contains(t, out, "created empty store")

	out, err = runCLI("--config", cfgPath, storePath)
	require.NoError(t, err)
	assert.Contains(t, out, "scrape succeeded: ")
	assert.Contains(t, out, "1 labels, 2 rows")

	store, err := database.LoadStore(storePath)
	require.NoError(t, err)
	assert.Len(t, store, 1)
}

func TestScrapeCommandTooManyArgs(t *testing.T) {
	cfgPath, _ := setupCLI(t)
	out, err := runCLI("--config", cfgPath, "a.json", "b.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
	assert.Contains(t, out, "Usage:")
}

func TestInitStoreRefusesExisting(t *testing.T) {
	cfgPath, _ := setupCLI(t)
	_, err := runCLI("--config", cfgPath, "init-store")
	require.NoError(t, err)
	_, err = runCLI("--config", cfgPath, "init-store")
	assert.Error(t, err)
}

func TestReconcileCommand(t *testing.T) {
	cfgPath, storePath := setupCLI(t)
	_, err := runCLI("--config", cfgPath, "init-store")
	require.NoError(t, err)
	_, err = runCLI("--config", cfgPath)
	require.NoError(t, err)

	csvPath := filepath.Join(filepath.Dir(storePath), "flights.csv")
	out, err := runCLI("--config", cfgPath, "reconcile", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "DL 123")
	assert.Contains(t, out, "JFK Airport")
	assert.NotContains(t, out, "UA 9")
	assert.Contains(t, out, "1 flights reconciled from 1 runs")

	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "DL 123")

	out, err = runCLI("--config", cfgPath, "reconcile", "--quiet")
	require.NoError(t, err)
	assert.NotContains(t, out, "DL 123")

	_, err = runCLI("--config", cfgPath, "reconcile", "--quiet", "--db")
	assert.Error(t, err, "--db without a configured database")

	_, err = runCLI("--config", cfgPath, "reconcile", "--date", "tomorrow")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("Warning").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}
