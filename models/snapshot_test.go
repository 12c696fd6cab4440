package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotKeepsLabelOrder(t *testing.T) {
	s := NewSnapshot()
	s.Set("Thursday, 20 February from 00:00 to 02:00", []RawRow{{Flight: "AA 1"}})
	s.Set("Wednesday, 19 February from 22:00 to 00:00", nil)
	s.Set("Thursday, 20 February from 00:00 to 02:00", []RawRow{{Flight: "AA 2"}})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Thursday, 20 February from 00:00 to 02:00": [{"airline":"","flight":"AA 2","airport":"","city":"","scheduled":"","actual":"","gate":"","status":""}],
		"Wednesday, 19 February from 22:00 to 00:00": []
	}`, string(data))

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	want := []string{
		"Thursday, 20 February from 00:00 to 02:00",
		"Wednesday, 19 February from 22:00 to 00:00",
	}
	if diff := cmp.Diff(want, back.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, back.RowCount())
	assert.Equal(t, "AA 2", back.Rows(want[0])[0].Flight)
}

func TestSnapshotUnmarshalRejectsNonObject(t *testing.T) {
	var s Snapshot
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))

	var store Store
	require.NoError(t, json.Unmarshal([]byte(`{"1700000000": null}`), &store))
	assert.Equal(t, 0, store["1700000000"].Len())
}

func TestStoreRunKeysOrder(t *testing.T) {
	store := Store{
		"1700000100":    NewSnapshot(),
		"999":           NewSnapshot(),
		"legacy":        NewSnapshot(),
		"1700000000.5":  NewSnapshot(),
		"1700000000.25": NewSnapshot(),
	}
	want := []RunKey{"999", "1700000000.25", "1700000000.5", "1700000100", "legacy"}
	if diff := cmp.Diff(want, store.RunKeys()); diff != "" {
		t.Errorf("run keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRunKeyTime(t *testing.T) {
	at := time.Date(2025, 2, 19, 20, 30, 0, 0, time.UTC)
	key := NewRunKey(at.Add(400 * time.Millisecond))
	assert.Equal(t, RunKey("1739997000"), key)

	got, err := key.Time()
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	got, err = RunKey("1739997000.5").Time()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, got.Sub(at))

	_, err = RunKey("yesterday").Time()
	assert.Error(t, err)
}

func TestScheduledDate(t *testing.T) {
	zone := time.FixedZone("PST", -8*3600)
	at := time.Date(2025, 2, 19, 23, 30, 0, 0, zone)
	assert.Equal(t, "2025-02-19", ResolvedFlight{Scheduled: &at}.ScheduledDate())
	assert.Equal(t, "", ResolvedFlight{}.ScheduledDate())
}

func TestLookups(t *testing.T) {
	locs := AirportLocations{"JFK": {Country: "United States"}}
	loc, ok := locs.Lookup(" JFK ")
	assert.True(t, ok)
	assert.Equal(t, "United States", loc.Country)
	for _, code := range []string{"jfk", "KJFK", " kjfk\n"} {
		_, ok = locs.Lookup(code)
		assert.True(t, ok, code)
	}
	_, ok = locs.Lookup("ZZZ")
	assert.False(t, ok)

	codes := CountryCodes{"United States": "US"}
	assert.Equal(t, "US", codes.Code("United States"))
	assert.Equal(t, "", codes.Code("Atlantis"))
}
