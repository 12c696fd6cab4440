package services

import (
	"testing"
	"time"

	"github.com/gewnthar/arrivals/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pst = time.FixedZone("PST", -8*3600)

func TestResolveArrivalTime(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		timeOfDay string
		want      string
	}{
		{
			name:      "after midnight in a window crossing midnight",
			label:     "Wednesday, 19 February from 23:00 to 01:00",
			timeOfDay: "00:15",
			want:      "2020-02-20T00:15:00-08:00",
		},
		{
			name:      "inside a same-day window",
			label:     "Wednesday, 19 February from 20:00 to 22:00",
			timeOfDay: "21:31",
			want:      "2020-02-19T21:31:00-08:00",
		},
		{
			name:      "before midnight in a window crossing midnight",
			label:     "Wednesday, 19 February from 23:00 to 01:00",
			timeOfDay: "23:45",
			want:      "2020-02-19T23:45:00-08:00",
		},
		{
			name:      "exactly at the window start",
			label:     "Wednesday, 19 February from 20:00 to 22:00",
			timeOfDay: "20:00",
			want:      "2020-02-19T20:00:00-08:00",
		},
		{
			name:      "early arrival shown in a later window rolls over",
			label:     "Wednesday, 19 February from 20:00 to 22:00",
			timeOfDay: "19:55",
			want:      "2020-02-20T19:55:00-08:00",
		},
		{
			name:      "month end",
			label:     "Saturday, 29 February from 23:00 to 01:00",
			timeOfDay: "00:30",
			want:      "2020-03-01T00:30:00-08:00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveArrivalTime(tt.timeOfDay, tt.label, 2020, pst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(time.RFC3339))
		})
	}
}

func TestResolveArrivalTimeMalformed(t *testing.T) {
	for _, tc := range []struct{ timeOfDay, label string }{
		{"21:31", "garbage text"},
		{"21:31", ""},
		{"", "Wednesday, 19 February from 20:00 to 22:00"},
		{"   ", "Wednesday, 19 February from 20:00 to 22:00"},
		{"soon", "Wednesday, 19 February from 20:00 to 22:00"},
		{"21:31", "Wednesday, 30 February from 20:00 to 22:00"},
	} {
		_, err := ResolveArrivalTime(tc.timeOfDay, tc.label, 2020, pst)
		assert.ErrorIs(t, err, scraper.ErrMalformedLabel, "time %q label %q", tc.timeOfDay, tc.label)
	}
}

func TestLabelYear(t *testing.T) {
	label := func(s string) scraper.PageLabel {
		l, err := scraper.ParsePageLabel(s)
		require.NoError(t, err)
		return l
	}

	mid := time.Date(2020, 2, 19, 12, 0, 0, 0, pst)
	assert.Equal(t, 2020, LabelYear(label("Wednesday, 19 February from 20:00 to 22:00"), mid, pst))

	// captured on new year's morning, the board still shows the evening before
	newYear := time.Date(2021, 1, 1, 6, 0, 0, 0, pst)
	assert.Equal(t, 2020, LabelYear(label("Thursday, 31 December from 22:00 to 00:00"), newYear, pst))
	assert.Equal(t, 2021, LabelYear(label("Friday, 1 January from 06:00 to 08:00"), newYear, pst))

	// captured on new year's eve, the board already shows tomorrow
	eve := time.Date(2020, 12, 31, 20, 0, 0, 0, pst)
	assert.Equal(t, 2021, LabelYear(label("Friday, 1 January from 00:00 to 02:00"), eve, pst))

	// the capture instant is read in the airport zone: 2021-01-01 03:00 UTC is still 2020 in PST
	utcCapture := time.Date(2021, 1, 1, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, 2020, LabelYear(label("Thursday, 31 December from 18:00 to 20:00"), utcCapture, pst))

	// 29 February only exists in leap years
	assert.Equal(t, 2020, LabelYear(label("Saturday, 29 February from 10:00 to 12:00"), time.Date(2021, 1, 5, 0, 0, 0, 0, pst), pst))
}
