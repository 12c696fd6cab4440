// scraper/page_label.go
package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Labels look like "Wednesday, 19 February from 23:00 to 01:00".
var pageLabelRegex = regexp.MustCompile(`([A-Za-z]+,\s+\d{1,2}\s+[A-Za-z]+)\s+from\s+(\d{1,2}:\d{2})\s+to\s+(\d{1,2}:\d{2})`)

const (
	labelDateLayout = "Monday, 2 January 2006"
	timeOfDayLayout = "15:04"
)

// PageLabel is the parsed form of the date and time window shown at the top of
// an arrivals page. The window is [From, To) local time and may cross midnight.
type PageLabel struct {
	Date string // e.g. "Wednesday, 19 February"
	From string // HH:MM
	To   string // HH:MM
}

// ParsePageLabel applies the label grammar. The grammar has to match exactly
// once.
func ParsePageLabel(label string) (PageLabel, error) {
	if strings.TrimSpace(label) == "" {
		return PageLabel{}, fmt.Errorf("%w: empty label", ErrMalformedLabel)
	}
	matches := pageLabelRegex.FindAllStringSubmatch(label, -1)
	if len(matches) != 1 {
		return PageLabel{}, fmt.Errorf("%w: %q matched the label grammar %d times", ErrMalformedLabel, label, len(matches))
	}
	m := matches[0]
	return PageLabel{
		Date: strings.Join(strings.Fields(m[1]), " "),
		From: m[2],
		To:   m[3],
	}, nil
}

// At combines the label date, the given year and a time-of-day into an
// absolute time in loc.
func (p PageLabel) At(year int, timeOfDay string, loc *time.Location) (time.Time, error) {
	timeOfDay = strings.TrimSpace(timeOfDay)
	if timeOfDay == "" {
		return time.Time{}, fmt.Errorf("%w: empty time of day", ErrMalformedLabel)
	}
	day, err := time.Parse(labelDateLayout, fmt.Sprintf("%s %d", p.Date, year))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to parse date %q: %v", ErrMalformedLabel, p.Date, err)
	}
	clock, err := time.Parse(timeOfDayLayout, timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to parse time of day %q: %v", ErrMalformedLabel, timeOfDay, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// WindowStart is the absolute start of the label's window.
func (p PageLabel) WindowStart(year int, loc *time.Location) (time.Time, error) {
	return p.At(year, p.From, loc)
}
