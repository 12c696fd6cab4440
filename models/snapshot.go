// models/snapshot.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Snapshot maps page labels to the rows shown under them during one scrape
// pass. Labels keep first-insertion order, and that order survives a JSON
// round trip, so reconciliation sees rows in capture order.
type Snapshot struct {
	labels []string
	rows   map[string][]RawRow
}

func NewSnapshot() *Snapshot {
	return &Snapshot{rows: make(map[string][]RawRow)}
}

// Set stores rows under label. Re-setting a label replaces its rows but keeps
// its original position.
func (s *Snapshot) Set(label string, rows []RawRow) {
	if s.rows == nil {
		s.rows = make(map[string][]RawRow)
	}
	if _, ok := s.rows[label]; !ok {
		s.labels = append(s.labels, label)
	}
	s.rows[label] = rows
}

// Labels returns the labels in insertion order.
func (s *Snapshot) Labels() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s *Snapshot) Rows(label string) []RawRow {
	if s == nil {
		return nil
	}
	return s.rows[label]
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// RowCount is the total number of rows across all labels.
func (s *Snapshot) RowCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, rows := range s.rows {
		n += len(rows)
	}
	return n
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range s.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		rows := s.rows[label]
		if rows == nil {
			rows = []RawRow{}
		}
		value, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal rows for label %q: %w", label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	s.labels = nil
	s.rows = make(map[string][]RawRow)
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("snapshot must be a JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected snapshot key %v", tok)
		}
		var rows []RawRow
		if err := dec.Decode(&rows); err != nil {
			return fmt.Errorf("failed to decode rows for label %q: %w", label, err)
		}
		s.Set(label, rows)
	}
	_, err = dec.Token() // closing brace
	return err
}

// RunKey identifies one scrape run: its capture time as seconds since the
// epoch, stringified. Older documents may carry fractional seconds.
type RunKey string

func NewRunKey(t time.Time) RunKey {
	return RunKey(strconv.FormatInt(t.Unix(), 10))
}

// Time parses the key back into the capture instant.
func (k RunKey) Time() (time.Time, error) {
	secs, err := strconv.ParseFloat(string(k), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("run key %q is not a numeric timestamp: %w", string(k), err)
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)), nil
}

// Store holds every scrape run, keyed by capture time.
type Store map[RunKey]*Snapshot

// RunKeys returns the keys in chronological order. Keys that are not numeric
// sort after the numeric ones, lexically.
func (s Store) RunKeys() []RunKey {
	keys := make([]RunKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ti, erri := strconv.ParseFloat(string(keys[i]), 64)
		tj, errj := strconv.ParseFloat(string(keys[j]), 64)
		switch {
		case erri == nil && errj == nil:
			if ti != tj {
				return ti < tj
			}
			return keys[i] < keys[j]
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
