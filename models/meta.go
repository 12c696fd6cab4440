// models/meta.go
package models

import "time"

// CollectionRun records the outcome of one scrape run for auditing.
type CollectionRun struct {
	RunKey      RunKey    `db:"run_key" json:"run_key"`
	HomeAirport string    `db:"home_airport" json:"home_airport"`
	CapturedAt  time.Time `db:"captured_at" json:"captured_at"`
	LabelCount  int       `db:"label_count" json:"label_count"`
	RowCount    int       `db:"row_count" json:"row_count"`
}
