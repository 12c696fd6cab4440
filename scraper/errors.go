// scraper/errors.go
package scraper

import "errors"

var (
	// ErrTransportFailure wraps any fetch error. It aborts the whole collection run.
	ErrTransportFailure = errors.New("transport failure")
	// ErrExtractionFailure marks a page whose content could not be processed.
	ErrExtractionFailure = errors.New("extraction failure")
	// ErrMalformedRow marks an arrivals table row that does not fit the row schema.
	ErrMalformedRow = errors.New("malformed arrivals row")
	// ErrMalformedLabel marks a page label or time-of-day that cannot be parsed.
	ErrMalformedLabel = errors.New("malformed page label")
)
