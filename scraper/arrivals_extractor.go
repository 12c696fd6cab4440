// scraper/arrivals_extractor.go
package scraper

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/arrivals/config"
	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/utils"
)

// arrivalsRowSchema pins the board's column layout. A page-format change shows
// up as ErrMalformedRow here and nowhere else.
type arrivalsRowSchema struct {
	columns   int
	airline   int
	flight    int
	airport   int
	city      int
	scheduled int
	actual    int
	gate      int
	status    int
}

var boardRowSchema = arrivalsRowSchema{
	columns:   10,
	airline:   1,
	flight:    2,
	airport:   4,
	city:      5,
	scheduled: 6,
	actual:    7,
	gate:      8,
	status:    9,
}

// decode maps cell texts onto a RawRow after checking the column count.
func (s arrivalsRowSchema) decode(cells []string) (models.RawRow, error) {
	if len(cells) != s.columns {
		return models.RawRow{}, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedRow, s.columns, len(cells))
	}
	return models.RawRow{
		Airline:   cells[s.airline],
		Flight:    cells[s.flight],
		Airport:   cells[s.airport],
		City:      cells[s.city],
		Scheduled: cells[s.scheduled],
		Actual:    cells[s.actual],
		Gate:      cells[s.gate],
		Status:    cells[s.status],
	}, nil
}

// ArrivalsPage is what one arrivals board page yields.
type ArrivalsPage struct {
	Label string
	Rows  []models.RawRow
}

// ArrivalsExtractor pulls the page label and flight rows out of an arrivals
// board page.
type ArrivalsExtractor struct {
	labelTableSelector string
	labelSelector      string
	rowSelector        string
}

// NewArrivalsExtractor builds an extractor from the configured selectors,
// falling back to the board's known layout for any that are empty.
func NewArrivalsExtractor(sel config.ScraperSelectorsConfig) *ArrivalsExtractor {
	e := &ArrivalsExtractor{
		labelTableSelector: sel.LabelTable,
		labelSelector:      sel.Label,
		rowSelector:        sel.Rows,
	}
	if e.labelTableSelector == "" {
		e.labelTableSelector = "table"
	}
	if e.labelSelector == "" {
		e.labelSelector = "div"
	}
	if e.rowSelector == "" {
		e.rowSelector = "table.my_flight"
	}
	return e
}

// Extract parses an HTML page. found is false when the page carries no label,
// which is how out-of-range offsets look. A non-nil error means the page could
// not be processed at all and wraps ErrExtractionFailure.
func (e *ArrivalsExtractor) Extract(r io.Reader) (page ArrivalsPage, found bool, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ArrivalsPage{}, false, fmt.Errorf("%w: failed to parse HTML: %v", ErrExtractionFailure, err)
	}
	return e.ExtractDocument(doc)
}

// ExtractDocument is Extract for an already parsed document.
func (e *ArrivalsExtractor) ExtractDocument(doc *goquery.Document) (page ArrivalsPage, found bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, found = ArrivalsPage{}, false
			err = fmt.Errorf("%w: %v", ErrExtractionFailure, r)
		}
	}()

	label, ok := e.pageLabel(doc)
	if !ok {
		return ArrivalsPage{}, false, nil
	}
	return ArrivalsPage{Label: label, Rows: e.rows(doc)}, true, nil
}

func (e *ArrivalsExtractor) pageLabel(doc *goquery.Document) (string, bool) {
	labelNode := doc.Find(e.labelTableSelector).First().Find(e.labelSelector).First()
	if labelNode.Length() == 0 {
		return "", false
	}
	label := utils.CleanCell(labelNode.Text())
	return label, label != ""
}

func (e *ArrivalsExtractor) rows(doc *goquery.Document) []models.RawRow {
	rows := []models.RawRow{}
	doc.Find(e.rowSelector).Each(func(i int, table *goquery.Selection) {
		if table.Children().Length() == 0 {
			slog.Debug("skipping arrivals table without children", "component", "scraper", "index", i)
			return
		}
		// The parser wraps rows in an implicit tbody; only the first row
		// carries the flight, later rows hold notes such as codeshares.
		first := table.Find("tr").First()
		cells := first.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return td.Text()
		})
		row, err := boardRowSchema.decode(cells)
		if err != nil {
			slog.Debug("skipping malformed arrivals row", "component", "scraper", "index", i, "err", err)
			return
		}
		rows = append(rows, row)
	})
	return rows
}
