// scraper/collector.go
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/gewnthar/arrivals/models"
)

// Collector performs one scrape pass over a contiguous range of page offsets.
type Collector struct {
	fetcher   PageFetcher
	extractor *ArrivalsExtractor
	minOffset int
	maxOffset int
}

func NewCollector(fetcher PageFetcher, extractor *ArrivalsExtractor, minOffset, maxOffset int) *Collector {
	return &Collector{
		fetcher:   fetcher,
		extractor: extractor,
		minOffset: minOffset,
		maxOffset: maxOffset,
	}
}

// Collect fetches every offset in [minOffset, maxOffset] in order and builds a
// snapshot from the pages that carry a label. A later page with the same label
// replaces an earlier one. Any transport failure aborts the pass and no
// snapshot is returned.
func (c *Collector) Collect(ctx context.Context) (*models.Snapshot, error) {
	if c.minOffset > c.maxOffset {
		return nil, fmt.Errorf("invalid offset range %d..%d", c.minOffset, c.maxOffset)
	}
	slog.InfoContext(ctx, "starting collection", "component", "scraper", "from", c.minOffset, "to", c.maxOffset)

	snapshot := models.NewSnapshot()
	for offset := c.minOffset; offset <= c.maxOffset; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collection cancelled at offset %d: %w", offset, err)
		}

		body, err := c.fetcher.FetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch offset %d: %w", offset, err)
		}

		page, found, err := c.extractor.Extract(bytes.NewReader(body))
		if err != nil {
			slog.ErrorContext(ctx, "page could not be extracted", "component", "scraper", "offset", offset, "err", err)
			continue
		}
		if !found {
			slog.DebugContext(ctx, "page has no arrivals label", "component", "scraper", "offset", offset)
			continue
		}
		snapshot.Set(page.Label, page.Rows)
		slog.DebugContext(ctx, "page collected", "component", "scraper", "offset", offset, "label", page.Label, "rows", len(page.Rows))
	}

	slog.InfoContext(ctx, "collection finished", "component", "scraper", "labels", snapshot.Len(), "rows", snapshot.RowCount())
	return snapshot, nil
}
