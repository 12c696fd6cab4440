// scraper/page_fetcher.go
package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"
	"time"

	"github.com/gewnthar/arrivals/config"
	"github.com/go-resty/resty/v2"
)

// PageFetcher returns the raw HTML of the arrivals board at a page offset.
type PageFetcher interface {
	FetchPage(ctx context.Context, offset int) ([]byte, error)
}

// HTTPPageFetcher fetches "<base-url>?t=<offset>". Its transport settings,
// certificate verification included, belong to this instance only.
type HTTPPageFetcher struct {
	baseURL string
	client  *resty.Client
}

func NewHTTPPageFetcher(cfg config.ScraperConfig) *HTTPPageFetcher {
	client := resty.New()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("user-agent", cfg.UserAgent)
	}
	if cfg.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return &HTTPPageFetcher{baseURL: cfg.BaseURL, client: client}
}

// Client exposes the underlying resty client so lookup downloads share the
// same transport settings.
func (f *HTTPPageFetcher) Client() *resty.Client {
	return f.client
}

// FetchPage returns the page body. Network errors and non-2xx responses wrap
// ErrTransportFailure.
func (f *HTTPPageFetcher) FetchPage(ctx context.Context, offset int) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("t", strconv.Itoa(offset)).
		Get(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get %s?t=%d: %v", ErrTransportFailure, f.baseURL, offset, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: failed to get %s?t=%d: status code %d", ErrTransportFailure, f.baseURL, offset, res.StatusCode())
	}
	return res.Body(), nil
}
