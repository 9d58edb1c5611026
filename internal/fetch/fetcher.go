// Package fetch retrieves monthly trip-data parquet files over HTTP and
// decodes them into raw tables. One fetch owns its response buffer
// exclusively until it is parsed into a table and discarded.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// Status tags the outcome of a fetch so the caller's skip-vs-abort policy is
// an explicit branch rather than a property of empty-table semantics.
type Status int

const (
	// StatusFetched means the month was retrieved and decoded.
	StatusFetched Status = iota
	// StatusNotFound means the host answered with a non-OK status — typically
	// a month that has not been published yet. Recovered locally: the month
	// contributes zero rows and other months are unaffected.
	StatusNotFound
)

// Result is the tagged outcome of fetching one (taxi type, month) unit.
// Table is non-nil only when Status is StatusFetched.
type Result struct {
	Status     Status
	Table      *domain.RawTable
	URL        string
	HTTPStatus int
}

// Fetcher retrieves monthly parquet files from a fixed base URL.
// Transport failures (timeouts, connection errors) are returned as errors and
// are fatal to the run; non-OK HTTP statuses are soft-skips (StatusNotFound).
type Fetcher struct {
	client  *http.Client
	baseURL string
	log     *slog.Logger
}

// New constructs a Fetcher. baseURL must not end with a slash; timeout is the
// fixed per-request limit covering connect, headers, and body.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		log:     log,
	}
}

// FetchMonth issues one GET for the file covering monthStart and decodes the
// parquet payload. The URL has the shape
// <base>/<type>_tripdata_<YYYY>-<MM>.parquet.
func (f *Fetcher) FetchMonth(ctx context.Context, taxiType string, monthStart time.Time) (Result, error) {
	url := fmt.Sprintf("%s/%s_tripdata_%04d-%02d.parquet",
		f.baseURL, taxiType, monthStart.Year(), int(monthStart.Month()))

	f.log.Info("fetching month", "taxi_type", taxiType, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("fetch.Fetcher.FetchMonth: build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch.Fetcher.FetchMonth: %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.log.Warn("month not available, skipping", "url", url, "status", resp.StatusCode)
		return Result{Status: StatusNotFound, URL: url, HTTPStatus: resp.StatusCode}, nil
	}

	// Parquet needs random access to the footer, so the body is buffered in
	// full before decoding. The buffer is discarded with the Result's table.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("fetch.Fetcher.FetchMonth: read body %s: %w", url, err)
	}

	table, err := decodeParquet(data)
	if err != nil {
		return Result{}, fmt.Errorf("fetch.Fetcher.FetchMonth: decode %s: %w", url, err)
	}

	return Result{Status: StatusFetched, Table: table, URL: url, HTTPStatus: resp.StatusCode}, nil
}
