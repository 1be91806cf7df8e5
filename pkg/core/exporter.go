// Package core runs a catalog export: fetch every page, flatten, write once.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saturnines/catalog-export/pkg/auth"
	"github.com/saturnines/catalog-export/pkg/catalog"
	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/export"
	"github.com/saturnines/catalog-export/pkg/logging"
	"github.com/saturnines/catalog-export/pkg/metrics"
	"github.com/saturnines/catalog-export/pkg/pagination"
	"github.com/saturnines/catalog-export/pkg/transform"
	"github.com/saturnines/catalog-export/pkg/transport/rest"
)

// Query parameters carrying the field and type filters.
const (
	HitFieldsParam      = "hit_fields"
	RequestedTypesParam = "requested_types"
)

// maxErrorBody caps how much of an error response ends up in the error message.
const maxErrorBody = 512

// Result is everything an export collected.
type Result struct {
	Rows    []transform.Row
	Columns *transform.ColumnSet
	Pages   int
}

// Exporter orchestrates signing, pagination, flattening and writing.
type Exporter struct {
	cfg     *config.Export
	builder *rest.Builder
	factory *pagination.Factory
	client  rest.HTTPDoer
	writer  *export.CSVWriter
	metrics *metrics.Metrics
	logger  zerolog.Logger
	runID   string
}

// NewExporter wires an Exporter for cfg. Missing keys fail here, before any request.
func NewExporter(cfg *config.Export, keys config.Keys, opts ...Option) (*Exporter, error) {
	if cfg == nil {
		return nil, errors.WrapError(fmt.Errorf("config is nil"), errors.ErrConfiguration, "create exporter")
	}

	signer, err := auth.NewHMACAuth(keys.TrackerID, keys.APIKey)
	if err != nil {
		return nil, err
	}

	e := &Exporter{
		cfg:     cfg,
		builder: rest.NewBuilder(cfg.BaseURL, cfg.Endpoint, http.MethodGet, nil, filterParams(cfg), signer),
		factory: pagination.DefaultFactory,
		client:  rest.NewHTTPClient(cfg.Timeout.Duration),
		writer:  export.NewCSVWriter(),
		logger:  logging.NewLogger("exporter"),
		runID:   uuid.NewString(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With().Str("run_id", e.runID).Logger()
	e.client = rest.NewInstrumentedDoer(e.client, e.metrics, e.logger)

	return e, nil
}

// RunID identifies this export in logs.
func (e *Exporter) RunID() string {
	return e.runID
}

// filterParams turns the field and type filters into query params. Empty filters are omitted.
func filterParams(cfg *config.Export) url.Values {
	params := url.Values{}
	if len(cfg.HitFields) > 0 {
		params.Set(HitFieldsParam, strings.Join(cfg.HitFields, ","))
	}
	if len(cfg.RequestedTypes) > 0 {
		params.Set(RequestedTypesParam, strings.Join(cfg.RequestedTypes, ","))
	}
	return params
}

// Run fetches every page and writes the CSV file once.
// Nothing is written unless every page was fetched.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	result, err := e.Fetch(ctx)
	if err != nil {
		event := e.logger.Error().Err(err)
		var statusErr *errors.StatusError
		if errors.As(err, &statusErr) {
			event = event.Int("page", statusErr.Page).Int("status_code", statusErr.StatusCode)
		}
		event.Msg("Export aborted, no file written")
		return nil, err
	}

	path := e.cfg.OutputPath()
	if err := e.writer.Write(result.Rows, result.Columns, path); err != nil {
		e.logger.Error().Err(err).Str("path", path).Msg("Failed to write export")
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RowsWritten.Add(float64(len(result.Rows)))
	}

	e.logger.Info().
		Str("path", path).
		Int("rows", len(result.Rows)).
		Int("columns", len(result.Columns.Header())).
		Int("pages", result.Pages).
		Dur("duration", time.Since(start)).
		Msg("CSV written")

	return result, nil
}

// Fetch runs the loop: next request → send → decode → update pager → flatten.
func (e *Exporter) Fetch(ctx context.Context) (*Result, error) {
	pager, err := e.factory.CreatePager(e.cfg.Pagination.Type, e.builder, e.cfg.Pagination.PageSize)
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: transform.NewColumnSet()}

	for {
		req, err := pager.NextRequest(ctx)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrPagination, fmt.Sprintf("build request for page %d", result.Pages+1))
		}
		if req == nil {
			break
		}

		pageNum := pager.Page()
		page, err := e.fetchPage(req, pageNum)
		if err != nil {
			return nil, err
		}

		if err := pager.UpdateState(page); err != nil {
			return nil, err
		}

		for _, item := range page.Objects {
			row := transform.Flatten(item)
			result.Columns.Add(row.Columns...)
			result.Rows = append(result.Rows, row)
		}
		result.Pages++

		if e.metrics != nil {
			e.metrics.PagesTotal.Inc()
			e.metrics.ItemsTotal.Add(float64(len(page.Objects)))
		}

		e.logger.Info().
			Int("page", pageNum).
			Int("items", len(page.Objects)).
			Int("total_items", len(result.Rows)).
			Msg("Fetched page")
	}

	e.logger.Info().
		Int("pages", result.Pages).
		Int("items", len(result.Rows)).
		Msg("All pages fetched")

	return result, nil
}

// fetchPage sends one request and decodes the page it returns.
func (e *Exporter) fetchPage(req *http.Request, pageNum int) (*catalog.Page, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrTransport, fmt.Sprintf("fetch page %d", pageNum))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &errors.StatusError{
			Page:       pageNum,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrTransport, fmt.Sprintf("read page %d (HTTP %d)", pageNum, resp.StatusCode))
	}

	var page catalog.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, errors.WrapError(err, errors.ErrAPI, fmt.Sprintf("decode page %d (HTTP %d)", pageNum, resp.StatusCode))
	}

	return &page, nil
}
