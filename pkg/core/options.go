package core

import (
	"github.com/rs/zerolog"

	"github.com/saturnines/catalog-export/pkg/export"
	"github.com/saturnines/catalog-export/pkg/metrics"
	"github.com/saturnines/catalog-export/pkg/pagination"
	"github.com/saturnines/catalog-export/pkg/transport/rest"
)

// Option configures an Exporter
type Option func(*Exporter)

// WithHTTPClient replaces the HTTP client. It is still wrapped for logging and metrics.
func WithHTTPClient(client rest.HTTPDoer) Option {
	return func(e *Exporter) {
		e.client = client
	}
}

// WithMetrics records request, page, item and row counts on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) {
		e.metrics = m
	}
}

// WithLogger sets the base logger
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithPagerFactory picks pagers from f instead of pagination.DefaultFactory
func WithPagerFactory(f *pagination.Factory) Option {
	return func(e *Exporter) {
		e.factory = f
	}
}

// WithCSVWriter replaces the CSV writer
func WithCSVWriter(w *export.CSVWriter) Option {
	return func(e *Exporter) {
		e.writer = w
	}
}

// WithRunID overrides the generated run id
func WithRunID(id string) Option {
	return func(e *Exporter) {
		e.runID = id
	}
}
