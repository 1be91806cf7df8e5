// Package metrics holds the Prometheus collectors for one export run.
//
// Metrics:
//   - catalog_export_requests_total{status} (Counter): requests by HTTP status ("error" for transport failures)
//   - catalog_export_request_duration_seconds (Histogram): request duration
//   - catalog_export_pages_total (Counter): pages fetched successfully
//   - catalog_export_items_total (Counter): items received
//   - catalog_export_rows_written_total (Counter): rows written to the CSV file
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// Metrics groups the collectors of an export run.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	PagesTotal      prometheus.Counter
	ItemsTotal      prometheus.Counter
	RowsWritten     prometheus.Counter
}

// New registers the collectors on reg. A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_export_requests_total",
			Help: "Content export requests by HTTP status",
		}, []string{"status"}),

		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_export_request_duration_seconds",
			Help:    "Content export request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),

		PagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_export_pages_total",
			Help: "Pages fetched successfully",
		}),

		ItemsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_export_items_total",
			Help: "Catalog items received",
		}),

		RowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_export_rows_written_total",
			Help: "Rows written to the CSV file",
		}),
	}
}

// WriteTextfile dumps every metric gathered by g to path in the text exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.WrapError(err, errors.ErrFilesystem, "write metrics file")
	}
	return nil
}
