package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/saturnines/catalog-export/pkg/metrics"
)

// HTTPDoer is a minimal interface for HTTP clients
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client with the given timeout. Zero means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// InstrumentedDoer logs and records metrics for every request it sends.
type InstrumentedDoer struct {
	Next    HTTPDoer
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// NewInstrumentedDoer wraps next. m may be nil.
func NewInstrumentedDoer(next HTTPDoer, m *metrics.Metrics, logger zerolog.Logger) *InstrumentedDoer {
	return &InstrumentedDoer{Next: next, Metrics: m, Logger: logger}
}

// Do sends the request through the wrapped doer.
func (d *InstrumentedDoer) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	d.Logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("Sending request")

	resp, err := d.Next.Do(req)
	duration := time.Since(start)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	if d.Metrics != nil {
		d.Metrics.RequestsTotal.WithLabelValues(status).Inc()
		d.Metrics.RequestDuration.Observe(duration.Seconds())
	}

	if err != nil {
		d.Logger.Warn().
			Err(err).
			Str("path", req.URL.Path).
			Dur("duration", duration).
			Msg("Request failed")
		return nil, err
	}

	d.Logger.Debug().
		Str("path", req.URL.Path).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("Received response")

	return resp, nil
}
