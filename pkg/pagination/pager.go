package pagination

import (
	"context"
	"net/http"
	"net/url"

	"github.com/saturnines/catalog-export/pkg/catalog"
)

// RequestBuilder builds signed requests for a pager.
type RequestBuilder interface {
	Build(ctx context.Context, extra url.Values) (*http.Request, error)
	BuildURL(ctx context.Context, target string) (*http.Request, error)
}

// Pager drives one pagination strategy.
//
// NextRequest returns nil once the export is done. UpdateState must be
// called with each decoded page before the next NextRequest.
type Pager interface {
	NextRequest(ctx context.Context) (*http.Request, error)
	UpdateState(page *catalog.Page) error
	// Page is the 1-based number of the page last requested.
	Page() int
}
