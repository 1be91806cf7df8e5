package pagination

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/saturnines/catalog-export/pkg/catalog"
	"github.com/saturnines/catalog-export/pkg/errors"
)

// Query parameters understood by the content export endpoint.
const (
	PageParam = "page"
	SizeParam = "size"
)

// PagePager requests page 1, 2, ... and stops after the first page holding
// fewer items than the page size. Totals reported by the server are ignored
// because they can change while the export runs.
type PagePager struct {
	Builder   RequestBuilder
	PageParam string
	SizeParam string

	page    int
	size    int
	first   bool
	hasMore bool
	pending bool
}

// NewPagePager builds a PagePager starting at page 1.
func NewPagePager(builder RequestBuilder, pageSize int) (*PagePager, error) {
	if pageSize < 1 {
		return nil, errors.WrapError(
			fmt.Errorf("page size must be positive, got %d", pageSize),
			errors.ErrConfiguration,
			"create page pager",
		)
	}
	return &PagePager{
		Builder:   builder,
		PageParam: PageParam,
		SizeParam: SizeParam,
		page:      1,
		size:      pageSize,
		first:     true,
		hasMore:   true,
	}, nil
}

// NextRequest returns the next *http.Request, or nil when done.
func (p *PagePager) NextRequest(ctx context.Context) (*http.Request, error) {
	if p.pending {
		return nil, errors.WrapError(
			fmt.Errorf("page %d was requested but its state was never updated", p.page),
			errors.ErrPagination,
			"next page request",
		)
	}
	if !p.hasMore {
		return nil, nil
	}

	if !p.first {
		p.page++
	}

	req, err := p.Builder.Build(ctx, url.Values{
		p.PageParam: {strconv.Itoa(p.page)},
		p.SizeParam: {strconv.Itoa(p.size)},
	})
	if err != nil {
		return nil, err
	}

	p.first = false
	p.pending = true
	return req, nil
}

// UpdateState ends pagination on a short or empty page.
func (p *PagePager) UpdateState(page *catalog.Page) error {
	if page == nil {
		return errors.WrapError(fmt.Errorf("nil page"), errors.ErrPagination, "update page state")
	}
	p.pending = false
	p.hasMore = len(page.Objects) >= p.size
	return nil
}

// Page is the number of the page last requested.
func (p *PagePager) Page() int {
	return p.page
}
