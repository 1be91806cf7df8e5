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

// LinkPager follows the links[rel=next] entry of each page until it is absent.
// The same href may come back several times while the server advances its
// cursor; it is followed anyway.
type LinkPager struct {
	Builder   RequestBuilder
	SizeParam string

	size    int
	page    int
	current string
	nextURL string
	done    bool
}

// NewLinkPager builds a LinkPager. The first request carries the page size.
func NewLinkPager(builder RequestBuilder, pageSize int) (*LinkPager, error) {
	if pageSize < 1 {
		return nil, errors.WrapError(
			fmt.Errorf("page size must be positive, got %d", pageSize),
			errors.ErrConfiguration,
			"create link pager",
		)
	}
	return &LinkPager{Builder: builder, SizeParam: SizeParam, size: pageSize}, nil
}

// NextRequest returns the next request or nil when done.
func (p *LinkPager) NextRequest(ctx context.Context) (*http.Request, error) {
	if p.done {
		return nil, nil
	}

	var req *http.Request
	var err error
	if p.page == 0 {
		req, err = p.Builder.Build(ctx, url.Values{p.SizeParam: {strconv.Itoa(p.size)}})
	} else {
		req, err = p.Builder.BuildURL(ctx, p.nextURL)
	}
	if err != nil {
		return nil, err
	}

	p.page++
	p.current = req.URL.String()
	// done until UpdateState sees a next link
	p.done = true
	return req, nil
}

// UpdateState saves the next link of the page.
func (p *LinkPager) UpdateState(page *catalog.Page) error {
	if page == nil {
		return errors.WrapError(fmt.Errorf("nil page"), errors.ErrPagination, "update link state")
	}

	p.nextURL = page.Next()
	if p.nextURL == "" {
		return nil
	}

	// an empty page pointing at itself would never end
	if len(page.Objects) == 0 && p.isCurrent(p.nextURL) {
		return nil
	}

	p.done = false
	return nil
}

// Page is the number of the page last requested.
func (p *LinkPager) Page() int {
	return p.page
}

func (p *LinkPager) isCurrent(next string) bool {
	cur, err := url.Parse(p.current)
	if err != nil {
		return false
	}
	ref, err := url.Parse(next)
	if err != nil {
		return false
	}
	return cur.ResolveReference(ref).String() == p.current
}
