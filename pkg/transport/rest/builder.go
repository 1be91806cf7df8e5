// pkg/transport/rest/builder.go
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/saturnines/catalog-export/pkg/auth"
	"github.com/saturnines/catalog-export/pkg/errors"
)

// Builder builds signed REST HTTP requests.
type Builder struct {
	BaseURL     string
	Endpoint    string
	Method      string
	Headers     map[string]string
	QueryParams url.Values
	AuthHandler auth.Handler
}

// NewBuilder constructs a Builder.
// Method defaults to GET if empty.
func NewBuilder(
	baseURL, endpoint, method string,
	headers map[string]string,
	params url.Values,
	authHandler auth.Handler,
) *Builder {
	if method == "" {
		method = http.MethodGet
	}
	return &Builder{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Endpoint:    endpoint,
		Method:      method,
		Headers:     headers,
		QueryParams: params,
		AuthHandler: authHandler,
	}
}

// Build creates a request to the endpoint with the base query params plus extra.
// Values in extra replace base params of the same name.
func (b *Builder) Build(ctx context.Context, extra url.Values) (*http.Request, error) {
	u, err := url.Parse(b.BaseURL + b.Endpoint)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "parse endpoint URL")
	}

	q := u.Query()
	for k, vs := range b.QueryParams {
		q[k] = append([]string(nil), vs...)
	}
	for k, vs := range extra {
		q[k] = append([]string(nil), vs...)
	}
	u.RawQuery = q.Encode()

	return b.newRequest(ctx, u)
}

// BuildURL creates a request for a server-provided URL, such as a next link.
// Relative URLs resolve against the base URL. A URL on another host is
// rejected so credentials are only ever sent to the base URL's host.
func (b *Builder) BuildURL(ctx context.Context, target string) (*http.Request, error) {
	base, err := url.Parse(b.BaseURL + "/")
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "parse base URL")
	}
	ref, err := url.Parse(target)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrPagination, "parse next link")
	}
	u := base.ResolveReference(ref)
	if u.Scheme != base.Scheme || u.Host != base.Host {
		return nil, errors.WrapError(
			fmt.Errorf("next link %q leaves %s://%s", target, base.Scheme, base.Host),
			errors.ErrPagination,
			"follow next link",
		)
	}
	return b.newRequest(ctx, u)
}

func (b *Builder) newRequest(ctx context.Context, u *url.URL) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, b.Method, u.String(), nil)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "create request")
	}

	for k, v := range b.Headers {
		req.Header.Set(k, v)
	}

	if b.AuthHandler != nil {
		if err := b.AuthHandler.ApplyAuth(req); err != nil {
			return nil, err
		}
	}

	return req, nil
}
