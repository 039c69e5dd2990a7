// Package request turns a resource identifier into a concrete HTTP request
// description. Building never touches the network.
package request

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
)

// Request describes one outbound fetch.
type Request struct {
	Resource content.Resource
	Method   string
	URL      *url.URL
}

// String returns "GET https://host/path".
func (r Request) String() string {
	if r.URL == nil {
		return r.Method + " <nil>"
	}
	return r.Method + " " + r.URL.String()
}

// Endpoint is the base URL and path of one resource.
type Endpoint struct {
	BaseURL string `yaml:"base_url"`
	Path    string `yaml:"path"`
}

// Raw returns the endpoint as a single URL string.
func (e Endpoint) Raw() string {
	if e.Path == "" {
		return e.BaseURL
	}
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(e.Path, "/")
}

// DefaultEndpoints returns the public endpoints used when nothing is configured.
func DefaultEndpoints() map[content.Resource]Endpoint {
	return map[content.Resource]Endpoint{
		content.ResourceJoke:     {BaseURL: "https://api.chucknorris.io", Path: "/jokes/random"},
		content.ResourceComments: {BaseURL: "https://jsonplaceholder.typicode.com", Path: "/comments"},
		content.ResourceImage:    {BaseURL: "https://www.planetware.com", Path: "/photos-large/F/france-paris-eiffel-tower.jpg"},
	}
}

// ErrNoEndpoint is the cause when a resource has no configured endpoint.
var ErrNoEndpoint = errors.New("no endpoint configured")

// Builder resolves resources against a fixed endpoint table.
type Builder struct {
	endpoints map[content.Resource]Endpoint
}

// NewBuilder creates a Builder. Resources missing from endpoints fall back to
// DefaultEndpoints; pass an Endpoint with an empty BaseURL to make a resource
// unbuildable.
func NewBuilder(endpoints map[content.Resource]Endpoint) *Builder {
	table := DefaultEndpoints()
	for r, e := range endpoints {
		table[r] = e
	}
	return &Builder{endpoints: table}
}

// Build returns the GET request for resource. Any failure is reported as a
// bad-request FetchError so the caller can settle the slot without a network
// call.
func (b *Builder) Build(resource content.Resource) (Request, error) {
	ep, ok := b.endpoints[resource]
	if !ok || ep.BaseURL == "" {
		return Request{}, apperrors.NewFetchError(resource.String(), apperrors.KindBadRequest, ErrNoEndpoint)
	}
	u, err := url.Parse(ep.Raw())
	if err != nil {
		return Request{}, apperrors.NewFetchError(resource.String(), apperrors.KindBadRequest, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Request{}, apperrors.NewFetchError(resource.String(), apperrors.KindBadRequest,
			fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return Request{}, apperrors.NewFetchError(resource.String(), apperrors.KindBadRequest,
			fmt.Errorf("missing host in %q", ep.Raw()))
	}
	return Request{Resource: resource, Method: http.MethodGet, URL: u}, nil
}
