// Package gateway exposes one typed operation per resource. Each operation
// builds its request, executes it and decodes the payload.
package gateway

import (
	"context"
	"errors"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/logging"
	"github.com/agbru/fetchboard/internal/request"
)

// RequestBuilder resolves a resource into a request.
type RequestBuilder interface {
	Build(resource content.Resource) (request.Request, error)
}

// Executor performs a built request.
type Executor interface {
	Execute(ctx context.Context, req request.Request) content.Outcome[[]byte]
}

// Gateway implements the three resource fetches.
type Gateway struct {
	builder  RequestBuilder
	executor Executor
	logger   logging.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New creates a Gateway.
func New(builder RequestBuilder, executor Executor, opts ...Option) *Gateway {
	g := &Gateway{
		builder:  builder,
		executor: executor,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchJoke fetches and decodes one joke.
func (g *Gateway) FetchJoke(ctx context.Context) content.Outcome[content.Joke] {
	return decode(g, ctx, content.ResourceJoke, content.DecodeJoke)
}

// FetchComments fetches and decodes the comment list.
func (g *Gateway) FetchComments(ctx context.Context) content.Outcome[[]content.Comment] {
	return decode(g, ctx, content.ResourceComments, content.DecodeComments)
}

// FetchImage fetches the raw image bytes.
func (g *Gateway) FetchImage(ctx context.Context) content.Outcome[[]byte] {
	return g.fetchRaw(ctx, content.ResourceImage)
}

// fetchRaw builds and executes the request. A build failure settles the
// outcome without touching the network.
func (g *Gateway) fetchRaw(ctx context.Context, resource content.Resource) content.Outcome[[]byte] {
	req, err := g.builder.Build(resource)
	if err != nil {
		var fe *apperrors.FetchError
		if !errors.As(err, &fe) {
			fe = apperrors.NewFetchError(resource.String(), apperrors.KindBadRequest, err)
		}
		g.logger.Error("request build failed", err, logging.String("resource", resource.String()))
		return content.Failed[[]byte](fe)
	}
	return g.executor.Execute(ctx, req)
}

func decode[T any](g *Gateway, ctx context.Context, resource content.Resource, parse func([]byte) (T, error)) content.Outcome[T] {
	raw := g.fetchRaw(ctx, resource)
	body, ok := raw.Value()
	if !ok {
		return content.Failed[T](raw.FetchErr())
	}
	v, err := parse(body)
	if err != nil {
		g.logger.Debug("decode failed", logging.String("resource", resource.String()), logging.Err(err))
		return content.Failed[T](apperrors.NewFetchError(resource.String(), apperrors.KindDecodeError, err))
	}
	return content.Succeeded(v)
}
