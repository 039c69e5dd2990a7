// Package network performs single HTTP round trips and classifies the
// result into a success payload or a typed fetch failure.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/logging"
	"github.com/agbru/fetchboard/internal/metrics"
	"github.com/agbru/fetchboard/internal/request"
)

// DefaultMaxBodyBytes caps a response body at 10 MiB.
const DefaultMaxBodyBytes int64 = 10 << 20

var tracer = otel.Tracer("github.com/agbru/fetchboard/internal/network")

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher executes one request and never retries.
type Fetcher struct {
	client  Doer
	logger  logging.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	maxBody int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithMetrics records every fetch in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBody = n
		}
	}
}

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(f *Fetcher) { f.tracer = t }
}

// NewFetcher creates a Fetcher over client. A nil client uses http.DefaultClient.
func NewFetcher(client Doer, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:  client,
		logger:  logging.NewNopLogger(),
		tracer:  tracer,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Execute performs req and classifies the result:
//
//   - transport or read failure: bad request
//   - 2xx with a body: success
//   - 2xx without a body: unknown (ErrEmptyBody)
//   - 4xx: unauthorized
//   - 5xx: server error
//   - anything else: unknown (ErrUnexpectedStatus)
func (f *Fetcher) Execute(ctx context.Context, req request.Request) content.Outcome[[]byte] {
	name := req.Resource.String()
	ctx, span := f.tracer.Start(ctx, "fetch "+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("fetchboard.resource", name),
			attribute.String("http.request.method", req.Method),
		))
	defer span.End()

	start := time.Now()
	out := f.execute(ctx, req)

	outcome := metrics.OutcomeSuccess
	if fe := out.FetchErr(); fe != nil {
		outcome = fe.Kind.String()
		span.SetStatus(codes.Error, fe.Error())
		if fe.Status != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", fe.Status))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.String("fetchboard.outcome", outcome))
	f.metrics.ObserveFetch(name, outcome, time.Since(start))
	return out
}

func (f *Fetcher) execute(ctx context.Context, req request.Request) content.Outcome[[]byte] {
	name := req.Resource.String()
	fail := func(kind apperrors.Kind, status int, cause error) content.Outcome[[]byte] {
		return content.Failed[[]byte](apperrors.NewFetchError(name, kind, cause).WithStatus(status))
	}

	if req.URL == nil {
		return fail(apperrors.KindBadRequest, 0, fmt.Errorf("request has no URL"))
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), http.NoBody)
	if err != nil {
		return fail(apperrors.KindBadRequest, 0, err)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		f.logger.Debug("transport failure", logging.String("resource", name), logging.Err(err))
		return fail(apperrors.KindBadRequest, 0, err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	switch {
	case status >= 200 && status < 300:
		body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
		if err != nil {
			return fail(apperrors.KindBadRequest, status, err)
		}
		if int64(len(body)) > f.maxBody {
			return fail(apperrors.KindBadRequest, status, apperrors.ErrBodyTooLarge)
		}
		if len(body) == 0 {
			return fail(apperrors.KindUnknown, status, apperrors.ErrEmptyBody)
		}
		f.logger.Debug("fetch succeeded",
			logging.String("resource", name),
			logging.Int("status", status),
			logging.Int("bytes", len(body)))
		return content.Succeeded(body)
	case status >= 400 && status < 500:
		return fail(apperrors.KindUnauthorized, status, nil)
	case status >= 500 && status < 600:
		return fail(apperrors.KindServerError, status, nil)
	default:
		f.logger.Error("unexpected status", apperrors.ErrUnexpectedStatus,
			logging.String("resource", name), logging.Int("status", status))
		return fail(apperrors.KindUnknown, status, apperrors.ErrUnexpectedStatus)
	}
}
