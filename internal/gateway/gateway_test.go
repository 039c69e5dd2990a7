package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/network"
	"github.com/agbru/fetchboard/internal/request"
)

const jokeBody = `{"categories":["dev"],"created_at":"a","icon_url":"b","id":"j1","updated_at":"c","url":"d","value":"Chuck Norris writes code that optimizes itself."}`

const commentsBody = `[{"postId":1,"id":1,"name":"id labore","email":"Eliseo@gardner.biz","body":"laudantium"}]`

func newTestGateway(t *testing.T, handler http.Handler) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	builder := request.NewBuilder(map[content.Resource]request.Endpoint{
		content.ResourceJoke:     {BaseURL: srv.URL, Path: "/jokes/random"},
		content.ResourceComments: {BaseURL: srv.URL, Path: "/comments"},
		content.ResourceImage:    {BaseURL: srv.URL, Path: "/image.jpg"},
	})
	return New(builder, network.NewFetcher(srv.Client()))
}

func TestGatewaySuccess(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/jokes/random", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(jokeBody)) })
	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(commentsBody)) })
	mux.HandleFunc("/image.jpg", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte{0xff, 0xd8, 0xff}) })
	g := newTestGateway(t, mux)
	ctx := context.Background()

	joke, ok := g.FetchJoke(ctx).Value()
	if !ok || joke.ID != "j1" || len(joke.Categories) != 1 {
		t.Errorf("FetchJoke() = %+v, %v", joke, ok)
	}
	comments, ok := g.FetchComments(ctx).Value()
	if !ok || len(comments) != 1 || comments[0].Email != "Eliseo@gardner.biz" {
		t.Errorf("FetchComments() = %+v, %v", comments, ok)
	}
	img, ok := g.FetchImage(ctx).Value()
	if !ok || len(img) != 3 {
		t.Errorf("FetchImage() = %v, %v", img, ok)
	}
}

func TestGatewayDecodeFailure(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"value":`},
		{"missing field", `{"value":"x"}`},
		{"wrong shape", `[1,2,3]`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			out := g.FetchJoke(context.Background())
			if !errors.Is(out.Err(), apperrors.ErrDecode) {
				t.Errorf("expected decode error, got %v", out.Err())
			}
		})
	}
}

func TestGatewayImageIsNotDecoded(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("definitely not an image"))
	}))
	if out := g.FetchImage(context.Background()); !out.OK() {
		t.Errorf("image bytes must pass through undecoded, got %v", out.Err())
	}
}

func TestGatewayPropagatesHTTPFailure(t *testing.T) {
	t.Parallel()
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	out := g.FetchComments(context.Background())
	fe := out.FetchErr()
	if fe == nil || fe.Kind != apperrors.KindServerError || fe.Resource != "comments" {
		t.Errorf("expected comments server error, got %v", out.Err())
	}
}

type countingExecutor struct{ calls atomic.Int32 }

func (c *countingExecutor) Execute(ctx context.Context, req request.Request) content.Outcome[[]byte] {
	c.calls.Add(1)
	return content.Succeeded([]byte("x"))
}

type failingBuilder struct{ err error }

func (f failingBuilder) Build(content.Resource) (request.Request, error) {
	return request.Request{}, f.err
}

func TestGatewayBuildFailureSkipsNetwork(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
	}{
		{"typed", apperrors.NewFetchError("joke", apperrors.KindBadRequest, request.ErrNoEndpoint)},
		{"untyped", errors.New("bad url")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			exec := &countingExecutor{}
			g := New(failingBuilder{err: tt.err}, exec)
			out := g.FetchJoke(context.Background())
			if !errors.Is(out.Err(), apperrors.ErrBadRequest) {
				t.Errorf("expected bad request, got %v", out.Err())
			}
			if exec.calls.Load() != 0 {
				t.Errorf("executor called %d times, want 0", exec.calls.Load())
			}
		})
	}
}
