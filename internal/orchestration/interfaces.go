package orchestration

import (
	"context"
	"io"
	"sync"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/agbru/fetchboard/internal/orchestration Gateway,Listener

// Gateway is the set of resource fetches run by a cycle. Each operation must
// return a settled outcome and must be safe to call concurrently with the
// others.
type Gateway interface {
	FetchJoke(ctx context.Context) content.Outcome[content.Joke]
	FetchComments(ctx context.Context) content.Outcome[[]content.Comment]
	FetchImage(ctx context.Context) content.Outcome[[]byte]
}

// Listener receives the aggregate of a cycle. Deliver is called once per
// cycle, from the cycle's goroutine, and also signals that the activity
// indicator must stop.
type Listener interface {
	Deliver(agg Aggregate)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(agg Aggregate)

// Deliver calls f(agg).
func (f ListenerFunc) Deliver(agg Aggregate) { f(agg) }

// LivenessChecker is implemented by listeners that can go away while a cycle
// is in flight, such as a closed UI. When Alive reports false at delivery
// time the aggregate is dropped.
type LivenessChecker interface {
	Alive() bool
}

// SettleUpdate is emitted every time one resource of a cycle settles.
type SettleUpdate struct {
	// CycleID identifies the cycle.
	CycleID string
	// Resource is the resource that just settled.
	Resource content.Resource
	// Pending lists the resources still in flight after this one settled.
	Pending []content.Resource
	// OK reports whether the resource settled successfully.
	OK bool
}

// ProgressReporter defines the interface for displaying cycle progress.
// Implementations handle the visual representation (spinners, status lines)
// while the coordinator focuses on the fetches.
type ProgressReporter interface {
	// DisplayProgress consumes updates until the channel is closed and must
	// call wg.Done before returning.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - updates: Channel receiving one update per settled resource.
	//   - numResources: The number of resources in the cycle.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, updates <-chan SettleUpdate, numResources int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, updates <-chan SettleUpdate, numResources int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, updates <-chan SettleUpdate, numResources int, out io.Writer) {
	f(wg, updates, numResources, out)
}

// NullProgressReporter drains the channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan SettleUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(updates)
}

// ResultPresenter renders an aggregate. Implementations exist for the
// terminal and may exist for other formats.
type ResultPresenter interface {
	// PresentSummaryTable displays one row per resource with its status.
	PresentSummaryTable(agg Aggregate, out io.Writer)

	// PresentContent displays the successfully fetched payloads.
	PresentContent(agg Aggregate, out io.Writer)

	// PresentFailures displays the user-facing message of each failure.
	PresentFailures(failures []*apperrors.FetchError, out io.Writer)
}
