package cli

import (
	"context"
	"io"
	"sync"

	"github.com/briandowns/spinner"

	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/orchestration"
)

// Session drives one terminal fetch cycle. It shows an activity indicator
// while the cycle is in flight, updates it as resources settle and renders
// the aggregate when it is delivered.
//
// Session implements both orchestration.ProgressReporter and
// orchestration.Listener.
type Session struct {
	out       io.Writer
	presenter orchestration.ResultPresenter
	spinner   Spinner

	stopOnce sync.Once
	done     chan int
}

var (
	_ orchestration.ProgressReporter = (*Session)(nil)
	_ orchestration.Listener         = (*Session)(nil)
)

// NewSession creates a session writing to out. When quiet is set no
// activity indicator is shown.
func NewSession(out io.Writer, presenter orchestration.ResultPresenter, quiet bool) *Session {
	s := &Session{
		out:       out,
		presenter: presenter,
		done:      make(chan int, 1),
	}
	if !quiet {
		s.spinner = newSpinner(spinner.WithWriter(out))
	}
	return s
}

// Start shows the activity indicator.
func (s *Session) Start() {
	if s.spinner == nil {
		return
	}
	s.spinner.UpdateSuffix(progressSuffix(orchestration.NewCycleProgress()))
	s.spinner.Start()
}

// DisplayProgress updates the indicator each time a resource settles.
func (s *Session) DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.SettleUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	p := orchestration.NewCycleProgress()
	for u := range updates {
		p.Apply(u)
		if s.spinner != nil {
			s.spinner.UpdateSuffix(progressSuffix(p))
		}
	}
}

// Deliver stops the indicator, renders the aggregate and records the exit
// code for Wait. Only the first delivery is rendered.
func (s *Session) Deliver(agg orchestration.Aggregate) {
	first := false
	s.stopOnce.Do(func() {
		first = true
		if s.spinner != nil {
			s.spinner.Stop()
		}
	})
	if !first {
		return
	}
	s.done <- orchestration.AnalyzeAggregate(agg, s.presenter, s.out)
}

// Wait blocks until the aggregate has been delivered and returns the exit
// code it maps to, or ExitErrorCanceled when ctx ends first.
func (s *Session) Wait(ctx context.Context) int {
	select {
	case code := <-s.done:
		return code
	case <-ctx.Done():
		s.stopOnce.Do(func() {
			if s.spinner != nil {
				s.spinner.Stop()
			}
		})
		return apperrors.ExitErrorCanceled
	}
}
