package orchestration

import (
	"time"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/metrics"
)

// Aggregate is the merged result of one cycle. It is built once, after every
// slot has settled, and is never modified afterwards.
type Aggregate struct {
	// CycleID uniquely identifies the cycle.
	CycleID string
	// StartedAt is when the fan-out began.
	StartedAt time.Time
	// Duration is the time from fan-out to join.
	Duration time.Duration

	Joke     content.Outcome[content.Joke]
	Comments content.Outcome[[]content.Comment]
	Image    content.Outcome[[]byte]

	slotDurations [content.NumResources]time.Duration
}

// SlotStatus is a resource-agnostic view of one slot.
type SlotStatus struct {
	Resource content.Resource
	Settled  bool
	OK       bool
	Err      *apperrors.FetchError
	Duration time.Duration
}

// Slot returns the status of the slot for r.
func (a Aggregate) Slot(r content.Resource) SlotStatus {
	s := SlotStatus{Resource: r}
	switch r {
	case content.ResourceJoke:
		s.Settled, s.OK, s.Err = a.Joke.Settled(), a.Joke.OK(), a.Joke.FetchErr()
	case content.ResourceComments:
		s.Settled, s.OK, s.Err = a.Comments.Settled(), a.Comments.OK(), a.Comments.FetchErr()
	case content.ResourceImage:
		s.Settled, s.OK, s.Err = a.Image.Settled(), a.Image.OK(), a.Image.FetchErr()
	default:
		return s
	}
	s.Duration = a.slotDurations[r]
	return s
}

// Slots returns every slot in resource order.
func (a Aggregate) Slots() []SlotStatus {
	slots := make([]SlotStatus, 0, content.NumResources)
	for _, r := range content.Resources() {
		slots = append(slots, a.Slot(r))
	}
	return slots
}

// SlotDuration returns how long the fetch of r took.
func (a Aggregate) SlotDuration(r content.Resource) time.Duration {
	if !r.Valid() {
		return 0
	}
	return a.slotDurations[r]
}

// Failures returns the failed slots in resource order.
func (a Aggregate) Failures() []*apperrors.FetchError {
	var failures []*apperrors.FetchError
	for _, s := range a.Slots() {
		if s.Err != nil {
			failures = append(failures, s.Err)
		}
	}
	return failures
}

// Complete reports whether every slot has settled.
func (a Aggregate) Complete() bool {
	return a.Joke.Settled() && a.Comments.Settled() && a.Image.Settled()
}

// Result classifies the aggregate as complete, partial or failed.
func (a Aggregate) Result() string {
	switch len(a.Failures()) {
	case 0:
		return metrics.CycleComplete
	case content.NumResources:
		return metrics.CycleFailed
	default:
		return metrics.CyclePartial
	}
}

// Equal compares the slots of two aggregates, ignoring cycle identity and
// timing.
func (a Aggregate) Equal(other Aggregate) bool {
	return a.Joke.Equal(other.Joke) &&
		a.Comments.Equal(other.Comments) &&
		a.Image.Equal(other.Image)
}
