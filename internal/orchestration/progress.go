package orchestration

import "github.com/agbru/fetchboard/internal/content"

// CycleProgress folds settle updates into a view both the CLI and the TUI
// render from. It is not safe for concurrent use; feed it from the single
// goroutine draining the settle channel.
type CycleProgress struct {
	settled [content.NumResources]bool
	ok      [content.NumResources]bool
	count   int
}

// NewCycleProgress returns a view with every resource pending.
func NewCycleProgress() *CycleProgress {
	return &CycleProgress{}
}

// Apply records one update. Repeated updates for the same resource are ignored.
func (p *CycleProgress) Apply(u SettleUpdate) {
	if !u.Resource.Valid() || p.settled[u.Resource] {
		return
	}
	p.settled[u.Resource] = true
	p.ok[u.Resource] = u.OK
	p.count++
}

// Fraction returns the settled share in [0, 1].
func (p *CycleProgress) Fraction() float64 {
	return float64(p.count) / float64(content.NumResources)
}

// Done reports whether every resource settled.
func (p *CycleProgress) Done() bool { return p.count == content.NumResources }

// Pending returns the resources not yet settled, in resource order.
func (p *CycleProgress) Pending() []content.Resource {
	var pending []content.Resource
	for _, r := range content.Resources() {
		if !p.settled[r] {
			pending = append(pending, r)
		}
	}
	return pending
}

// Failed returns the number of resources that settled with a failure.
func (p *CycleProgress) Failed() int {
	n := 0
	for r := range p.settled {
		if p.settled[r] && !p.ok[r] {
			n++
		}
	}
	return n
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(updates <-chan SettleUpdate) {
	for range updates {
	}
}
