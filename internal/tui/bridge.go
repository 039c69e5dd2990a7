package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fetchboard/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
	closed  bool
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Close marks the program as gone. Later sends are dropped.
func (r *programRef) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Alive reports whether a program is attached and has not been closed.
func (r *programRef) Alive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.program != nil && !r.closed
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	closed := r.closed
	r.mu.RUnlock()
	if p != nil && !closed {
		p.Send(msg)
	}
}

// Bridge forwards coordinator callbacks to the dashboard as messages. It is
// both the coordinator's progress reporter and the listener of every cycle
// the dashboard starts.
type Bridge struct {
	ref *programRef
}

// Verify interface compliance.
var (
	_ orchestration.ProgressReporter = (*Bridge)(nil)
	_ orchestration.Listener         = (*Bridge)(nil)
	_ orchestration.LivenessChecker  = (*Bridge)(nil)
)

// NewBridge returns a bridge with no program attached. Messages are dropped
// until Run attaches one.
func NewBridge() *Bridge {
	return &Bridge{ref: &programRef{}}
}

// DisplayProgress drains the settle channel and sends a SettleMsg per update.
func (b *Bridge) DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.SettleUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for u := range updates {
		b.ref.Send(SettleMsg{Update: u})
	}
}

// Deliver sends the aggregate to the dashboard.
func (b *Bridge) Deliver(agg orchestration.Aggregate) {
	b.ref.Send(AggregateMsg{Aggregate: agg})
}

// Alive reports whether the dashboard is still running. The coordinator
// drops aggregates of cycles that finish after the dashboard was closed.
func (b *Bridge) Alive() bool {
	return b.ref.Alive()
}
