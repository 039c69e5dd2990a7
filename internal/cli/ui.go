//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fetchboard/internal/content"
	"github.com/agbru/fetchboard/internal/orchestration"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner.
	ProgressRefreshRate = 100 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 12
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows the session to be tested without a real terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner. The
// spinner goroutine reads Suffix under its own lock.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[14], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// progressSuffix renders the spinner suffix for the current state of a cycle,
// e.g. " Fetching [████░░░░] 1/3, waiting on comments, image".
func progressSuffix(p *orchestration.CycleProgress) string {
	settled := content.NumResources - len(p.Pending())
	suffix := fmt.Sprintf(" Fetching [%s] %d/%d", progressBar(p.Fraction(), ProgressBarWidth), settled, content.NumResources)
	if pending := p.Pending(); len(pending) > 0 {
		names := make([]string, len(pending))
		for i, r := range pending {
			names[i] = r.String()
		}
		suffix += ", waiting on " + strings.Join(names, ", ")
	}
	if failed := p.Failed(); failed > 0 {
		suffix += fmt.Sprintf(" (%d failed)", failed)
	}
	return suffix
}
