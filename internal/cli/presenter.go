package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/format"
	"github.com/agbru/fetchboard/internal/orchestration"
	"github.com/agbru/fetchboard/internal/ui"
)

// DefaultWidth is the wrap width used when the terminal size is unknown.
const DefaultWidth = 80

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output.
type CLIResultPresenter struct {
	// CommentLimit caps the number of comments shown. Zero shows all.
	CommentLimit int
	// Width is the wrap width. Zero uses DefaultWidth.
	Width int
}

// Verify interface compliance.
var _ orchestration.ResultPresenter = CLIResultPresenter{}

func (p CLIResultPresenter) width() int {
	if p.Width <= 0 {
		return DefaultWidth
	}
	return p.Width
}

// PresentSummaryTable displays one row per resource with its duration and
// status. Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentSummaryTable(agg orchestration.Aggregate, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Fetch Summary ---\n")

	slots := agg.Slots()
	maxNameLen := len("Resource")
	maxDurationLen := len("Duration")
	durations := make([]string, len(slots))
	for i, s := range slots {
		if n := len(s.Resource.String()); n > maxNameLen {
			maxNameLen = n
		}
		durations[i] = format.FormatExecutionDuration(s.Duration)
		if s.Duration == 0 {
			durations[i] = "< 1µs"
		}
		if n := len([]rune(durations[i])); n > maxDurationLen {
			maxDurationLen = n
		}
	}

	fmt.Fprintf(out, "%s%s   %s%s   %s\n",
		theme.Paint(theme.Bold, "Resource"), padRight("", maxNameLen-len("Resource")),
		theme.Paint(theme.Bold, "Duration"), padRight("", maxDurationLen-len("Duration")),
		theme.Paint(theme.Bold, "Status"))

	for i, s := range slots {
		var status string
		switch {
		case s.OK:
			status = theme.Paint(theme.Success, "✅ Success")
		case s.Err != nil:
			status = theme.Paint(theme.Error, fmt.Sprintf("❌ Failure (%s)", s.Err.Kind))
		default:
			status = theme.Paint(theme.Warning, "… Pending")
		}
		name := s.Resource.String()
		fmt.Fprintf(out, "%s%s   %s%s   %s\n",
			theme.Paint(theme.Primary, name), padRight("", maxNameLen-len(name)),
			theme.Paint(theme.Secondary, durations[i]), padRight("", maxDurationLen-len([]rune(durations[i]))),
			status)
	}
}

// PresentContent displays the payload of every successful slot.
func (p CLIResultPresenter) PresentContent(agg orchestration.Aggregate, out io.Writer) {
	theme := ui.GetCurrentTheme()
	width := p.width() - 2

	if joke, ok := agg.Joke.Value(); ok {
		fmt.Fprintf(out, "\n%s\n", theme.Paint(theme.Bold, "Joke"))
		for _, line := range format.Wrap(joke.Value, width) {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}

	if comments, ok := agg.Comments.Value(); ok {
		fmt.Fprintf(out, "\n%s\n", theme.Paint(theme.Bold, fmt.Sprintf("Comments (%d)", len(comments))))
		if len(comments) == 0 {
			fmt.Fprintf(out, "  (no comments)\n")
		}
		shown := comments
		if p.CommentLimit > 0 && len(shown) > p.CommentLimit {
			shown = shown[:p.CommentLimit]
		}
		for _, c := range shown {
			fmt.Fprintf(out, "  - %s %s\n", c.Name, theme.Paint(theme.Secondary, "<"+c.Email+">"))
			fmt.Fprintf(out, "    %s\n", format.Truncate(strings.Join(strings.Fields(c.Body), " "), width-2))
		}
		if hidden := len(comments) - len(shown); hidden > 0 {
			fmt.Fprintf(out, "  ... and %d more\n", hidden)
		}
	}

	if data, ok := agg.Image.Value(); ok {
		fmt.Fprintf(out, "\n%s\n", theme.Paint(theme.Bold, "Image"))
		info, err := content.DescribeImage(data)
		if err != nil {
			fmt.Fprintf(out, "  %s (unrecognized format)\n", format.FormatBytes(info.Size))
			return
		}
		fmt.Fprintf(out, "  %s %dx%d, %s\n", info.Format, info.Width, info.Height, format.FormatBytes(info.Size))
	}
}

// PresentFailures displays the user-facing message of each failure.
func (CLIResultPresenter) PresentFailures(failures []*apperrors.FetchError, out io.Writer) {
	if len(failures) == 0 {
		return
	}
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s\n", theme.Paint(theme.Error, "Failures"))
	for _, f := range failures {
		line := "  " + f.UserMessage()
		if f.Status != 0 {
			line += fmt.Sprintf(" (HTTP %d)", f.Status)
		}
		fmt.Fprintln(out, line)
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
