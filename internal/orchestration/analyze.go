package orchestration

import (
	"fmt"
	"io"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
)

// AnalyzeAggregate presents an aggregate and derives the exit code.
//
// Parameters:
//   - agg: The aggregate of a finished cycle.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the report.
//
// Returns:
//   - int: ExitSuccess when every resource was fetched, ExitPartialFailure
//     when some failed, ExitErrorGeneric when all failed.
func AnalyzeAggregate(agg Aggregate, presenter ResultPresenter, out io.Writer) int {
	presenter.PresentSummaryTable(agg, out)

	failures := agg.Failures()
	switch len(failures) {
	case 0:
		fmt.Fprintf(out, "\nGlobal Status: Success. All resources were fetched.\n")
		presenter.PresentContent(agg, out)
		return apperrors.ExitSuccess
	case content.NumResources:
		fmt.Fprintf(out, "\nGlobal Status: Failure. No resource could be fetched.\n")
		presenter.PresentFailures(failures, out)
		return apperrors.ExitErrorGeneric
	default:
		fmt.Fprintf(out, "\nGlobal Status: Partial. %d of %d resources failed.\n", len(failures), content.NumResources)
		presenter.PresentContent(agg, out)
		presenter.PresentFailures(failures, out)
		return apperrors.ExitPartialFailure
	}
}
