package cli

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/orchestration"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPresentSummaryTable(t *testing.T) {
	noColor(t)
	agg := orchestration.Aggregate{
		Joke:     content.Succeeded(content.Joke{}),
		Comments: content.Failed[[]content.Comment](apperrors.NewFetchError("comments", apperrors.KindUnauthorized, nil)),
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentSummaryTable(agg, &buf)
	out := buf.String()

	for _, want := range []string{"Fetch Summary", "Resource", "joke", "✅ Success", "❌ Failure (unauthorized)", "… Pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPresentContent(t *testing.T) {
	noColor(t)
	comments := []content.Comment{
		{Name: "first", Email: "a@example.com", Body: "line one\nline two"},
		{Name: "second", Email: "b@example.com", Body: "b"},
		{Name: "third", Email: "c@example.com", Body: "c"},
	}
	agg := orchestration.Aggregate{
		Joke:     content.Succeeded(content.Joke{Value: "a joke that is long enough to be wrapped across lines"}),
		Comments: content.Succeeded(comments),
		Image:    content.Succeeded(pngBytes(t, 4, 3)),
	}
	var buf bytes.Buffer
	CLIResultPresenter{CommentLimit: 2, Width: 24}.PresentContent(agg, &buf)
	out := buf.String()

	for _, want := range []string{
		"Comments (3)",
		"- first <a@example.com>",
		"line one line two",
		"... and 1 more",
		"png 4x3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("content missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "third") {
		t.Error("comment limit not applied")
	}
	if strings.Contains(out, "a joke that is long enough to be wrapped") {
		t.Error("joke should be wrapped to the width")
	}
}

func TestPresentContentEdgeCases(t *testing.T) {
	noColor(t)
	agg := orchestration.Aggregate{
		Joke:     content.Failed[content.Joke](apperrors.NewFetchError("joke", apperrors.KindBadRequest, nil)),
		Comments: content.Succeeded([]content.Comment{}),
		Image:    content.Succeeded([]byte("garbage")),
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentContent(agg, &buf)
	out := buf.String()

	if strings.Contains(out, "Joke") {
		t.Error("failed joke must not be rendered")
	}
	if !strings.Contains(out, "(no comments)") {
		t.Errorf("empty comment list not rendered:\n%s", out)
	}
	if !strings.Contains(out, "7 B (unrecognized format)") {
		t.Errorf("undecodable image not reported:\n%s", out)
	}
}

func TestPresentFailures(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentFailures(nil, &buf)
	if buf.Len() != 0 {
		t.Error("no failures should print nothing")
	}

	CLIResultPresenter{}.PresentFailures([]*apperrors.FetchError{
		apperrors.NewFetchError("joke", apperrors.KindBadRequest, nil),
		apperrors.NewFetchError("image", apperrors.KindUnknown, nil).WithStatus(304),
	}, &buf)
	want := "\nFailures\n" +
		"  joke: Bad request. Please check your input.\n" +
		"  image: Unknown error. Please try again later. (HTTP 304)\n"
	if got := buf.String(); got != want {
		t.Errorf("PresentFailures() =\n%q\nwant\n%q", got, want)
	}
}
