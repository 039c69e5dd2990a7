package orchestration

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
)

func TestCycleProgress(t *testing.T) {
	t.Parallel()
	p := NewCycleProgress()
	if p.Done() || p.Fraction() != 0 || len(p.Pending()) != content.NumResources {
		t.Fatal("new progress must have every resource pending")
	}

	p.Apply(SettleUpdate{Resource: content.ResourceComments, OK: false})
	p.Apply(SettleUpdate{Resource: content.ResourceComments, OK: true}) // duplicate ignored
	p.Apply(SettleUpdate{Resource: content.Resource(9)})                 // invalid ignored

	pending := p.Pending()
	if len(pending) != 2 || pending[0] != content.ResourceJoke || pending[1] != content.ResourceImage {
		t.Errorf("Pending() = %v", pending)
	}
	if p.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", p.Failed())
	}

	p.Apply(SettleUpdate{Resource: content.ResourceJoke, OK: true})
	p.Apply(SettleUpdate{Resource: content.ResourceImage, OK: true})
	if !p.Done() || p.Fraction() != 1 {
		t.Errorf("Done() = %v, Fraction() = %v", p.Done(), p.Fraction())
	}
}

func TestDrainChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan SettleUpdate, 3)
	ch <- SettleUpdate{}
	ch <- SettleUpdate{}
	close(ch)

	done := make(chan struct{})
	go func() {
		DrainChannel(ch)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DrainChannel did not return after close")
	}
}

// stubPresenter records which sections were rendered.
type stubPresenter struct {
	calls []string
}

func (s *stubPresenter) PresentSummaryTable(Aggregate, io.Writer) { s.calls = append(s.calls, "table") }
func (s *stubPresenter) PresentContent(Aggregate, io.Writer)      { s.calls = append(s.calls, "content") }
func (s *stubPresenter) PresentFailures(f []*apperrors.FetchError, _ io.Writer) {
	s.calls = append(s.calls, "failures")
}

func aggregateWith(failing ...content.Resource) Aggregate {
	fails := make(map[content.Resource]bool)
	for _, r := range failing {
		fails[r] = true
	}
	agg := Aggregate{
		Joke:     content.Succeeded(content.Joke{ID: "j"}),
		Comments: content.Succeeded([]content.Comment{}),
		Image:    content.Succeeded([]byte{1}),
	}
	if fails[content.ResourceJoke] {
		agg.Joke = content.Failed[content.Joke](apperrors.NewFetchError("joke", apperrors.KindServerError, nil))
	}
	if fails[content.ResourceComments] {
		agg.Comments = content.Failed[[]content.Comment](apperrors.NewFetchError("comments", apperrors.KindBadRequest, nil))
	}
	if fails[content.ResourceImage] {
		agg.Image = content.Failed[[]byte](apperrors.NewFetchError("image", apperrors.KindUnknown, nil))
	}
	return agg
}

func TestAnalyzeAggregate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		agg       Aggregate
		wantCode  int
		wantCalls string
		wantText  string
	}{
		{
			name:      "all success",
			agg:       aggregateWith(),
			wantCode:  apperrors.ExitSuccess,
			wantCalls: "table,content",
			wantText:  "Global Status: Success",
		},
		{
			name:      "partial",
			agg:       aggregateWith(content.ResourceImage),
			wantCode:  apperrors.ExitPartialFailure,
			wantCalls: "table,content,failures",
			wantText:  "1 of 3 resources failed",
		},
		{
			name:      "all failed",
			agg:       aggregateWith(content.ResourceJoke, content.ResourceComments, content.ResourceImage),
			wantCode:  apperrors.ExitErrorGeneric,
			wantCalls: "table,failures",
			wantText:  "Global Status: Failure",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			p := &stubPresenter{}
			if code := AnalyzeAggregate(tt.agg, p, &buf); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if got := strings.Join(p.calls, ","); got != tt.wantCalls {
				t.Errorf("presenter calls = %s, want %s", got, tt.wantCalls)
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("output %q should contain %q", buf.String(), tt.wantText)
			}
		})
	}
}

func TestAggregateSlots(t *testing.T) {
	t.Parallel()
	agg := aggregateWith(content.ResourceComments)
	agg.slotDurations[content.ResourceComments] = 30 * time.Millisecond

	slots := agg.Slots()
	if len(slots) != content.NumResources {
		t.Fatalf("len(Slots()) = %d", len(slots))
	}
	if !slots[0].OK || slots[1].OK || !slots[2].OK {
		t.Errorf("unexpected slot states %+v", slots)
	}
	if slots[1].Err == nil || slots[1].Err.Resource != "comments" {
		t.Errorf("comments slot error = %v", slots[1].Err)
	}
	if agg.SlotDuration(content.ResourceComments) != 30*time.Millisecond {
		t.Errorf("SlotDuration = %v", agg.SlotDuration(content.ResourceComments))
	}
	if agg.SlotDuration(content.Resource(-1)) != 0 {
		t.Error("invalid resource must report zero duration")
	}

	var empty Aggregate
	if empty.Complete() {
		t.Error("zero aggregate must not be complete")
	}
	if empty.Slot(content.ResourceJoke).Settled {
		t.Error("zero aggregate slot must be unsettled")
	}
}
