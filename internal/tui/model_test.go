package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/orchestration"
)

// fakeRunner records RunFetchCycle calls.
type fakeRunner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRunner) RunFetchCycle(context.Context, orchestration.Listener) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "cycle-1", nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelPlaceholderBeforeFirstCycle(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, NewBridge(), Options{})
	view := m.View()
	for _, want := range []string{"No joke", "No comments", "No image", "Press f to fetch"} {
		if !strings.Contains(view, want) {
			t.Errorf("initial view missing %q", want)
		}
	}
	if m.Init() != nil {
		t.Error("Init must not start a cycle")
	}
}

func TestFetchCmd(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	msg := fetchCmd(context.Background(), runner, NewBridge())()
	if started, ok := msg.(CycleStartedMsg); !ok || started.CycleID != "cycle-1" {
		t.Errorf("fetchCmd() = %#v", msg)
	}

	runner.err = orchestration.ErrCycleInFlight
	if _, ok := fetchCmd(context.Background(), runner, NewBridge())().(CycleErrorMsg); !ok {
		t.Error("a refused cycle should produce CycleErrorMsg")
	}
}

func TestModelFetchLifecycle(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, NewBridge(), Options{CommentLimit: 1})

	m, cmd := update(t, m, keyRunes("f"))
	if cmd == nil || m.inFlight != 1 {
		t.Fatalf("fetch key: cmd=%v inFlight=%d", cmd, m.inFlight)
	}

	m, _ = update(t, m, CycleStartedMsg{CycleID: "c1"})
	m, _ = update(t, m, SettleMsg{Update: orchestration.SettleUpdate{CycleID: "c1", Resource: content.ResourceImage, OK: true}})
	if !strings.Contains(m.View(), "1/3 settled") {
		t.Errorf("progress not rendered:\n%s", m.View())
	}

	agg := orchestration.Aggregate{
		CycleID:  "c1",
		Joke:     content.Succeeded(content.Joke{Value: "Chuck Norris can divide by zero."}),
		Comments: content.Succeeded([]content.Comment{{Name: "alice", Email: "a@x.io"}, {Name: "bob", Email: "b@x.io"}}),
		Image:    content.Failed[[]byte](apperrors.NewFetchError("image", apperrors.KindServerError, nil)),
	}
	m, _ = update(t, m, AggregateMsg{Aggregate: agg})
	if m.inFlight != 0 || len(m.progress) != 0 {
		t.Errorf("cycle not cleared: inFlight=%d progress=%d", m.inFlight, len(m.progress))
	}
	if m.alert != "image: Server error. Please try again later." {
		t.Errorf("alert = %q", m.alert)
	}

	view := m.View()
	for _, want := range []string{"Chuck Norris can divide by zero.", "alice", "a@x.io", "... and 1 more", "No image", "Server error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.alert != "" {
		t.Error("esc should dismiss the alert")
	}
}

func TestModelKeepsNewestCycle(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, NewBridge(), Options{})
	m, _ = update(t, m, keyRunes("f"))
	m, _ = update(t, m, keyRunes("f"))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := orchestration.Aggregate{
		CycleID:   "new",
		StartedAt: base.Add(time.Second),
		Joke:      content.Succeeded(content.Joke{Value: "fresh"}),
		Comments:  content.Succeeded([]content.Comment{}),
		Image:     content.Succeeded([]byte{1}),
	}
	older := orchestration.Aggregate{
		CycleID:   "old",
		StartedAt: base,
		Joke:      content.Failed[content.Joke](apperrors.NewFetchError("joke", apperrors.KindServerError, nil)),
		Comments:  content.Succeeded([]content.Comment{}),
		Image:     content.Succeeded([]byte{1}),
	}

	m, _ = update(t, m, AggregateMsg{Aggregate: newer})
	m, _ = update(t, m, AggregateMsg{Aggregate: older})
	if m.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0", m.inFlight)
	}
	if m.agg == nil || m.agg.CycleID != "new" {
		t.Fatalf("displayed cycle = %+v, want new", m.agg)
	}
	if m.alert != "" {
		t.Errorf("late cycle must not raise an alert, got %q", m.alert)
	}
	if !strings.Contains(m.View(), "fresh") {
		t.Errorf("view lost the newest joke:\n%s", m.View())
	}
}

func TestAlertText(t *testing.T) {
	t.Parallel()
	got := alertText([]*apperrors.FetchError{
		apperrors.NewFetchError("joke", apperrors.KindDecodeError, nil),
		apperrors.NewFetchError("image", apperrors.KindServerError, nil),
	})
	want := "joke: " + apperrors.UserMessage(apperrors.KindDecodeError) + "\n" +
		"image: " + apperrors.UserMessage(apperrors.KindServerError)
	if got != want {
		t.Errorf("alertText() = %q, want %q", got, want)
	}
	if alertText(nil) != "" {
		t.Error("no failures should produce no alert")
	}
}

func TestModelCycleRefused(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, NewBridge(), Options{})
	m, _ = update(t, m, keyRunes("f"))
	m, _ = update(t, m, CycleErrorMsg{Err: orchestration.ErrCycleInFlight})
	if m.inFlight != 0 {
		t.Errorf("inFlight = %d after refusal", m.inFlight)
	}
	if !strings.Contains(m.alert, "already in progress") {
		t.Errorf("alert = %q", m.alert)
	}
}

func TestModelQuitClosesBridge(t *testing.T) {
	bridge := NewBridge()
	bridge.ref.SetProgram(tea.NewProgram(nil))
	if !bridge.Alive() {
		t.Fatal("bridge with a program should be alive")
	}
	m := NewModel(context.Background(), &fakeRunner{}, bridge, Options{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if bridge.Alive() {
		t.Error("quitting must mark the bridge dead")
	}
}

func TestDefaultKeyMap(t *testing.T) {
	t.Parallel()
	km := DefaultKeyMap()
	for _, b := range km.ShortHelp() {
		if !b.Enabled() || len(b.Keys()) == 0 {
			t.Errorf("binding %q has no keys", b.Help().Desc)
		}
	}
	keys := strings.Join(km.Quit.Keys(), ",")
	if !strings.Contains(keys, "q") || !strings.Contains(keys, "ctrl+c") {
		t.Errorf("quit keys = %s", keys)
	}
}
