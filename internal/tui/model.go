package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/format"
	"github.com/agbru/fetchboard/internal/orchestration"
)

// CycleRunner starts asynchronous fetch cycles.
type CycleRunner interface {
	RunFetchCycle(ctx context.Context, listener orchestration.Listener) (string, error)
}

// Layout constants for the dashboard.
const (
	minPanelWidth     = 30
	defaultPanelWidth = 80
)

// Options configures the dashboard.
type Options struct {
	// CommentLimit caps the number of comments shown. Zero shows all.
	CommentLimit int
	// Version is shown in the title bar.
	Version string
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	keymap  KeyMap
	spinner spinner.Model

	ctx    context.Context
	runner CycleRunner
	bridge *Bridge
	opts   Options

	// inFlight counts fetches requested and not yet delivered or refused.
	inFlight int
	progress map[string]*orchestration.CycleProgress
	current  string

	agg   *orchestration.Aggregate
	alert string

	width  int
	height int
}

// NewModel creates a dashboard that starts cycles on runner and receives
// their results through bridge.
func NewModel(ctx context.Context, runner CycleRunner, bridge *Bridge, opts Options) Model {
	return Model{
		keymap: DefaultKeyMap(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle),
		),
		ctx:      ctx,
		runner:   runner,
		bridge:   bridge,
		opts:     opts,
		progress: make(map[string]*orchestration.CycleProgress),
	}
}

// Init returns the initial commands. Nothing is fetched until the user asks.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case CycleStartedMsg:
		if _, ok := m.progress[msg.CycleID]; !ok {
			m.progress[msg.CycleID] = orchestration.NewCycleProgress()
		}
		m.current = msg.CycleID
		return m, nil

	case CycleErrorMsg:
		m.inFlight--
		if errors.Is(msg.Err, orchestration.ErrCycleInFlight) {
			m.alert = "A fetch is already in progress."
		} else {
			m.alert = fmt.Sprintf("Could not start fetch: %v", msg.Err)
		}
		return m, nil

	case SettleMsg:
		id := msg.Update.CycleID
		p, ok := m.progress[id]
		if !ok {
			p = orchestration.NewCycleProgress()
			m.progress[id] = p
		}
		p.Apply(msg.Update)
		m.current = id
		return m, nil

	case AggregateMsg:
		m.inFlight--
		delete(m.progress, msg.Aggregate.CycleID)
		agg := msg.Aggregate
		if m.agg != nil && agg.StartedAt.Before(m.agg.StartedAt) {
			// Overlapping cycles may finish out of order; the newest start wins.
			return m, nil
		}
		m.agg = &agg
		m.alert = alertText(agg.Failures())
		return m, nil

	case spinner.TickMsg:
		if m.inFlight <= 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.bridge.ref.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Dismiss):
		m.alert = ""
		return m, nil

	case key.Matches(msg, m.keymap.Fetch):
		m.alert = ""
		m.inFlight++
		cmds := []tea.Cmd{fetchCmd(m.ctx, m.runner, m.bridge)}
		if m.inFlight == 1 {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// fetchCmd returns a tea.Cmd that asks the coordinator for a new cycle.
func fetchCmd(ctx context.Context, runner CycleRunner, listener orchestration.Listener) tea.Cmd {
	return func() tea.Msg {
		id, err := runner.RunFetchCycle(ctx, listener)
		if err != nil {
			return CycleErrorMsg{Err: err}
		}
		return CycleStartedMsg{CycleID: id}
	}
}

// alertText joins the user message of every failure, one per line.
func alertText(failures []*apperrors.FetchError) string {
	if len(failures) == 0 {
		return ""
	}
	lines := make([]string, len(failures))
	for i, f := range failures {
		lines[i] = f.UserMessage()
	}
	return strings.Join(lines, "\n")
}

// View renders the dashboard.
func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = defaultPanelWidth
	}
	panelWidth := max(width-2, minPanelWidth)
	inner := panelWidth - 4

	sections := []string{
		m.renderTitle(),
		m.renderStatus(),
		panelStyle.Width(panelWidth).Render(m.renderJoke(inner)),
		panelStyle.Width(panelWidth).Render(m.renderComments(inner)),
		panelStyle.Width(panelWidth).Render(m.renderImage()),
		m.renderFooter(),
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.alert != "" && m.height > 0 {
		box := alertStyle.Width(min(60, panelWidth)).Render(
			errorStyle.Render("Fetch failed") + "\n\n" + m.alert + "\n\n" + dimStyle.Render("Press esc to dismiss"))
		return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.alert != "" {
		view += "\n" + alertStyle.Render(m.alert)
	}
	return view
}

func (m Model) renderTitle() string {
	title := "fetchboard"
	if m.opts.Version != "" {
		title += " " + m.opts.Version
	}
	return titleStyle.Render(title)
}

func (m Model) renderStatus() string {
	if m.inFlight <= 0 {
		if m.agg == nil {
			return dimStyle.Render(" Press f to fetch.")
		}
		return dimStyle.Render(fmt.Sprintf(" Last cycle: %s in %s.",
			m.agg.Result(), format.FormatExecutionDuration(m.agg.Duration)))
	}
	status := " Fetching..."
	if p, ok := m.progress[m.current]; ok {
		settled := content.NumResources - len(p.Pending())
		status = fmt.Sprintf(" Fetching... %d/%d settled", settled, content.NumResources)
	}
	if m.inFlight > 1 {
		status += fmt.Sprintf(" (%d cycles)", m.inFlight)
	}
	return m.spinner.View() + status
}

func (m Model) renderJoke(width int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Joke"))
	b.WriteString("\n")
	if m.agg == nil {
		b.WriteString(dimStyle.Render("No joke"))
		return b.String()
	}
	joke, ok := m.agg.Joke.Value()
	if !ok {
		b.WriteString(dimStyle.Render("No joke"))
		return b.String()
	}
	b.WriteString(strings.Join(format.Wrap(joke.Value, width), "\n"))
	return b.String()
}

func (m Model) renderComments(width int) string {
	var b strings.Builder
	if m.agg == nil {
		b.WriteString(panelTitleStyle.Render("Comments"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("No comments"))
		return b.String()
	}
	comments, ok := m.agg.Comments.Value()
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
	b.WriteString("\n")
	if !ok || len(comments) == 0 {
		b.WriteString(dimStyle.Render("No comments"))
		return b.String()
	}
	shown := comments
	if m.opts.CommentLimit > 0 && len(shown) > m.opts.CommentLimit {
		shown = shown[:m.opts.CommentLimit]
	}
	lines := make([]string, 0, len(shown)+1)
	for _, c := range shown {
		lines = append(lines, format.Truncate(c.Name, width/2)+" "+emailStyle.Render(c.Email))
	}
	if hidden := len(comments) - len(shown); hidden > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("... and %d more", hidden)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (m Model) renderImage() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Image"))
	b.WriteString("\n")
	if m.agg == nil {
		b.WriteString(dimStyle.Render("No image"))
		return b.String()
	}
	data, ok := m.agg.Image.Value()
	if !ok {
		b.WriteString(dimStyle.Render("No image"))
		return b.String()
	}
	info, err := content.DescribeImage(data)
	if err != nil {
		b.WriteString(fmt.Sprintf("%s (unrecognized format)", format.FormatBytes(info.Size)))
		return b.String()
	}
	b.WriteString(successStyle.Render(fmt.Sprintf("%s %dx%d", info.Format, info.Width, info.Height)))
	b.WriteString(dimStyle.Render(", " + format.FormatBytes(info.Size)))
	return b.String()
}

func (m Model) renderFooter() string {
	parts := make([]string, 0, len(m.keymap.ShortHelp()))
	for _, b := range m.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return " " + strings.Join(parts, "  ")
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, runner CycleRunner, bridge *Bridge, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, runner, bridge, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	bridge.ref.SetProgram(p)
	defer bridge.ref.Close()

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
