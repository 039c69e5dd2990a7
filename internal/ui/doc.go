// Package ui provides theme and color support for the terminal presenters.
// The CLI uses ANSI Theme codes; the TUI uses the lipgloss TUITheme palette.
// Both honor --no-color and the NO_COLOR environment variable.
package ui
