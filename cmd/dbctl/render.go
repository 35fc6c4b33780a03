package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// showLevelStyles tints "show"'s indentation levels so nested rows are
// visually distinguishable at a glance; colors cycle once the walker
// nests deeper than the palette.
var showLevelStyles = []lipgloss.Style{
	lipgloss.NewStyle().Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("120")),
}

// renderShow colorizes internal/show's plain-text output when stdout is a
// terminal; otherwise it returns raw unchanged, since this file's
// concern (SPEC_FULL.md §9) is presentation only and must never change
// what a script or pipe sees.
func renderShow(raw string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return raw
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		level := (len(line) - len(trimmed)) / 4
		style := showLevelStyles[level%len(showLevelStyles)]
		lines[i] = style.Render(trimmed)
		lines[i] = strings.Repeat("    ", level) + lines[i]
	}
	return strings.Join(lines, "\n")
}
