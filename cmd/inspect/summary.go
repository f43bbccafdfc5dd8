package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"inspect/internal/dump"
)

var (
	summaryLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	summaryCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// printSummary reports what the run produced. It goes to stderr only, never
// through the dump sink, so the dump file stays byte-identical across runs
// regardless of color settings.
func printSummary(out io.Writer, stats dump.Stats, useColor bool) {
	label := func(s string) string {
		if useColor {
			return summaryLabelStyle.Render(s)
		}
		return s
	}
	count := func(n int) string {
		s := fmt.Sprintf("%d", n)
		if useColor {
			return summaryCountStyle.Render(s)
		}
		return s
	}
	fmt.Fprintf(out, "%s %s sections (%s atom, %s heap, %s function), %s lines\n",
		label("dumped:"),
		count(stats.Atoms+stats.Heap+stats.Functions),
		count(stats.Atoms), count(stats.Heap), count(stats.Functions),
		count(stats.Lines))
}
