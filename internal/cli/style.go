package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/jsonstudio/internal/core/diff"
)

// styles colours change summaries. Writers that are not terminals get plain
// text.
type styles struct {
	added    lipgloss.Style
	modified lipgloss.Style
	removed  lipgloss.Style
	muted    lipgloss.Style
	title    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		added:    r.NewStyle().Foreground(lipgloss.Color("10")),
		modified: r.NewStyle().Foreground(lipgloss.Color("11")),
		removed:  r.NewStyle().Foreground(lipgloss.Color("9")),
		muted:    r.NewStyle().Faint(true),
		title:    r.NewStyle().Bold(true),
	}
}

func (s styles) summaryLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+"):
		return s.added.Render(line)
	case strings.HasPrefix(line, "~"):
		return s.modified.Render(line)
	case strings.HasPrefix(line, "-"):
		return s.removed.Render(line)
	case line == diff.NoDifferences:
		return s.muted.Render(line)
	}
	return line
}
