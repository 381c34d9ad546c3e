package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPink = lipgloss.Color("205")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
	colorOK   = lipgloss.Color("35")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	styleName  = lipgloss.NewStyle().Foreground(colorPink).Width(12)
	styleValue = lipgloss.NewStyle().Foreground(colorGray)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleOK    = lipgloss.NewStyle().Foreground(colorOK)
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleOK.Render("✓"), fmt.Sprintf(format, args...))
}
