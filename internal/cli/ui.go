package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ============================================================
// Terminal output helpers. Every command prints through these
// so the status lines share one palette with the editor TUI.
// ============================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleDim renders secondary text: detail lines, stats, the
	// editor's status bar hints.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleHighlight emphasizes the value under the cursor, such as
	// the label buffer while typing a net name.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning renders check findings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	stylePath     = lipgloss.NewStyle().Foreground(colorWhite)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render("!") + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render("›") + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line under a status message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a file the command produced.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + stylePath.Render(path))
}

// printStats prints a one-line document summary: device and net counts
// plus whether the result came from the artifact cache.
func printStats(deviceCount, netCount int, cached bool) {
	parts := make([]string, 0, 3)
	if deviceCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d devices", deviceCount)))
	}
	if netCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nets", netCount)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}
