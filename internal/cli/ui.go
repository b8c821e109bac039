package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Terminal palette. Soft colors; the tablature itself carries the loud ones.
var (
	colorCyan   = lipgloss.Color("36")  // primary actions and highlights
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // links and commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

// Styles shared with the bubbletea models.
var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

	// StyleHighlight for emphasized values like part and scale names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for clickable URLs.
	StyleLink = lipgloss.NewStyle().Underline(true).Foreground(colorBlue)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for primary values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for counts and offsets.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for degraded-but-continuing conditions.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// styleSpinner colors the animated frame; the rest of the line is dim.
var styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)

// Status glyphs, rendered once at init.
var (
	iconSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	iconError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	iconWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	iconInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	iconArrow   = StyleDim.Render("→")

	labelCached = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	labelFresh  = lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
)

var (
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// newTable builds the house-style rounded table used by every listing.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...)
}

// Status lines. Commands print through these so every run reads the same.

func printSuccess(format string, args ...any) {
	fmt.Println(iconSuccess + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(iconError + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(iconWarning + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(iconInfo + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + iconArrow + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value in aligned columns.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the compile counters plus whether the result came from
// the cache. Zero counters are omitted.
func printStats(measureCount, eventCount int, cached bool) {
	status := labelFresh
	if cached {
		status = labelCached
	}

	parts := make([]string, 0, 3)
	if measureCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d measures", measureCount)))
	}
	if eventCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d events", eventCount)))
	}
	parts = append(parts, status)

	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
