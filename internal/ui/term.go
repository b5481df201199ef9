package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Added weeks and successful bookings
	colorOK = color.New(color.FgGreen)

	// Skipped weeks: closed court or already booked
	colorSkipped = color.New(color.FgYellow)

	// Failed weeks and rejected checks
	colorFailed = color.New(color.FgRed, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// colorProfile returns the lipgloss profile matching the fatih/color switch.
func colorProfile() termenv.Profile {
	if color.NoColor {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

func formatSkipped(s string) string {
	return colorSkipped.Sprint(s)
}

func formatFailed(s string) string {
	return colorFailed.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
