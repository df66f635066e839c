// Package style defines the visual theme for the hoard CLI.
// All colours and text styles are defined here so that every prompt and
// formatted output uses a consistent look-and-feel.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// ─── Colour palette ──────────────────────────────────────────────────────────

var (
	// Brand / primary
	Blue = lipgloss.Color("#0078D4")
	Cyan = lipgloss.Color("#00B4D8")

	// Semantic
	Green  = lipgloss.Color("#22C55E")
	Yellow = lipgloss.Color("#FACC15")
	Red    = lipgloss.Color("#EF4444")

	// Neutral
	Dim = lipgloss.Color("#6B7280")
)

// ─── Reusable text styles ────────────────────────────────────────────────────

var (
	// Title is used for top-level headings.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue)

	// Subtitle is used for section headers, e.g. repository names.
	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	// Success style for positive confirmations.
	Success = lipgloss.NewStyle().
		Foreground(Green).
		Bold(true)

	// Warning style for non-fatal alerts.
	Warning = lipgloss.NewStyle().
		Foreground(Yellow)

	// Error style for error messages.
	Error = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	// DimText is used for hints and secondary info like collection names.
	DimText = lipgloss.NewStyle().
		Foreground(Dim)

	// Bold for emphasised identifiers.
	Bold = lipgloss.NewStyle().Bold(true)
)
