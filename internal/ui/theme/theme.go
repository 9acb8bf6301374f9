package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/grecsai/grecs/internal/sectionizer"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// GRESA section accents.
var (
	SectionBlue   = lipgloss.Color("#3B82F6")
	SectionOrange = lipgloss.Color("#F97316")
	SectionPurple = lipgloss.Color("#A855F7")
	SectionYellow = lipgloss.Color("#EAB308")
	SectionGreen  = lipgloss.Color("#22C55E")
)

var sectionColors = map[string]color.Color{
	sectionizer.LabelGiven:    SectionBlue,
	sectionizer.LabelRequired: SectionOrange,
	sectionizer.LabelEquation: SectionPurple,
	sectionizer.LabelSolution: SectionYellow,
	sectionizer.LabelAnswer:   SectionGreen,
}

// SectionColor returns the accent for a GRESA label, or Secondary for
// anything else (concept tiers included).
func SectionColor(label string) color.Color {
	if c, ok := sectionColors[label]; ok {
		return c
	}
	return Secondary
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
