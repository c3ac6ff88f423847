package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ahenriksen/staffplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// UtilizationColor returns the style for a utilization bucket.
func UtilizationColor(status domain.UtilizationStatus) lipgloss.Style {
	switch status {
	case domain.UtilizationAvailable:
		return StyleGreen
	case domain.UtilizationPartiallyBusy:
		return StyleBlue
	case domain.UtilizationBusy:
		return StyleYellow
	case domain.UtilizationOverloaded:
		return StyleRed
	default:
		return StyleDim
	}
}

// UtilizationIndicator returns a colored indicator such as "● OVERLOADED".
func UtilizationIndicator(status domain.UtilizationStatus) string {
	label := strings.ToUpper(strings.ReplaceAll(string(status), "_", " "))
	return UtilizationColor(status).Render("● " + label)
}

// AllocationStatusPill returns a colored indicator for an allocation status.
func AllocationStatusPill(status domain.AllocationStatus) string {
	switch status {
	case domain.AllocationApproved:
		return StyleGreen.Render("● APPROVED")
	case domain.AllocationPending:
		return StyleYellow.Render("○ PENDING")
	case domain.AllocationRejected:
		return StyleRed.Render("✖ REJECTED")
	case domain.AllocationDeletionPending:
		return StyleRed.Render("○ DELETION PENDING")
	case domain.AllocationExpired, domain.AllocationForfeited:
		return StyleDim.Render("✖ " + string(status))
	default:
		return StyleDim.Render(string(status))
	}
}

// WeeklyStatusPill returns a colored indicator for a weekly allocation status.
func WeeklyStatusPill(status domain.WeeklyStatus) string {
	switch status {
	case domain.WeeklyApproved:
		return StyleGreen.Render("● APPROVED")
	case domain.WeeklyPending:
		return StyleYellow.Render("○ PENDING")
	case domain.WeeklyRejected:
		return StyleRed.Render("✖ REJECTED")
	case domain.WeeklyModified:
		return StyleBlue.Render("◐ MODIFIED")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warning renders an advisory warning line.
func Warning(text string) string {
	return StyleYellow.Render("⚠ " + text)
}
