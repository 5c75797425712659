package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/alexanderramin/trayflow/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SetPlain turns styling off for pipes and dumb terminals.
func SetPlain(plain bool) {
	if plain {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// UrgencyStyle colors a task by how late it is.
func UrgencyStyle(u domain.Urgency) lipgloss.Style {
	switch u {
	case domain.UrgencyOverdue:
		return StyleRed
	case domain.UrgencyUrgent:
		return StyleYellow
	default:
		return StyleFg
	}
}

// UrgencyIndicator returns a marker such as "● OVERDUE".
func UrgencyIndicator(u domain.Urgency) string {
	switch u {
	case domain.UrgencyOverdue:
		return StyleRed.Render("● OVERDUE")
	case domain.UrgencyUrgent:
		return StyleYellow.Render("● URGENT")
	default:
		return StyleGreen.Render("●")
	}
}

// TrayStatePill renders a tray's loss state.
func TrayStatePill(s domain.LossState) string {
	switch s {
	case domain.TrayActive:
		return StyleGreen.Render("● Active")
	case domain.TrayHarvested:
		return StyleDim.Render("✔ Harvested")
	case domain.TrayLost:
		return StyleRed.Render("✖ Lost")
	default:
		return StyleDim.Render(string(s))
	}
}

// RequestStatusPill renders a seeding request's status.
func RequestStatusPill(s domain.SeedingStatus) string {
	switch s {
	case domain.SeedingPending:
		return StyleBlue.Render("○ Pending")
	case domain.SeedingCompleted:
		return StyleDim.Render("✔ Sown")
	case domain.SeedingCancelled:
		return StyleDim.Render("⊘ Cancelled")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
