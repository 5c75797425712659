package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/trayflow/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes a civil date relative to today.
func RelativeDay(d, today time.Time) string {
	days := domain.DaysBetween(today, d)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0:
		return fmt.Sprintf("In %dd", days)
	default:
		return fmt.Sprintf("%dd ago", -days)
	}
}

// DateLabel renders "Mon 2025-06-09".
func DateLabel(d time.Time) string {
	return d.Format("Mon") + " " + domain.FormatDate(d)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Grams renders a weight such as "25g" or "12.5g".
func Grams(g *float64) string {
	if g == nil {
		return "--"
	}
	return strconv.FormatFloat(*g, 'f', -1, 64) + "g"
}

// Water renders a watering instruction such as "water, bottom ×2".
func Water(w *domain.WaterSpec) string {
	if !w.Active() {
		return ""
	}
	s := string(w.Type)
	if w.Method != "" {
		s += ", " + string(w.Method)
	}
	if w.TimesPerDay > 1 {
		s += fmt.Sprintf(" ×%d", w.TimesPerDay)
	}
	return s
}

// Plural returns "1 tray" or "3 trays".
func Plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
