package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// Names maps entity ids to display names. Unknown ids fall back to a short id.
type Names map[string]string

func (n Names) Of(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	if id == "" {
		return Dim("--")
	}
	return TruncID(id)
}

func (n Names) OfPtr(id *string) string {
	if id == nil {
		return Dim("--")
	}
	return n.Of(*id)
}

// FormatToday renders the day's task list grouped by bucket, with an
// overdue section on top.
func FormatToday(resp *contract.TodayResponse, names Names) string {
	var b strings.Builder
	b.WriteString(Header("Today " + DateLabel(resp.Date)))
	b.WriteString("\n")
	summary := fmt.Sprintf("%s · %d urgent · %d overdue",
		Plural(resp.TotalCount, "task"), resp.UrgentCount, resp.OverdueCount)
	b.WriteString(Dim(summary))
	b.WriteString("\n")

	if resp.TotalCount == 0 {
		b.WriteString("\n" + StyleGreen.Render("Nothing due. Enjoy the quiet.") + "\n")
		return b.String()
	}

	if len(resp.Overdue) > 0 {
		b.WriteString("\n" + StyleRed.Render("OVERDUE") + "\n")
		for _, t := range resp.Overdue {
			b.WriteString(taskLine(t, names, true))
		}
	}
	for _, g := range resp.Groups {
		var current []contract.Task
		for _, t := range g.Tasks {
			if t.Urgency != domain.UrgencyOverdue {
				current = append(current, t)
			}
		}
		if len(current) == 0 {
			continue
		}
		b.WriteString("\n" + StyleHeader.Render(strings.ToUpper(string(g.Bucket))) + "\n")
		for _, t := range current {
			b.WriteString(taskLine(t, names, false))
		}
	}
	return b.String()
}

func taskLine(t contract.Task, names Names, showDue bool) string {
	p := t.Payload
	label := p.RecipeName
	if label == "" {
		label = names.Of(p.RecipeID)
	}
	parts := []string{UrgencyStyle(t.Urgency).Render(label)}
	if p.Quantity > 1 {
		parts = append(parts, fmt.Sprintf("×%d", p.Quantity))
	}
	if p.Label != "" {
		parts = append(parts, p.Label)
	}
	if w := Water(p.Water); w != "" {
		parts = append(parts, StyleBlue.Render(w))
	}
	if p.WeightGrams != nil {
		parts = append(parts, Grams(p.WeightGrams)+" seed")
	}
	if p.Location != "" {
		parts = append(parts, Dim("@"+p.Location))
	}
	if p.CustomerID != nil {
		parts = append(parts, StylePurple.Render(names.OfPtr(p.CustomerID)))
	}
	if showDue {
		parts = append(parts, StyleRed.Render("due "+domain.FormatDate(t.DueDate)))
	}
	marker := "•"
	if t.Urgency == domain.UrgencyUrgent {
		marker = StyleYellow.Render("!")
	}
	ref := fmt.Sprintf("%s d%d %s", TruncID(t.SourceID), t.DayOffset, t.Kind)
	return fmt.Sprintf("  %s %s  %s\n", marker, strings.Join(parts, "  "), Dim(ref))
}
