package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// FormatTimeline renders a compiled recipe as a day-by-day schedule.
func FormatTimeline(v *contract.TimelineView) string {
	var b strings.Builder
	b.WriteString(Header(v.RecipeName))
	b.WriteString("\n")
	meta := fmt.Sprintf("%d days to harvest", v.TotalDays)
	if v.PreSowDays > 0 {
		meta += fmt.Sprintf(" · starts %d day(s) before sowing", v.PreSowDays)
	}
	if v.HasGrowing {
		meta += fmt.Sprintf(" · watering through day %d", v.LastGrowingDay)
	}
	b.WriteString(Dim(meta) + "\n\n")

	rows := make([][]string, 0, len(v.Events))
	for _, e := range v.Events {
		detail := []string{}
		if e.Label != "" {
			detail = append(detail, e.Label)
		}
		if w := Water(e.Water); w != "" {
			detail = append(detail, StyleBlue.Render(w))
		}
		if e.WeightGrams != nil {
			detail = append(detail, Grams(e.WeightGrams))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.DayOffset),
			string(e.Kind),
			string(e.Bucket),
			strings.Join(detail, "  "),
		})
	}
	b.WriteString(RenderTable([]string{"DAY", "EVENT", "GROUP", "DETAIL"}, rows))
	return b.String()
}

// FormatRecipeList renders recipes with their version and grow length.
func FormatRecipeList(recipes []*domain.Recipe, totalDays map[string]int) string {
	if len(recipes) == 0 {
		return Dim("No recipes. Import some with `trayflow recipe import`.") + "\n"
	}
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		days := "--"
		if d, ok := totalDays[r.ID]; ok {
			days = fmt.Sprintf("%d", d)
		}
		rows = append(rows, []string{r.DisplayName(), r.Variety, days, fmt.Sprintf("%d", len(r.Steps)), TruncID(r.ID)})
	}
	return RenderTable([]string{"RECIPE", "VARIETY", "DAYS", "STEPS", "ID"}, rows)
}
