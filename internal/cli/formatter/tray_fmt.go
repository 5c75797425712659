package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// FormatTrays renders the tray list.
func FormatTrays(trays []*domain.Tray, names Names) string {
	if len(trays) == 0 {
		return Dim("No trays.") + "\n"
	}
	rows := make([][]string, 0, len(trays))
	for _, t := range trays {
		rows = append(rows, []string{
			TruncID(t.ID),
			names.Of(t.RecipeID),
			domain.FormatDate(t.SowDate),
			TrayStatePill(t.LossState),
			t.Location,
			names.OfPtr(t.CustomerID),
		})
	}
	return RenderTable([]string{"ID", "RECIPE", "SOWN", "STATE", "LOCATION", "CUSTOMER"}, rows)
}

// FormatDue renders a tray's events due today and overdue.
func FormatDue(resp *contract.DueResponse) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Tray %s day %d", resp.TrayID, resp.ElapsedDays)))
	b.WriteString("\n")
	if len(resp.Today) == 0 && len(resp.Overdue) == 0 {
		b.WriteString(Dim("Nothing due.") + "\n")
		return b.String()
	}
	for _, e := range resp.Overdue {
		b.WriteString(dueLine(e, StyleRed.Render("overdue")))
	}
	for _, e := range resp.Today {
		b.WriteString(dueLine(e, StyleGreen.Render("today")))
	}
	return b.String()
}

func dueLine(e contract.DueEvent, tag string) string {
	detail := e.Label
	if w := Water(e.Water); w != "" {
		detail = strings.TrimSpace(detail + " " + StyleBlue.Render(w))
	}
	return fmt.Sprintf("  d%-3d %-12s %s  %s  %s\n", e.DayOffset, e.Kind, tag, Dim(domain.FormatDate(e.DueDate)), detail)
}

// FormatBatch renders the per-event outcome of a bulk skip.
func FormatBatch(res *contract.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skipped %s on tray %s\n", Plural(res.Applied, "event"), TruncID(res.TrayID))
	for _, it := range res.Items {
		status := StyleGreen.Render(string(it.Status))
		switch it.Status {
		case contract.BatchFailed:
			status = StyleRed.Render(string(it.Status))
		case contract.BatchAlreadyResolved:
			status = StyleDim.Render(string(it.Status))
		}
		line := fmt.Sprintf("  d%-3d %-12s %s", it.DayOffset, it.Kind, status)
		if it.Error != "" {
			line += "  " + Dim(it.Error)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatRequests renders seeding requests.
func FormatRequests(reqs []*domain.SeedingRequest, names Names) string {
	if len(reqs) == 0 {
		return Dim("No seeding requests.") + "\n"
	}
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		delivery := "--"
		if r.DeliveryDate != nil {
			delivery = domain.FormatDate(*r.DeliveryDate)
		}
		soak := ""
		if r.SoakedAt != nil {
			soak = StyleBlue.Render("soaked")
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			DateLabel(r.SeedDate),
			names.Of(r.RecipeID),
			fmt.Sprintf("%d", r.Quantity),
			RequestStatusPill(r.Status),
			string(r.Source),
			names.OfPtr(r.CustomerID),
			delivery,
			soak,
		})
	}
	return RenderTable([]string{"ID", "SOW", "RECIPE", "TRAYS", "STATUS", "SOURCE", "CUSTOMER", "DELIVERY", ""}, rows)
}
