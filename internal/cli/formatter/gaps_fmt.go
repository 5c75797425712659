package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trayflow/internal/contract"
)

// FormatGaps renders supply against demand per delivery date.
func FormatGaps(resp *contract.GapResponse, names Names) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Fulfillment %s → %s", DateLabel(resp.From), DateLabel(resp.To))))
	b.WriteString("\n")

	if len(resp.Reports) == 0 {
		b.WriteString(Dim("No deliveries and no ready trays in this window.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(resp.Reports))
	for _, r := range resp.Reports {
		customer := names.Of(r.CustomerID)
		if r.CustomerID == "" {
			customer = Dim("unassigned")
		}
		status := StyleGreen.Render("ok")
		switch {
		case r.Shortfall > 0:
			status = StyleRed.Render(fmt.Sprintf("short %d", r.Shortfall))
		case r.Surplus > 0:
			status = StyleBlue.Render(fmt.Sprintf("surplus %d", r.Surplus))
		}
		rows = append(rows, []string{
			DateLabel(r.Date),
			customer,
			names.Of(r.RecipeID),
			RenderFill(r.TraysReady, r.TraysNeeded, 8),
			status,
		})
	}
	b.WriteString(RenderTable([]string{"DATE", "CUSTOMER", "RECIPE", "READY", "STATUS"}, rows))

	total := fmt.Sprintf("Shortfall %d · Surplus %d", resp.TotalShortfall, resp.TotalSurplus)
	if resp.TotalShortfall > 0 {
		total = StyleRed.Render(total)
	} else {
		total = StyleGreen.Render(total)
	}
	b.WriteString("\n" + total + "\n")
	return b.String()
}
