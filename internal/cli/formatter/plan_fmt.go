package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// FormatPlan renders the seeding requests a planning run created, the slots
// that already existed, and per-order failures.
func FormatPlan(resp *contract.PlanResponse, names Names) string {
	var b strings.Builder
	b.WriteString(Header("Seeding plan"))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%d created · %d topped up · %d already planned · %d failed",
		len(resp.Created), len(resp.ToppedUp), len(resp.Skipped), len(resp.Failures))))
	b.WriteString("\n")

	if len(resp.Created) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(resp.Created))
		for _, r := range resp.Created {
			delivery := "--"
			if r.DeliveryDate != nil {
				delivery = DateLabel(*r.DeliveryDate)
			}
			rows = append(rows, []string{
				DateLabel(r.SeedDate),
				names.Of(r.RecipeID),
				fmt.Sprintf("%d", r.Quantity),
				names.OfPtr(r.CustomerID),
				delivery,
				TruncID(r.ID),
			})
		}
		b.WriteString(RenderTable([]string{"SOW", "RECIPE", "TRAYS", "CUSTOMER", "DELIVERY", "ID"}, rows))
	}

	if len(resp.ToppedUp) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(resp.ToppedUp))
		for _, u := range resp.ToppedUp {
			added := make([]string, 0, len(u.Deliveries))
			for _, d := range u.Deliveries {
				added = append(added, DateLabel(d))
			}
			rows = append(rows, []string{
				DateLabel(u.SeedDate),
				fmt.Sprintf("+%d", u.Added),
				fmt.Sprintf("%d", u.Quantity),
				strings.Join(added, ", "),
				TruncID(u.RequestID),
			})
		}
		b.WriteString(RenderTable([]string{"SOW", "ADDED", "TRAYS", "NEW DELIVERIES", "ID"}, rows))
	}

	if len(resp.Failures) > 0 {
		b.WriteString("\n" + StyleRed.Render("FAILURES") + "\n")
		for _, f := range resp.Failures {
			when := ""
			if f.DeliveryDate != nil {
				when = " for " + domain.FormatDate(*f.DeliveryDate)
			}
			fmt.Fprintf(&b, "  %s order %s%s: %s\n",
				StyleRed.Render(string(f.Code)), TruncID(f.StandingOrderID), when, f.Message)
		}
	}
	return b.String()
}
