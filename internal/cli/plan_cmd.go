package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

func newPlanCmd(app *App) *cobra.Command {
	var from, to time.Time
	var orders []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Create seeding requests for standing-order deliveries",
		Long: `Plans every standing-order delivery in the window and stores one
seeding request per sow slot. Running it again only adds what is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			start := orDate(from, app.today())
			end := orDate(to, domain.AddDays(start, app.Config.Planner.HorizonDays))

			var orderIDs []string
			for _, o := range orders {
				id, err := resolveOrder(ctx, app, f.ID, o)
				if err != nil {
					return err
				}
				orderIDs = append(orderIDs, id)
			}

			resp, err := app.Plan.Plan(ctx, contract.PlanRequest{
				FarmID:      f.ID,
				WindowStart: start,
				WindowEnd:   end,
				OrderIDs:    orderIDs,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			n, err := names(ctx, app, f.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(resp, n))
			return nil
		},
	}
	cmd.Flags().Var(newDateFlag(&from), "from", "First delivery date (default today)")
	cmd.Flags().Var(newDateFlag(&to), "to", "Last delivery date (default from + planner horizon)")
	cmd.Flags().StringSliceVar(&orders, "order", nil, "Limit to these standing orders (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
