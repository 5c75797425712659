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

func newGapsCmd(app *App) *cobra.Command {
	var from, to time.Time
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Compare ready trays with standing-order demand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			start := orDate(from, app.today())
			resp, err := app.Gaps.Gaps(ctx, contract.GapRequest{
				FarmID: f.ID,
				From:   start,
				To:     orDate(to, domain.AddDays(start, 6)),
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGaps(resp, n))
			return nil
		},
	}
	cmd.Flags().Var(newDateFlag(&from), "from", "First date (default today)")
	cmd.Flags().Var(newDateFlag(&to), "to", "Last date (default a week from --from)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
