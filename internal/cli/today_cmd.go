package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/contract"
)

func newTodayCmd(app *App) *cobra.Command {
	var date time.Time
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the work list for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			resp, err := app.Today.Today(ctx, contract.TodayRequest{FarmID: f.ID, Date: orDate(date, app.today())})
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatToday(resp, n))
			return nil
		},
	}
	cmd.Flags().Var(newDateFlag(&date), "date", "Day to show (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
