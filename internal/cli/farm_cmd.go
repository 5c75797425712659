package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/domain"
)

func newFarmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farm",
		Short: "Manage farms",
	}
	cmd.AddCommand(
		newFarmAddCmd(app),
		newFarmListCmd(app),
		newFarmDaysCmd(app),
	)
	return cmd
}

func newFarmAddCmd(app *App) *cobra.Command {
	var name string
	days := domain.AllWeekdays

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a farm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			f := &domain.Farm{
				ID:                 uuid.New().String(),
				Name:               strings.TrimSpace(name),
				AllowedSeedingDays: days,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := app.Farms.Create(context.Background(), f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created farm %s (seeding days %s) %s\n",
				f.Name, f.AllowedSeedingDays, formatter.TruncID(f.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Farm name")
	cmd.Flags().Var(newWeekdayFlag(&days), "days", "Allowed seeding weekdays, e.g. mon,wed,fri")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFarmListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List farms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			farms, err := app.Farms.List(context.Background())
			if err != nil {
				return err
			}
			if len(farms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No farms."))
				return nil
			}
			rows := make([][]string, len(farms))
			for i, f := range farms {
				rows[i] = []string{f.Name, f.AllowedSeedingDays.String(), f.ID}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"NAME", "SEEDING DAYS", "ID"}, rows))
			return nil
		},
	}
}

func newFarmDaysCmd(app *App) *cobra.Command {
	var days domain.WeekdaySet

	cmd := &cobra.Command{
		Use:   "days",
		Short: "Set the weekdays seeding may happen on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			if err := app.Farms.SetSeedingDays(ctx, f.ID, days); err != nil {
				return err
			}
			label := days.String()
			if days.Empty() {
				label = "any day"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeding days for %s: %s\n", f.Name, label)
			return nil
		},
	}
	cmd.Flags().Var(newWeekdayFlag(&days), "set", "Allowed seeding weekdays, e.g. mon,wed,fri")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}
