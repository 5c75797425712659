package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
)

func newRequestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"req"},
		Short:   "Manage seeding requests",
	}
	cmd.AddCommand(
		newRequestListCmd(app),
		newRequestAddCmd(app),
		newRequestCancelCmd(app),
		newRequestSoakCmd(app),
		newRequestSowCmd(app),
	)
	return cmd
}

func newRequestListCmd(app *App) *cobra.Command {
	var status string
	var from, to time.Time

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List seeding requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			filter := repository.SeedingFilter{}
			switch domain.SeedingStatus(status) {
			case "", "all":
			case domain.SeedingPending, domain.SeedingCompleted, domain.SeedingCancelled:
				filter.Status = domain.SeedingStatus(status)
			default:
				return fmt.Errorf("unknown status %q (expected pending, completed, cancelled or all)", status)
			}
			if !from.IsZero() {
				filter.From = &from
			}
			if !to.IsZero() {
				filter.To = &to
			}
			reqs, err := app.Seedings.List(ctx, f.ID, filter)
			if err != nil {
				return err
			}
			n, err := names(ctx, app, f.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRequests(reqs, n))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.SeedingPending), "pending, completed, cancelled or all")
	cmd.Flags().Var(newDateFlag(&from), "from", "Earliest sow date")
	cmd.Flags().Var(newDateFlag(&to), "to", "Latest sow date")
	return cmd
}

func newRequestAddCmd(app *App) *cobra.Command {
	var recipe, customer string
	var qty int
	var date time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a manual seeding request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			r, err := resolveRecipe(ctx, app, f.ID, recipe)
			if err != nil {
				return err
			}
			req := &domain.SeedingRequest{
				FarmID:   f.ID,
				RecipeID: r.ID,
				Quantity: qty,
				SeedDate: orDate(date, app.today()),
				Source:   domain.SourceManual,
			}
			if customer != "" {
				id, err := resolveCustomer(ctx, app, f.ID, customer)
				if err != nil {
					return err
				}
				req.CustomerID = &id
			}
			if err := app.Seedings.Create(ctx, req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requested %s of %s on %s %s\n",
				formatter.Plural(req.Quantity, "tray"), r.DisplayName(), formatter.DateLabel(req.SeedDate), formatter.TruncID(req.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&recipe, "recipe", "", "Recipe id or name")
	cmd.Flags().IntVar(&qty, "qty", 1, "Number of trays")
	cmd.Flags().Var(newDateFlag(&date), "date", "Sow date (default today)")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer the trays are for")
	_ = cmd.MarkFlagRequired("recipe")
	return cmd
}

func newRequestCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <request>",
		Short: "Cancel a pending seeding request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			id, err := resolveRequest(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.Seedings.Cancel(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled request %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newRequestSoakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "soak <request>",
		Short: "Record that the seeds of a request are soaking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			id, err := resolveRequest(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.Seedings.MarkSoaked(ctx, id, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Soaking request %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newRequestSowCmd(app *App) *cobra.Command {
	var date time.Time
	var location string

	cmd := &cobra.Command{
		Use:   "sow <request>",
		Short: "Complete a seeding request and create its trays",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			id, err := resolveRequest(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			sowDate := orDate(date, app.today())
			trays, err := app.Seedings.Complete(ctx, contract.SowRequest{
				RequestID: id,
				SowDate:   &sowDate,
				Location:  location,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sowed %s on %s\n", formatter.Plural(len(trays), "tray"), formatter.DateLabel(sowDate))
			for _, t := range trays {
				fmt.Fprintf(out, "  %s\n", t.ID)
			}
			return nil
		},
	}
	cmd.Flags().Var(newDateFlag(&date), "date", "Sow date (default today)")
	cmd.Flags().StringVar(&location, "location", "", "Rack or shelf the trays go to")
	return cmd
}
