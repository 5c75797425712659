package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

func newTrayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tray",
		Short: "Track trays and resolve their events",
	}
	cmd.AddCommand(
		newTrayAddCmd(app),
		newTrayListCmd(app),
		newTrayDueCmd(app),
		newTrayCompleteCmd(app),
		newTraySkipCmd(app),
		newTraySkipOverdueCmd(app),
		newTrayLostCmd(app),
		newTrayMoveCmd(app),
		newTrayAssignCmd(app),
	)
	return cmd
}

// trayArg resolves the farm and the tray named by the first argument.
func trayArg(ctx context.Context, cmd *cobra.Command, app *App, arg string) (string, error) {
	f, err := resolveFarm(ctx, cmd, app)
	if err != nil {
		return "", err
	}
	return resolveTray(ctx, app, f.ID, arg)
}

func newTrayAddCmd(app *App) *cobra.Command {
	var recipe, location, customer string
	var sow time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a tray sown outside a seeding request",
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
			t := &domain.Tray{
				FarmID:   f.ID,
				RecipeID: r.ID,
				SowDate:  orDate(sow, app.today()),
				Location: location,
			}
			if customer != "" {
				id, err := resolveCustomer(ctx, app, f.ID, customer)
				if err != nil {
					return err
				}
				t.CustomerID = &id
			}
			if err := app.Trays.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sowed %s on %s\n  %s\n", r.DisplayName(), formatter.DateLabel(t.SowDate), t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&recipe, "recipe", "", "Recipe id or name")
	cmd.Flags().Var(newDateFlag(&sow), "sow", "Sow date (default today)")
	cmd.Flags().StringVar(&location, "location", "", "Rack or shelf")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer the tray is for")
	_ = cmd.MarkFlagRequired("recipe")
	return cmd
}

func newTrayListCmd(app *App) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			var states []domain.LossState
			switch domain.LossState(state) {
			case "all":
			case domain.TrayActive, domain.TrayHarvested, domain.TrayLost:
				states = append(states, domain.LossState(state))
			default:
				return fmt.Errorf("unknown state %q (expected active, harvested, lost or all)", state)
			}
			trays, err := app.Trays.List(ctx, f.ID, states...)
			if err != nil {
				return err
			}
			n, err := names(ctx, app, f.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrays(trays, n))
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", string(domain.TrayActive), "active, harvested, lost or all")
	return cmd
}

func newTrayDueCmd(app *App) *cobra.Command {
	var date time.Time
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "due <tray>",
		Short: "Show a tray's events due today and overdue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := trayArg(ctx, cmd, app, args[0])
			if err != nil {
				return err
			}
			resp, err := app.Trays.DueEvents(ctx, id, orDate(date, app.today()))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDue(resp))
			return nil
		},
	}
	cmd.Flags().Var(newDateFlag(&date), "date", "As-of date (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// eventFlags are shared by complete and skip.
type eventFlags struct {
	day  int
	kind string
	note string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.day, "day", 0, "Day offset of the event (see `tray due`)")
	cmd.Flags().StringVar(&f.kind, "kind", "", "Event kind, e.g. water, uncover, harvest")
	cmd.Flags().StringVar(&f.note, "note", "", "Free-text note")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("kind")
}

func (f *eventFlags) eventKind() (domain.EventKind, error) {
	k := strings.ToLower(strings.TrimSpace(f.kind))
	if !domain.ValidEventKinds[k] {
		return "", fmt.Errorf("unknown event kind %q", f.kind)
	}
	return domain.EventKind(k), nil
}

func newTrayCompleteCmd(app *App) *cobra.Command {
	var ev eventFlags
	var yield float64

	cmd := &cobra.Command{
		Use:   "complete <tray>",
		Short: "Mark a timeline event done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			kind, err := ev.eventKind()
			if err != nil {
				return err
			}
			id, err := trayArg(ctx, cmd, app, args[0])
			if err != nil {
				return err
			}
			on := app.today()
			req := contract.CompleteRequest{TrayID: id, DayOffset: ev.day, Kind: kind, HarvestedOn: &on, Note: ev.note}
			if cmd.Flags().Changed("yield") {
				req.YieldGrams = &yield
			}
			err = app.Trays.Complete(ctx, req)
			if errors.Is(err, domain.ErrAlreadyResolved) {
				fmt.Fprintf(cmd.OutOrStdout(), "Day %d %s was already resolved\n", ev.day, kind)
				return nil
			}
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Completed day %d %s", ev.day, kind)
			if kind == domain.EventHarvest {
				msg = fmt.Sprintf("Harvested %s", formatter.Grams(req.YieldGrams))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render(msg))
			return nil
		},
	}
	ev.register(cmd)
	cmd.Flags().Float64Var(&yield, "yield", 0, "Harvest yield in grams (required for harvest)")
	return cmd
}

func newTraySkipCmd(app *App) *cobra.Command {
	var ev eventFlags

	cmd := &cobra.Command{
		Use:   "skip <tray>",
		Short: "Mark a timeline event skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			kind, err := ev.eventKind()
			if err != nil {
				return err
			}
			id, err := trayArg(ctx, cmd, app, args[0])
			if err != nil {
				return err
			}
			err = app.Trays.Skip(ctx, contract.SkipRequest{TrayID: id, DayOffset: ev.day, Kind: kind, Note: ev.note})
			if errors.Is(err, domain.ErrAlreadyResolved) {
				fmt.Fprintf(cmd.OutOrStdout(), "Day %d %s was already resolved\n", ev.day, kind)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped day %d %s\n", ev.day, kind)
			return nil
		},
	}
	ev.register(cmd)
	return cmd
}

func newTraySkipOverdueCmd(app *App) *cobra.Command {
	var date time.Time
	var yes bool

	cmd := &cobra.Command{
		Use:   "skip-overdue <tray>",
		Short: "Skip every overdue event of a tray",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := trayArg(ctx, cmd, app, args[0])
			if err != nil {
				return err
			}
			asOf := orDate(date, app.today())
			if !yes {
				due, err := app.Trays.DueEvents(ctx, id, asOf)
				if err != nil {
					return err
				}
				if len(due.Overdue) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing overdue.")
					return nil
				}
				if !app.interactive() {
					return fmt.Errorf("%d overdue event(s); pass --yes to skip them", len(due.Overdue))
				}
				ok, err := app.Prompt.Confirm(fmt.Sprintf("Skip %d overdue event(s)?", len(due.Overdue)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing skipped.")
					return nil
				}
			}
			res, err := app.Trays.SkipAllOverdue(ctx, id, asOf)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBatch(res))
			return nil
		},
	}
	cmd.Flags().Var(newDateFlag(&date), "date", "As-of date (default today)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newTrayLostCmd(app *App) *cobra.Command {
	var reason, note string

	cmd := &cobra.Command{
		Use:   "lost <tray>",
		Short: "Mark a tray lost",
		Long:  "Reasons: " + lossReasonList() + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := trayArg(ctx, cmd, app, args[0])
			if err != nil {
				return err
			}
			r := domain.LossReason(strings.ToLower(strings.TrimSpace(reason)))
			if r == "" {
				if !app.interactive() {
					return fmt.Errorf("--reason is required (%s)", lossReasonList())
				}
				var promptNote string
				r, promptNote, err = app.Prompt.LossReason()
				if err != nil {
					return err
				}
				if note == "" {
					note = promptNote
				}
			}
			if err := app.Trays.MarkLost(ctx, id, r, note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked tray %s lost (%s)\n", formatter.TruncID(id), r)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Loss reason")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	return cmd
}

func lossReasonList() string {
	parts := make([]string, len(lossReasonOptions))
	for i, r := range lossReasonOptions {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func newTrayMoveCmd(app *App) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "move <tray>",
		Short: "Change where a tray sits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := trayArg(ctx, cmd, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Trays.Relocate(ctx, id, location); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved tray %s to %s\n", formatter.TruncID(id), location)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "Rack or shelf")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newTrayAssignCmd(app *App) *cobra.Command {
	var customer string
	var unassign bool

	cmd := &cobra.Command{
		Use:   "assign <tray>",
		Short: "Reserve a tray for a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			id, err := resolveTray(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			if unassign {
				if err := app.Trays.Assign(ctx, id, nil); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tray %s is unassigned\n", formatter.TruncID(id))
				return nil
			}
			if customer == "" {
				return errors.New("--customer or --clear is required")
			}
			customerID, err := resolveCustomer(ctx, app, f.ID, customer)
			if err != nil {
				return err
			}
			if err := app.Trays.Assign(ctx, id, &customerID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tray %s reserved for %s\n", formatter.TruncID(id), customer)
			return nil
		},
	}
	cmd.Flags().StringVar(&customer, "customer", "", "Customer id or name")
	cmd.Flags().BoolVar(&unassign, "clear", false, "Remove the reservation")
	return cmd
}
