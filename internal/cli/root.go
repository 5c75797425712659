package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/config"
	"github.com/alexanderramin/trayflow/internal/metrics"
	"github.com/alexanderramin/trayflow/internal/service"
)

// App holds the services and settings used by CLI commands.
type App struct {
	*service.Services

	Config  config.Config
	Log     zerolog.Logger
	Metrics *metrics.Metrics

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool
	Prompt        Prompter
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive() && a.Prompt != nil
}

// today is the current civil date in the configured time zone.
func (a *App) today() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return a.Config.Today(now())
}

// NewRootCmd creates the top-level "trayflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "trayflow",
		Short:         "Grow-cycle scheduler for microgreens farms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("farm", app.Config.Farm, "Farm id or name (default: the only farm)")

	root.AddCommand(
		newFarmCmd(app),
		newRecipeCmd(app),
		newCustomerCmd(app),
		newProductCmd(app),
		newOrderCmd(app),
		newRequestCmd(app),
		newTrayCmd(app),
		newTodayCmd(app),
		newPlanCmd(app),
		newGapsCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), app.Config.String())
			return err
		},
	}
}
