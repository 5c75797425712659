package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/api"
	"github.com/alexanderramin/trayflow/internal/autoplan"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run scheduled planning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loc := app.Config.Location()
			if spec := app.Config.Planner.AutoplanCron; spec != "" {
				farmID := ""
				if app.Config.Farm != "" {
					f, err := app.Farms.Resolve(ctx, app.Config.Farm)
					if err != nil {
						return fmt.Errorf("autoplan farm: %w", err)
					}
					farmID = f.ID
				}
				runner, err := autoplan.New(autoplan.Config{
					Spec:        spec,
					HorizonDays: app.Config.Planner.HorizonDays,
					FarmID:      farmID,
					Location:    loc,
				}, app.Plan, app.Farms, app.Log, app.Metrics)
				if err != nil {
					return err
				}
				runner.Start()
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					runner.Stop(stopCtx)
				}()
			}

			srv := api.New(app.Services, api.Config{
				Location:    loc,
				HorizonDays: app.Config.Planner.HorizonDays,
				GapDays:     7,
			}, app.Log, app.Metrics)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", app.Config.Server.Addr, "Listen address")
	return cmd
}
