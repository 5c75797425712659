package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/trayflow/internal/cli"
	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/config"
	"github.com/alexanderramin/trayflow/internal/db"
	"github.com/alexanderramin/trayflow/internal/logging"
	"github.com/alexanderramin/trayflow/internal/metrics"
	"github.com/alexanderramin/trayflow/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: logging.Format(cfg.Log.Format),
	}, os.Stderr)

	database, err := db.OpenDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	m := metrics.New()
	services := service.NewServices(database, service.Options{
		LookbackDays:  cfg.Planner.LookbackDays,
		FreshnessDays: cfg.Fulfillment.FreshnessDays,
		Location:      cfg.Location(),
	},
		service.NewLogUseCaseObserver(log.With().Str("component", "service").Logger()),
		service.NewMetricsUseCaseObserver(m),
	)

	formatter.SetPlain(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))

	app := &cli.App{
		Services: services,
		Config:   cfg,
		Log:      log,
		Metrics:  m,
		Prompt:   cli.HuhPrompter{},
	}
	// Prompts only when a person is at the keyboard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
