// Package autoplan runs the backward planner on a cron schedule so seeding
// requests exist before anyone opens the day's task list.
package autoplan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/trayflow/internal/app"
	"github.com/alexanderramin/trayflow/internal/config"
	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/metrics"
)

// Planner is the planning port the runner drives.
type Planner = app.PlanUseCase

type FarmLister interface {
	List(ctx context.Context) ([]*domain.Farm, error)
}

type Config struct {
	// Spec is a five-field cron spec or descriptor.
	Spec        string
	HorizonDays int
	// FarmID restricts runs to one farm. Empty plans every farm.
	FarmID   string
	Location *time.Location
	// Timeout bounds a single run. Zero means one minute.
	Timeout time.Duration
}

type Runner struct {
	cfg     Config
	planner Planner
	farms   FarmLister
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// New validates the cron spec. m may be nil.
func New(cfg Config, planner Planner, farms FarmLister, log zerolog.Logger, m *metrics.Metrics) (*Runner, error) {
	if cfg.Spec == "" {
		return nil, errors.New("autoplan: empty cron spec")
	}
	if cfg.HorizonDays < 1 {
		return nil, fmt.Errorf("autoplan: horizon must be at least one day, got %d", cfg.HorizonDays)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	r := &Runner{
		cfg:     cfg,
		planner: planner,
		farms:   farms,
		log:     log.With().Str("component", "autoplan").Logger(),
		metrics: m,
		now:     time.Now,
	}
	c := cron.New(cron.WithParser(config.CronParser), cron.WithLocation(cfg.Location))
	if _, err := c.AddFunc(cfg.Spec, r.tick); err != nil {
		return nil, fmt.Errorf("autoplan: parsing %q: %w", cfg.Spec, err)
	}
	r.cron = c
	return r, nil
}

// Start begins scheduling. It returns immediately.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cron.Start()
	r.log.Info().Str("spec", r.cfg.Spec).Int("horizon_days", r.cfg.HorizonDays).Msg("autoplan started")
}

// Stop waits for a running job to finish or ctx to expire.
func (r *Runner) Stop(ctx context.Context) {
	r.mu.Lock()
	done := r.cron.Stop()
	r.mu.Unlock()
	select {
	case <-done.Done():
	case <-ctx.Done():
		r.log.Warn().Msg("autoplan stop timed out with a run in progress")
	}
}

func (r *Runner) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	defer cancel()
	if _, err := r.RunOnce(ctx); err != nil {
		r.log.Error().Err(err).Msg("autoplan run failed")
	}
}

// FarmResult is the outcome of planning one farm.
type FarmResult struct {
	FarmID   string
	Created  int
	ToppedUp int
	Skipped  int
	Failures int
	Err      error
}

// RunOnce plans every configured farm for [today, today+horizon]. A failing
// farm does not stop the others; the joined error reports all of them.
func (r *Runner) RunOnce(ctx context.Context) ([]FarmResult, error) {
	farmIDs, err := r.farmIDs(ctx)
	if err != nil {
		r.record(false)
		return nil, err
	}

	y, m, d := r.now().In(r.cfg.Location).Date()
	from := domain.Date(y, m, d)
	to := domain.AddDays(from, r.cfg.HorizonDays)

	var errs []error
	results := make([]FarmResult, 0, len(farmIDs))
	for _, id := range farmIDs {
		res := FarmResult{FarmID: id}
		resp, err := r.planner.Plan(ctx, contract.PlanRequest{FarmID: id, WindowStart: from, WindowEnd: to})
		if err != nil {
			res.Err = err
			errs = append(errs, fmt.Errorf("farm %s: %w", id, err))
			r.log.Error().Err(err).Str("farm_id", id).Msg("autoplan farm failed")
		} else {
			res.Created, res.ToppedUp = len(resp.Created), len(resp.ToppedUp)
			res.Skipped, res.Failures = len(resp.Skipped), len(resp.Failures)
			ev := r.log.Info()
			if res.Failures > 0 {
				ev = r.log.Warn()
			}
			ev.Str("farm_id", id).
				Str("from", domain.FormatDate(from)).
				Str("to", domain.FormatDate(to)).
				Int("created", res.Created).
				Int("topped_up", res.ToppedUp).
				Int("skipped", res.Skipped).
				Int("failures", res.Failures).
				Msg("autoplan farm planned")
		}
		results = append(results, res)
	}
	joined := errors.Join(errs...)
	r.record(joined == nil)
	return results, joined
}

func (r *Runner) farmIDs(ctx context.Context) ([]string, error) {
	if r.cfg.FarmID != "" {
		return []string{r.cfg.FarmID}, nil
	}
	farms, err := r.farms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing farms: %w", err)
	}
	ids := make([]string, len(farms))
	for i, f := range farms {
		ids[i] = f.ID
	}
	return ids, nil
}

func (r *Runner) record(success bool) {
	if r.metrics != nil {
		r.metrics.AutoplanRun(success)
	}
}
