package autoplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/logging"
	"github.com/alexanderramin/trayflow/internal/metrics"
)

type stubPlanner struct {
	calls []contract.PlanRequest
	fail  map[string]error
}

func (p *stubPlanner) Plan(_ context.Context, req contract.PlanRequest) (*contract.PlanResponse, error) {
	p.calls = append(p.calls, req)
	if err := p.fail[req.FarmID]; err != nil {
		return nil, err
	}
	return &contract.PlanResponse{
		Created: []*domain.SeedingRequest{{ID: "r1"}, {ID: "r2"}},
		Skipped: []contract.PlanSlot{{StandingOrderID: "o1"}},
	}, nil
}

type stubFarms []*domain.Farm

func (f stubFarms) List(context.Context) ([]*domain.Farm, error) { return f, nil }

func newRunner(t *testing.T, cfg Config, p Planner, farms FarmLister, m *metrics.Metrics) *Runner {
	t.Helper()
	if cfg.Spec == "" {
		cfg.Spec = "@daily"
	}
	if cfg.HorizonDays == 0 {
		cfg.HorizonDays = 21
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	r, err := New(cfg, p, farms, logging.Nop(), m)
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC) }
	return r
}

func autoplanRuns(t *testing.T, m *metrics.Metrics, outcome string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "trayflow_autoplan_runs_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRunOnce_PlansEveryFarmOverHorizon(t *testing.T) {
	p := &stubPlanner{}
	m := metrics.New()
	r := newRunner(t, Config{}, p, stubFarms{{ID: "f1"}, {ID: "f2"}}, m)

	results, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, p.calls, 2)
	assert.Equal(t, "f1", p.calls[0].FarmID)
	assert.Equal(t, domain.Date(2025, 6, 9), p.calls[0].WindowStart)
	assert.Equal(t, domain.Date(2025, 6, 30), p.calls[0].WindowEnd)
	assert.Equal(t, 2, results[1].Created)
	assert.Equal(t, 1, results[1].Skipped)
	assert.Equal(t, 1.0, autoplanRuns(t, m, "success"))
}

func TestRunOnce_TodayFollowsLocation(t *testing.T) {
	p := &stubPlanner{}
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	r := newRunner(t, Config{FarmID: "f1", Location: loc, HorizonDays: 7}, p, nil, nil)

	_, err = r.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, p.calls, 1)
	assert.Equal(t, domain.Date(2025, 6, 10), p.calls[0].WindowStart)
	assert.Equal(t, domain.Date(2025, 6, 17), p.calls[0].WindowEnd)
}

func TestRunOnce_FailingFarmDoesNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	p := &stubPlanner{fail: map[string]error{"f1": boom}}
	m := metrics.New()
	r := newRunner(t, Config{}, p, stubFarms{{ID: "f1"}, {ID: "f2"}}, m)

	results, err := r.RunOnce(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Len(t, p.calls, 2)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 1.0, autoplanRuns(t, m, "error"))
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(Config{Spec: "not a spec", HorizonDays: 3}, &stubPlanner{}, nil, logging.Nop(), nil)
	assert.Error(t, err)
	_, err = New(Config{Spec: "@daily"}, &stubPlanner{}, nil, logging.Nop(), nil)
	assert.Error(t, err)
	_, err = New(Config{HorizonDays: 3}, &stubPlanner{}, nil, logging.Nop(), nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	r := newRunner(t, Config{Spec: "0 5 * * *"}, &stubPlanner{}, stubFarms{}, nil)
	r.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.Stop(ctx)
}
