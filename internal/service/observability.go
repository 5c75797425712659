package service

import (
	"context"
	"time"

	"github.com/alexanderramin/trayflow/internal/metrics"
	"github.com/rs/zerolog"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger zerolog.Logger
}

// NewLogUseCaseObserver writes one structured log line per use case.
func NewLogUseCaseObserver(logger zerolog.Logger) UseCaseObserver {
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	ev := o.logger.Info()
	if event.Err != nil {
		ev = o.logger.Error().Err(event.Err)
	}
	ev.Str("use_case", event.Name).
		Int64("duration_ms", event.Duration.Milliseconds()).
		Bool("success", event.Success).
		Fields(event.Fields).
		Msg("service_use_case")
}

type metricsUseCaseObserver struct {
	m *metrics.Metrics
}

// NewMetricsUseCaseObserver feeds use-case events into the Prometheus
// collectors. Besides latency it picks the domain counters out of the
// event fields of the use cases that report them.
func NewMetricsUseCaseObserver(m *metrics.Metrics) UseCaseObserver {
	if m == nil {
		return NoopUseCaseObserver{}
	}
	return &metricsUseCaseObserver{m: m}
}

func (o *metricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.m.ObserveUseCase(event.Name, event.Duration, event.Success)
	if !event.Success {
		return
	}
	f := event.Fields
	switch event.Name {
	case useCaseTrayComplete, useCaseTraySkip:
		kind, _ := f["kind"].(string)
		resolution, _ := f["resolution"].(string)
		o.m.EventResolved(kind, resolution)
	case useCasePlan:
		created, _ := f["created"].(int)
		skipped, _ := f["skipped"].(int)
		failed, _ := f["failed"].(int)
		o.m.PlanResult(created, skipped, failed)
	case useCaseToday:
		farm, _ := f["farm_id"].(string)
		if buckets, ok := f["buckets"].(map[string]int); ok {
			o.m.SetTasksDue(farm, buckets)
		}
	case useCaseGaps:
		farm, _ := f["farm_id"].(string)
		shortfall, _ := f["shortfall"].(int)
		o.m.SetShortfall(farm, shortfall)
	}
}

type multiUseCaseObserver []UseCaseObserver

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		obs.ObserveUseCase(ctx, event)
	}
}

// useCaseObserverOrNoop fans events out to every non-nil observer.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}

const (
	useCaseToday           = "today"
	useCasePlan            = "plan"
	useCaseGaps            = "gaps"
	useCaseTrayComplete    = "tray_complete"
	useCaseTraySkip        = "tray_skip"
	useCaseTraySkipOverdue = "tray_skip_overdue"
	useCaseTrayMarkLost    = "tray_mark_lost"
	useCaseSeedingComplete = "seeding_complete"
	useCaseRecipeSave      = "recipe_save"
)

// observe reports a use case that started at start. Call it deferred with a
// pointer to the named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, start time.Time, err *error, fields map[string]any) {
	var e error
	if err != nil {
		e = *err
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: start,
		Duration:  time.Since(start),
		Success:   e == nil,
		Err:       e,
		Fields:    fields,
	})
}
