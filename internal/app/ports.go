package app

import (
	"context"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
)

type TodayUseCase interface {
	Today(ctx context.Context, req TodayRequest) (*TodayResponse, error)
}

type PlanUseCase interface {
	Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error)
}

type GapsUseCase interface {
	Gaps(ctx context.Context, req GapRequest) (*GapResponse, error)
}

type TrayEventsUseCase interface {
	DueEvents(ctx context.Context, trayID string, asOf time.Time) (*DueResponse, error)
	Complete(ctx context.Context, req CompleteRequest) error
	Skip(ctx context.Context, req SkipRequest) error
	SkipAllOverdue(ctx context.Context, trayID string, asOf time.Time) (*BatchResult, error)
	MarkLost(ctx context.Context, trayID string, reason domain.LossReason, note string) error
}

type RecipeTimelineUseCase interface {
	Timeline(ctx context.Context, recipeID string) (*TimelineView, error)
}

type SeedingUseCase interface {
	Complete(ctx context.Context, req SowRequest) ([]*domain.Tray, error)
	Cancel(ctx context.Context, requestID string) error
	MarkSoaked(ctx context.Context, requestID string, at time.Time) error
}
