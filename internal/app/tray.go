package app

import (
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
)

// CompleteRequest resolves one event as done. HarvestedOn is the civil
// harvest date in the farm's zone and defaults to the date of Now.
type CompleteRequest struct {
	TrayID      string
	DayOffset   int
	Kind        domain.EventKind
	YieldGrams  *float64
	HarvestedOn *time.Time
	Note        string
	Now         *time.Time
}

type SkipRequest struct {
	TrayID    string
	DayOffset int
	Kind      domain.EventKind
	Note      string
	Now       *time.Time
}

type DueEvent struct {
	DayOffset   int               `json:"day_offset"`
	Kind        domain.EventKind  `json:"kind"`
	DueDate     time.Time         `json:"due_date"`
	Label       string            `json:"label,omitempty"`
	Water       *domain.WaterSpec `json:"water,omitempty"`
	WeightGrams *float64          `json:"weight_grams,omitempty"`
}

type DueResponse struct {
	TrayID      string     `json:"tray_id"`
	AsOf        time.Time  `json:"as_of"`
	ElapsedDays int        `json:"elapsed_days"`
	Today       []DueEvent `json:"today"`
	Overdue     []DueEvent `json:"overdue"`
}

type BatchItemStatus string

const (
	BatchApplied         BatchItemStatus = "applied"
	BatchAlreadyResolved BatchItemStatus = "already_resolved"
	BatchFailed          BatchItemStatus = "failed"
)

type BatchItem struct {
	DayOffset int              `json:"day_offset"`
	Kind      domain.EventKind `json:"kind"`
	Status    BatchItemStatus  `json:"status"`
	Error     string           `json:"error,omitempty"`
}

// BatchResult reports a batch of independent event resolutions. Partial
// success is a normal outcome.
type BatchResult struct {
	TrayID  string      `json:"tray_id"`
	Items   []BatchItem `json:"items"`
	Applied int         `json:"applied"`
}

type TimelineEventView struct {
	DayOffset   int               `json:"day_offset"`
	Kind        domain.EventKind  `json:"kind"`
	Bucket      domain.TaskBucket `json:"bucket"`
	Label       string            `json:"label,omitempty"`
	Water       *domain.WaterSpec `json:"water,omitempty"`
	WeightGrams *float64          `json:"weight_grams,omitempty"`
}

type TimelineView struct {
	RecipeID       string              `json:"recipe_id"`
	RecipeName     string              `json:"recipe_name"`
	TotalDays      int                 `json:"total_days"`
	PreSowDays     int                 `json:"pre_sow_days"`
	HasGrowing     bool                `json:"has_growing"`
	LastGrowingDay int                 `json:"last_growing_day"`
	Events         []TimelineEventView `json:"events"`
}
