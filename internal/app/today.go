package app

import (
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
)

type TodayRequest struct {
	FarmID string
	Date   time.Time
}

type TaskPayload struct {
	Quantity    int               `json:"quantity"`
	Location    string            `json:"location,omitempty"`
	Variety     string            `json:"variety,omitempty"`
	RecipeID    string            `json:"recipe_id"`
	RecipeName  string            `json:"recipe_name,omitempty"`
	CustomerID  *string           `json:"customer_id,omitempty"`
	Water       *domain.WaterSpec `json:"water,omitempty"`
	WeightGrams *float64          `json:"weight_grams,omitempty"`
	Label       string            `json:"label,omitempty"`
}

// Task is computed on every query from tray and seeding request state. It
// is never stored.
type Task struct {
	Source    domain.TaskSource `json:"source"`
	SourceID  string            `json:"source_id"`
	Kind      domain.EventKind  `json:"kind"`
	Bucket    domain.TaskBucket `json:"bucket"`
	DayOffset int               `json:"day_offset"`
	DueDate   time.Time         `json:"due_date"`
	Urgency   domain.Urgency    `json:"urgency"`
	Payload   TaskPayload       `json:"payload"`
}

type TaskGroup struct {
	Bucket domain.TaskBucket `json:"bucket"`
	Tasks  []Task            `json:"tasks"`
}

type TodayResponse struct {
	FarmID       string      `json:"farm_id"`
	Date         time.Time   `json:"date"`
	Groups       []TaskGroup `json:"groups"`
	Overdue      []Task      `json:"overdue"`
	TotalCount   int         `json:"total_count"`
	UrgentCount  int         `json:"urgent_count"`
	OverdueCount int         `json:"overdue_count"`
}

// Group returns the tasks of one bucket.
func (r *TodayResponse) Group(b domain.TaskBucket) []Task {
	for _, g := range r.Groups {
		if g.Bucket == b {
			return g.Tasks
		}
	}
	return nil
}
