package domain

import (
	"fmt"
	"time"
)

// Tray is one physical batch tracked from sowing to harvest or loss. Rows
// are never deleted; harvested and lost are terminal.
type Tray struct {
	ID               string
	FarmID           string
	RecipeID         string
	SowDate          time.Time
	LossState        LossState
	LossReason       *LossReason
	LossNote         string
	CustomerID       *string
	YieldGrams       *float64
	SeedingRequestID *string
	Location         string
	HarvestedOn      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTerminal reports whether the tray can no longer change state.
func (t *Tray) IsTerminal() bool {
	return t.LossState == TrayHarvested || t.LossState == TrayLost
}

// ElapsedDays is the number of calendar days since sowing as of the given date.
func (t *Tray) ElapsedDays(asOf time.Time) int {
	return DaysBetween(t.SowDate, asOf)
}

// MarkHarvested moves an active tray to harvested, recording its yield.
func (t *Tray) MarkHarvested(yieldGrams float64, on time.Time, now time.Time) error {
	if t.LossState != TrayActive {
		return fmt.Errorf("harvesting tray in state %s: %w", t.LossState, ErrTrayNotActive)
	}
	if yieldGrams < 0 {
		return fmt.Errorf("yield %.1f g is negative: %w", yieldGrams, ErrYieldRequired)
	}
	d := DateOf(on)
	t.LossState = TrayHarvested
	t.YieldGrams = &yieldGrams
	t.HarvestedOn = &d
	t.UpdatedAt = now
	return nil
}

// MarkLost moves an active tray to lost. The reason is mandatory.
func (t *Tray) MarkLost(reason LossReason, note string, now time.Time) error {
	if !ValidLossReasons[reason] {
		return fmt.Errorf("loss reason %q: %w", reason, ErrInvalidLossReason)
	}
	if t.LossState != TrayActive {
		return fmt.Errorf("marking tray lost in state %s: %w", t.LossState, ErrTrayNotActive)
	}
	t.LossState = TrayLost
	t.LossReason = &reason
	t.LossNote = note
	t.UpdatedAt = now
	return nil
}

// EventMark records that a timeline event was completed or skipped for a tray.
type EventMark struct {
	TrayID     string
	DayOffset  int
	Kind       EventKind
	Resolution Resolution
	Note       string
	ResolvedAt time.Time
}

// EventKey identifies a timeline event within one recipe.
type EventKey struct {
	DayOffset int
	Kind      EventKind
}

func (k EventKey) String() string {
	return fmt.Sprintf("day %d %s", k.DayOffset, k.Kind)
}

// Key returns the mark's event key.
func (m EventMark) Key() EventKey {
	return EventKey{DayOffset: m.DayOffset, Kind: m.Kind}
}
