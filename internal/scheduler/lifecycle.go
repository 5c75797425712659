package scheduler

import (
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
)

// DueSet partitions a tray's unresolved events relative to one day.
type DueSet struct {
	ElapsedDays int
	Today       []TimelineEvent
	Overdue     []TimelineEvent
}

// DueEvents answers "what does this tray need on asOf". Today holds the
// events scheduled exactly on the tray's elapsed day; Overdue holds earlier
// events that have no completion or skip mark. Pre-sow events are never
// due on a tray. Terminal trays have nothing due.
func DueEvents(tl *Timeline, tray *domain.Tray, resolved map[domain.EventKey]bool, asOf time.Time) DueSet {
	elapsed := tray.ElapsedDays(asOf)
	set := DueSet{ElapsedDays: elapsed}
	if tray.LossState != domain.TrayActive || elapsed < 0 {
		return set
	}
	for _, e := range tl.Events {
		if e.DayOffset < 0 || e.DayOffset > elapsed {
			continue
		}
		if resolved[e.Key()] {
			continue
		}
		if e.DayOffset == elapsed {
			set.Today = append(set.Today, e)
		} else {
			set.Overdue = append(set.Overdue, e)
		}
	}
	return set
}

// ResolvedSet indexes marks by event key.
func ResolvedSet(marks []domain.EventMark) map[domain.EventKey]bool {
	out := make(map[domain.EventKey]bool, len(marks))
	for _, m := range marks {
		out[m.Key()] = true
	}
	return out
}

// ReadyDate is the date a tray sown on sowDate reaches harvest.
func ReadyDate(tl *Timeline, sowDate time.Time) time.Time {
	return domain.AddDays(sowDate, tl.TotalDays)
}
