package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/trayflow/internal/contract"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// TrayAgenda is everything needed to compute one tray's tasks.
type TrayAgenda struct {
	Tray     *domain.Tray
	Recipe   *domain.Recipe
	Timeline *Timeline
	Resolved map[domain.EventKey]bool
}

// RequestAgenda is a pending seeding request and its recipe.
type RequestAgenda struct {
	Request  *domain.SeedingRequest
	Recipe   *domain.Recipe
	Timeline *Timeline
}

// DayInput is a farm's active trays and pending requests for one day.
type DayInput struct {
	FarmID   string
	Date     time.Time
	Trays    []TrayAgenda
	Requests []RequestAgenda
}

// ClassifyUrgency tags a task. Overdue work is always overdue; a harvest on
// or past the recipe's last growing day is urgent.
func ClassifyUrgency(overdue bool, kind domain.EventKind, tl *Timeline, elapsed int) domain.Urgency {
	if overdue {
		return domain.UrgencyOverdue
	}
	if kind == domain.EventHarvest && tl != nil && tl.HasGrowing && elapsed >= tl.LastGrowingDay {
		return domain.UrgencyUrgent
	}
	return domain.UrgencyNormal
}

// AggregateDay builds the day's task list for a farm. It has no side effects.
func AggregateDay(in DayInput) contract.TodayResponse {
	date := domain.DateOf(in.Date)
	resp := contract.TodayResponse{FarmID: in.FarmID, Date: date}
	byBucket := make(map[domain.TaskBucket][]contract.Task)

	add := func(t contract.Task) {
		resp.TotalCount++
		if t.Urgency != domain.UrgencyNormal {
			resp.UrgentCount++
		}
		if t.Urgency == domain.UrgencyOverdue {
			resp.OverdueCount++
			resp.Overdue = append(resp.Overdue, t)
			return
		}
		byBucket[t.Bucket] = append(byBucket[t.Bucket], t)
	}

	for _, a := range in.Trays {
		due := DueEvents(a.Timeline, a.Tray, a.Resolved, date)
		for _, e := range due.Today {
			add(trayTask(a, e, date, ClassifyUrgency(false, e.Kind, a.Timeline, due.ElapsedDays)))
		}
		for _, e := range due.Overdue {
			add(trayTask(a, e, domain.AddDays(a.Tray.SowDate, e.DayOffset), domain.UrgencyOverdue))
		}
	}

	for _, a := range in.Requests {
		for _, t := range requestTasks(a, date) {
			add(t)
		}
	}

	for _, b := range domain.BucketOrder {
		tasks := byBucket[b]
		sortTasks(tasks)
		resp.Groups = append(resp.Groups, contract.TaskGroup{Bucket: b, Tasks: tasks})
	}
	sortTasks(resp.Overdue)
	return resp
}

func trayTask(a TrayAgenda, e TimelineEvent, due time.Time, urgency domain.Urgency) contract.Task {
	p := contract.TaskPayload{
		Quantity:    1,
		Location:    a.Tray.Location,
		RecipeID:    a.Tray.RecipeID,
		CustomerID:  a.Tray.CustomerID,
		Water:       e.Water,
		WeightGrams: e.WeightGrams,
		Label:       e.Label,
	}
	if a.Recipe != nil {
		p.Variety = a.Recipe.Variety
		p.RecipeName = a.Recipe.DisplayName()
	}
	return contract.Task{
		Source:    domain.TaskFromTray,
		SourceID:  a.Tray.ID,
		Kind:      e.Kind,
		Bucket:    e.Kind.Bucket(),
		DayOffset: e.DayOffset,
		DueDate:   due,
		Urgency:   urgency,
		Payload:   p,
	}
}

// requestTasks emits the seed task of a pending request once its seed date
// has arrived, and its soak task once the soak date has arrived and the
// seeds are not soaked yet.
func requestTasks(a RequestAgenda, date time.Time) []contract.Task {
	r := a.Request
	if r.Status != domain.SeedingPending {
		return nil
	}
	base := contract.TaskPayload{
		Quantity:   r.Quantity,
		RecipeID:   r.RecipeID,
		CustomerID: r.CustomerID,
	}
	if a.Recipe != nil {
		base.Variety = a.Recipe.Variety
		base.RecipeName = a.Recipe.DisplayName()
	}

	var out []contract.Task
	seedDate := domain.DateOf(r.SeedDate)

	if a.Timeline != nil && r.SoakedAt == nil {
		if off, ok := a.Timeline.SoakOffset(); ok {
			soakDate := domain.AddDays(seedDate, off)
			if !soakDate.After(date) {
				p := base
				if e, found := a.Timeline.Lookup(domain.EventKey{DayOffset: off, Kind: domain.EventSoak}); found {
					p.Label = e.Label
				}
				out = append(out, contract.Task{
					Source:    domain.TaskFromRequest,
					SourceID:  r.ID,
					Kind:      domain.EventSoak,
					Bucket:    domain.BucketSoak,
					DayOffset: off,
					DueDate:   soakDate,
					Urgency:   ClassifyUrgency(soakDate.Before(date), domain.EventSoak, a.Timeline, 0),
					Payload:   p,
				})
			}
		}
	}

	if !seedDate.After(date) {
		p := base
		p.Label = "sow"
		out = append(out, contract.Task{
			Source:   domain.TaskFromRequest,
			SourceID: r.ID,
			Kind:     domain.EventSeed,
			Bucket:   domain.BucketSeed,
			DueDate:  seedDate,
			Urgency:  ClassifyUrgency(seedDate.Before(date), domain.EventSeed, a.Timeline, 0),
			Payload:  p,
		})
	}
	return out
}

func urgencyRank(u domain.Urgency) int {
	switch u {
	case domain.UrgencyOverdue:
		return 0
	case domain.UrgencyUrgent:
		return 1
	default:
		return 2
	}
}

func bucketRank(b domain.TaskBucket) int {
	for i, x := range domain.BucketOrder {
		if x == b {
			return i
		}
	}
	return len(domain.BucketOrder)
}

func sortTasks(tasks []contract.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ua, ub := urgencyRank(a.Urgency), urgencyRank(b.Urgency); ua != ub {
			return ua < ub
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if ba, bb := bucketRank(a.Bucket), bucketRank(b.Bucket); ba != bb {
			return ba < bb
		}
		if a.Payload.Location != b.Payload.Location {
			return a.Payload.Location < b.Payload.Location
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		if a.DayOffset != b.DayOffset {
			return a.DayOffset < b.DayOffset
		}
		return a.Kind.Rank() < b.Kind.Rank()
	})
}
