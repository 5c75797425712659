package domain

import (
	"fmt"
	"strings"
	"time"
)

// WeekdaySet is a bitmask of weekdays, bit i set for time.Weekday(i).
type WeekdaySet uint8

// AllWeekdays allows every day of the week.
const AllWeekdays WeekdaySet = 0x7f

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// ParseWeekdaySet parses a comma separated list such as "mon,wed,fri".
// Full English names are accepted as well.
func ParseWeekdaySet(s string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, part := range strings.Split(s, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		if len(p) > 3 {
			p = p[:3]
		}
		d, ok := weekdayNames[p]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", strings.TrimSpace(part))
		}
		set |= 1 << uint(d)
	}
	return set, nil
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Empty() bool {
	return s&AllWeekdays == 0
}

// Days returns the members in Sunday-first order.
func (s WeekdaySet) Days() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String renders the set as "mon,wed,fri" in Monday-first order.
func (s WeekdaySet) String() string {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	var parts []string
	for _, d := range order {
		if s.Has(d) {
			parts = append(parts, strings.ToLower(d.String()[:3]))
		}
	}
	return strings.Join(parts, ",")
}
