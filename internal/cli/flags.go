package cli

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/trayflow/internal/domain"
)

// weekdayFlag parses "mon,wed,fri" into a WeekdaySet.
type weekdayFlag struct {
	set *domain.WeekdaySet
}

var _ pflag.Value = weekdayFlag{}

func newWeekdayFlag(set *domain.WeekdaySet) weekdayFlag {
	return weekdayFlag{set: set}
}

func (f weekdayFlag) String() string {
	if f.set == nil {
		return ""
	}
	return f.set.String()
}

func (f weekdayFlag) Set(s string) error {
	v, err := domain.ParseWeekdaySet(s)
	if err != nil {
		return err
	}
	*f.set = v
	return nil
}

func (weekdayFlag) Type() string { return "weekdays" }

// dateFlag parses YYYY-MM-DD. An unset flag leaves the zero time.
type dateFlag struct {
	t *time.Time
}

var _ pflag.Value = dateFlag{}

func newDateFlag(t *time.Time) dateFlag {
	return dateFlag{t: t}
}

func (f dateFlag) String() string {
	if f.t == nil || f.t.IsZero() {
		return ""
	}
	return domain.FormatDate(*f.t)
}

func (f dateFlag) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*f.t = d
	return nil
}

func (dateFlag) Type() string { return "date" }

// orDate returns t, or def when the flag was not given.
func orDate(t, def time.Time) time.Time {
	if t.IsZero() {
		return def
	}
	return t
}
