package calendar

import (
	"fmt"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/br"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"
)

// HolidaySource reports whether a date is a public holiday.
type HolidaySource interface {
	Holiday(date time.Time) (name string, ok bool, err error)
}

// RegionSource resolves holidays from a fixed regional calendar.
type RegionSource struct {
	cal *cal.Calendar
}

// NewRegionSource builds a holiday source for the given region code.
// Unknown regions fall back to BR.
func NewRegionSource(region string) *RegionSource {
	c := &cal.Calendar{Name: region, Cacheable: true}
	switch region {
	case "US":
		c.AddHoliday(us.Holidays...)
	case "GB":
		c.AddHoliday(gb.Holidays...)
	case "DE":
		c.AddHoliday(de.Holidays...)
	default:
		c.AddHoliday(br.Holidays...)
	}
	return &RegionSource{cal: c}
}

// Holiday implements HolidaySource.
func (s *RegionSource) Holiday(date time.Time) (string, bool, error) {
	actual, observed, h := s.cal.IsHoliday(date)
	if (actual || observed) && h != nil {
		return h.Name, true, nil
	}
	return "", false, nil
}

// Classifier decides whether a date is a working day.
type Classifier struct {
	holidays HolidaySource
}

// NewClassifier creates a classifier over the given holiday source.
func NewClassifier(src HolidaySource) *Classifier {
	return &Classifier{holidays: src}
}

// isHoliday wraps the source lookup. A lookup error counts as "not a holiday":
// a false-include costs one redundant existence check, a false-skip loses a day.
func (c *Classifier) isHoliday(date time.Time) (string, bool) {
	name, ok, err := c.holidays.Holiday(date)
	if err != nil {
		logger.Debug("holiday lookup failed, treating as regular day",
			logger.F("date", date.Format("2006-01-02")), logger.F("error", err))
		return "", false
	}
	return name, ok
}

// IsBusinessDay reports whether the date is a weekday and not a holiday.
func (c *Classifier) IsBusinessDay(date time.Time) bool {
	if isWeekend(date) {
		return false
	}
	_, holiday := c.isHoliday(date)
	return !holiday
}

// SkipReason returns why the date is not a working day, or ok=false if it is
// one. The weekday check runs first, independent of holiday status.
func (c *Classifier) SkipReason(date time.Time) (string, bool) {
	if isWeekend(date) {
		return "Weekend", true
	}
	if name, holiday := c.isHoliday(date); holiday {
		return fmt.Sprintf("Holiday: %s", name), true
	}
	return "", false
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// LastBusinessDayOfMonth returns the final working day of the month containing
// the given date.
func (c *Classifier) LastBusinessDayOfMonth(date time.Time) time.Time {
	// Last calendar day of the month, then walk backwards.
	d := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).
		AddDate(0, 1, -1)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
