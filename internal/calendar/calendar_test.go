package calendar

import (
	"errors"
	"testing"
	"time"
)

// fakeHolidays is a deterministic holiday source for tests.
type fakeHolidays struct {
	days map[string]string // date -> holiday name
	err  error
}

func (f *fakeHolidays) Holiday(date time.Time) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	name, ok := f.days[date.Format("2006-01-02")]
	return name, ok, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsBusinessDay(t *testing.T) {
	c := NewClassifier(&fakeHolidays{days: map[string]string{
		"2025-01-01": "New Year's Day",
	}})

	cases := []struct {
		date string
		want bool
	}{
		{"2025-01-06", true},  // Monday
		{"2025-01-10", true},  // Friday
		{"2025-01-04", false}, // Saturday
		{"2025-01-05", false}, // Sunday
		{"2025-01-01", false}, // Wednesday, holiday
	}
	for _, tc := range cases {
		if got := c.IsBusinessDay(day(tc.date)); got != tc.want {
			t.Errorf("IsBusinessDay(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestSkipReason(t *testing.T) {
	c := NewClassifier(&fakeHolidays{days: map[string]string{
		"2025-01-01": "New Year's Day",
		"2025-01-04": "Some Saturday Holiday",
	}})

	if reason, skip := c.SkipReason(day("2025-01-05")); !skip || reason != "Weekend" {
		t.Errorf("SkipReason(Sunday) = %q, %v; want Weekend, true", reason, skip)
	}

	// Weekend wins over holiday status; the weekday check runs first.
	if reason, skip := c.SkipReason(day("2025-01-04")); !skip || reason != "Weekend" {
		t.Errorf("SkipReason(Saturday holiday) = %q, %v; want Weekend, true", reason, skip)
	}

	if reason, skip := c.SkipReason(day("2025-01-01")); !skip || reason != "Holiday: New Year's Day" {
		t.Errorf("SkipReason(holiday) = %q, %v", reason, skip)
	}

	if reason, skip := c.SkipReason(day("2025-01-06")); skip {
		t.Errorf("SkipReason(Monday) = %q, %v; want not skipped", reason, skip)
	}
}

func TestHolidayLookupErrorSwallowed(t *testing.T) {
	c := NewClassifier(&fakeHolidays{err: errors.New("calendar data unavailable")})

	// A failing lookup must treat the day as a regular business day.
	if !c.IsBusinessDay(day("2025-01-06")) {
		t.Error("IsBusinessDay should treat lookup errors as non-holidays")
	}
	if reason, skip := c.SkipReason(day("2025-01-06")); skip {
		t.Errorf("SkipReason should not skip on lookup error, got %q", reason)
	}
}

func TestLastBusinessDayOfMonth(t *testing.T) {
	// 2025-08-31 is a Sunday, 2025-08-30 a Saturday.
	c := NewClassifier(&fakeHolidays{days: map[string]string{}})
	got := c.LastBusinessDayOfMonth(day("2025-08-10"))
	if got.Format("2006-01-02") != "2025-08-29" {
		t.Errorf("LastBusinessDayOfMonth(2025-08) = %s, want 2025-08-29", got.Format("2006-01-02"))
	}

	// A holiday on the last weekday pushes the result back one more day.
	c = NewClassifier(&fakeHolidays{days: map[string]string{
		"2025-08-29": "Some Holiday",
	}})
	got = c.LastBusinessDayOfMonth(day("2025-08-10"))
	if got.Format("2006-01-02") != "2025-08-28" {
		t.Errorf("LastBusinessDayOfMonth with holiday = %s, want 2025-08-28", got.Format("2006-01-02"))
	}
}

func TestRegionSourceKnowsFixedHolidays(t *testing.T) {
	src := NewRegionSource("BR")
	name, ok, err := src.Holiday(day("2025-05-01")) // Labour Day
	if err != nil {
		t.Fatalf("Holiday: %v", err)
	}
	if !ok || name == "" {
		t.Errorf("expected 2025-05-01 to be a BR holiday, got ok=%v name=%q", ok, name)
	}

	_, ok, err = src.Holiday(day("2025-05-06"))
	if err != nil {
		t.Fatalf("Holiday: %v", err)
	}
	if ok {
		t.Error("2025-05-06 should not be a holiday")
	}
}
