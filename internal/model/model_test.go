package model

import (
	"testing"
	"time"
)

func TestDayBefore(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2025-01-02", "2025-01-01"},
		{"2025-03-01", "2025-02-28"},
		{"2024-03-01", "2024-02-29"}, // leap year
		{"2025-01-01", "2024-12-31"},
	}
	for _, tc := range cases {
		got, err := DayBefore(tc.date)
		if err != nil {
			t.Fatalf("DayBefore(%s): %v", tc.date, err)
		}
		if got != tc.want {
			t.Errorf("DayBefore(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}

	if _, err := DayBefore("01/02/2025"); err == nil {
		t.Error("expected error for non-canonical date")
	}
}

func TestDateRange(t *testing.T) {
	from, _ := ParseDate("2025-01-30")
	to, _ := ParseDate("2025-02-02")

	got := DateRange(from, to)
	want := []string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"}
	if len(got) != len(want) {
		t.Fatalf("DateRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DateRange[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// A single-day range contains exactly that day.
	single := DateRange(from, from)
	if len(single) != 1 || single[0] != "2025-01-30" {
		t.Errorf("single-day range = %v", single)
	}

	// An inverted range is empty.
	if r := DateRange(to, from); len(r) != 0 {
		t.Errorf("inverted range = %v, want empty", r)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	day, err := ParseDate("2025-08-23")
	if err != nil {
		t.Fatal(err)
	}
	if day.Location() != time.Local {
		t.Error("dates must parse in the local zone")
	}
	if FormatDate(day) != "2025-08-23" {
		t.Errorf("round trip = %s", FormatDate(day))
	}
}
