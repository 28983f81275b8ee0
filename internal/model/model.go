package model

import "time"

// DateLayout is the canonical calendar-day format used everywhere in the app.
// Dates compare by calendar day in the process's local zone, never by instant.
const DateLayout = "2006-01-02"

// TaskAssignment says "from StartDate until superseded, work is described as
// Description under ProjectID". The end date is derived, never stored: one day
// before the next assignment's start date, or today for the most recent one.
type TaskAssignment struct {
	ID          int64     `json:"id"`
	StartDate   string    `json:"start_date"`
	ProjectID   string    `json:"project_id"`
	Description string    `json:"description"`
	EndDate     string    `json:"end_date,omitempty"` // derived, populated on read
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TimeEntryRecord is the app's own record of a time entry it created.
type TimeEntryRecord struct {
	ID              string    `json:"id"`
	RemoteID        string    `json:"remote_id,omitempty"`
	Date            string    `json:"date"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	ProjectID       string    `json:"project_id"`
	WorkspaceID     string    `json:"workspace_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ParseDate parses a canonical YYYY-MM-DD string in the local zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// FormatDate renders a time as a canonical YYYY-MM-DD string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar day in the local zone.
func Today() string {
	return FormatDate(time.Now())
}

// DayBefore returns the calendar day preceding the given YYYY-MM-DD date.
func DayBefore(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, -1)), nil
}

// DateRange returns every calendar day in [from, to] inclusive, ascending.
func DateRange(from, to time.Time) []string {
	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDate(d))
	}
	return days
}
