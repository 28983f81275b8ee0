package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/mihazs/clockify-auto-fill/internal/model"
)

const (
	defaultBaseURL    = "https://api.clockify.me/api/v1"
	defaultReportsURL = "https://reports.api.clockify.me/v1"

	pageSize = 50
)

// TimeInterval is the remote representation of an entry's span.
type TimeInterval struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"` // ISO 8601, e.g. "PT8H"
}

// TimeEntry is the Clockify representation of a time entry.
type TimeEntry struct {
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	ProjectID    string       `json:"projectId"`
	WorkspaceID  string       `json:"workspaceId"`
	UserID       string       `json:"userId"`
	Billable     bool         `json:"billable"`
	TimeInterval TimeInterval `json:"timeInterval"`
}

// Settings configures a Client.
type Settings struct {
	APIKey           string
	WorkspaceID      string
	ProjectID        string
	DefaultStartTime string // "HH:MM" wall-clock applied when no start is given
	DefaultEndTime   string // "HH:MM"
}

// Client talks to the Clockify API. Construct one per run and pass it
// explicitly; tests substitute a fake via the reconcile package's interfaces.
type Client struct {
	settings   Settings
	baseURL    string
	reportsURL string
	httpClient *http.Client

	// userID is resolved lazily on first use and cached for the client's
	// lifetime. The mutex is held across the first resolution so concurrent
	// callers don't issue duplicate /user requests.
	userMu sync.Mutex
	userID string
}

// New creates a Client against the public Clockify endpoints.
func New(settings Settings) *Client {
	return &Client{
		settings:   settings,
		baseURL:    defaultBaseURL,
		reportsURL: defaultReportsURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ProjectID returns the configured project identifier.
func (c *Client) ProjectID() string { return c.settings.ProjectID }

// WorkspaceID returns the configured workspace identifier.
func (c *Client) WorkspaceID() string { return c.settings.WorkspaceID }

// do executes a request with auth headers and maps non-2xx responses onto the
// error taxonomy. It returns the response body.
func (c *Client) do(ctx context.Context, method, rawURL string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.settings.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("HTTP request", logger.F("method", method), logger.F("url", rawURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransient, Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindTransient, Message: err.Error()}
	}

	logger.Debug("HTTP response", logger.F("status", resp.StatusCode), logger.F("url", rawURL))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: remoteMessage(respBody),
		}
	}

	return respBody, nil
}

// remoteMessage extracts the API's message field, falling back to the raw body.
func remoteMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return string(body)
}

// CurrentUserID resolves and caches the authenticated principal's id.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	c.userMu.Lock()
	defer c.userMu.Unlock()

	if c.userID != "" {
		return c.userID, nil
	}

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return "", fmt.Errorf("resolving current user: %w", err)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("decoding user response: %w", err)
	}
	if user.ID == "" {
		return "", &APIError{Kind: KindTransient, Message: "user response missing id"}
	}

	c.userID = user.ID
	logger.Debug("resolved current user", logger.F("userID", c.userID))
	return c.userID, nil
}

// entriesURL builds the time-entries listing URL for the current user.
func (c *Client) entriesURL(userID string, start, end time.Time) string {
	q := url.Values{}
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	q.Set("page-size", fmt.Sprintf("%d", pageSize))
	return fmt.Sprintf("%s/workspaces/%s/user/%s/time-entries?%s",
		c.baseURL, c.settings.WorkspaceID, userID, q.Encode())
}

// EntriesForRange lists entries whose interval overlaps [start, end].
func (c *Client) EntriesForRange(ctx context.Context, start, end time.Time) ([]TimeEntry, error) {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, c.entriesURL(userID, start, end), nil)
	if err != nil {
		return nil, err
	}

	var entries []TimeEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding time entries: %w", err)
	}
	return entries, nil
}

// HasEntryForDate reports whether at least one entry exists on the calendar day.
func (c *Client) HasEntryForDate(ctx context.Context, date string) (bool, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return false, &APIError{Kind: KindValidation, Message: fmt.Sprintf("bad date %q: %v", date, err)}
	}

	start := day
	end := day.AddDate(0, 0, 1).Add(-time.Second)
	entries, err := c.EntriesForRange(ctx, start, end)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// dayClock applies an "HH:MM" wall-clock time to a calendar day.
func dayClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad wall-clock time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// CreateEntry creates an entry on the given day. Omitted start/end default to
// the configured wall-clock times. Entries are never billable.
//
// A successful create is a durable remote record: callers must not retry a
// create whose outcome is unknown without re-checking existence first.
func (c *Client) CreateEntry(ctx context.Context, description, date string, start, end *time.Time) (*TimeEntry, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Message: fmt.Sprintf("bad date %q: %v", date, err)}
	}

	startAt, endAt := time.Time{}, time.Time{}
	if start != nil {
		startAt = *start
	} else if startAt, err = dayClock(day, c.settings.DefaultStartTime); err != nil {
		return nil, &APIError{Kind: KindValidation, Message: err.Error()}
	}
	if end != nil {
		endAt = *end
	} else if endAt, err = dayClock(day, c.settings.DefaultEndTime); err != nil {
		return nil, &APIError{Kind: KindValidation, Message: err.Error()}
	}

	if !endAt.After(startAt) {
		return nil, &APIError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("end %s is not after start %s", endAt.Format(time.RFC3339), startAt.Format(time.RFC3339)),
		}
	}

	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"start":       startAt.UTC().Format(time.RFC3339),
		"end":         endAt.UTC().Format(time.RFC3339),
		"description": description,
		"projectId":   c.settings.ProjectID,
		"billable":    false,
	}

	createURL := fmt.Sprintf("%s/workspaces/%s/user/%s/time-entries",
		c.baseURL, c.settings.WorkspaceID, userID)
	body, err := c.do(ctx, http.MethodPost, createURL, payload)
	if err != nil {
		return nil, err
	}

	var entry TimeEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decoding created entry: %w", err)
	}

	logger.Info("created time entry",
		logger.F("date", date), logger.F("id", entry.ID), logger.F("description", description))
	return &entry, nil
}

// DeleteEntry removes a remote entry by id.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	deleteURL := fmt.Sprintf("%s/workspaces/%s/time-entries/%s",
		c.baseURL, c.settings.WorkspaceID, id)
	if _, err := c.do(ctx, http.MethodDelete, deleteURL, nil); err != nil {
		return err
	}
	logger.Info("deleted time entry", logger.F("id", id))
	return nil
}

// ReportEntry is one row of a detailed report; duration is in seconds.
type ReportEntry struct {
	Description  string `json:"description"`
	TimeInterval struct {
		Start    time.Time `json:"start"`
		End      time.Time `json:"end"`
		Duration int64     `json:"duration"`
	} `json:"timeInterval"`
}

// detailedReportResponse is the reports endpoint's paged response.
type detailedReportResponse struct {
	TimeEntries []ReportEntry `json:"timeentries"`
}

// DetailedReport fetches entries for [start, end] from the reporting endpoint.
func (c *Client) DetailedReport(ctx context.Context, start, end time.Time) ([]ReportEntry, error) {
	payload := map[string]interface{}{
		"dateRangeStart": start.UTC().Format(time.RFC3339),
		"dateRangeEnd":   end.UTC().Format(time.RFC3339),
		"detailedFilter": map[string]interface{}{
			"page":     1,
			"pageSize": 200,
		},
		"exportType":  "JSON",
		"amountShown": "HIDE_AMOUNT",
	}

	reportURL := fmt.Sprintf("%s/workspaces/%s/reports/detailed", c.reportsURL, c.settings.WorkspaceID)
	body, err := c.do(ctx, http.MethodPost, reportURL, payload)
	if err != nil {
		return nil, err
	}

	var resp detailedReportResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding detailed report: %w", err)
	}
	return resp.TimeEntries, nil
}
