package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/logger"
)

// currentTaskJQL selects the caller's open issues, most recently touched first.
const currentTaskJQL = "assignee = currentUser() AND statusCategory != Done ORDER BY updated DESC"

// Client queries the Jira REST API with basic auth (email + API token).
type Client struct {
	baseURL    string
	email      string
	token      string
	httpClient *http.Client
}

// New creates a Jira client. baseURL is the site root, e.g.
// "https://example.atlassian.net".
func New(baseURL, email, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		email:      email,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether credentials are present. An unconfigured client
// still satisfies the resolver's interface; lookups just return no title.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.email != "" && c.token != ""
}

// searchResponse is the subset of the search payload this app consumes.
type searchResponse struct {
	Issues []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary     string `json:"summary"`
			Description string `json:"description"`
			Status      struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"fields"`
	} `json:"issues"`
}

// CurrentTaskTitle returns the summary of the caller's most recently updated
// open issue, or ok=false when there is none.
func (c *Client) CurrentTaskTitle(ctx context.Context) (string, bool, error) {
	if !c.Configured() {
		return "", false, nil
	}

	q := url.Values{}
	q.Set("jql", currentTaskJQL)
	q.Set("maxResults", "1")
	q.Set("fields", "summary,description,status")
	searchURL := fmt.Sprintf("%s/rest/api/2/search?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("jira request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("reading jira response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("jira error %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", false, fmt.Errorf("decoding jira response: %w", err)
	}

	if len(result.Issues) == 0 {
		return "", false, nil
	}

	issue := result.Issues[0]
	logger.Debug("resolved current jira task",
		logger.F("key", issue.Key), logger.F("status", issue.Fields.Status.Name))
	return issue.Fields.Summary, true, nil
}
