package planmill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Afrawles/planbudget/internal/config"
	"github.com/Afrawles/planbudget/internal/report"
	"golang.org/x/time/rate"
)

const (
	tokenPath       = "api/oauth2/token"
	timeReportsPath = "api/1.5/timereports"

	currencyHeader = "x-PlanMill-Currency"
	performerField = "Assignment.PersonId"
)

var (
	ErrUnauthorized  = errors.New("unable to get access token")
	ErrFilterMissing = errors.New("performer filter missing from task metadata")
)

type Client struct {
	cfg        config.APIConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

func NewClient(cfg config.APIConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type apiTask struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TasksMeta struct {
	Filters []Filter `json:"filters"`
}

// Filter is one filter of the task metadata. Values is keyed by the filtered id.
type Filter struct {
	Name   string                     `json:"name"`
	Values map[string]json.RawMessage `json:"values"`
}

// AccessToken exchanges the client credentials for a bearer token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	params := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"client_credentials"},
	}

	var result tokenResponse
	if err := c.get(ctx, tokenPath, params, "", &result); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}
	return result.AccessToken, nil
}

func (c *Client) ProjectTasks(ctx context.Context, token string) ([]report.Task, error) {
	var raw []apiTask
	if err := c.get(ctx, c.projectPath("tasks"), nil, token, &raw); err != nil {
		return nil, err
	}

	tasks := make([]report.Task, 0, len(raw))
	for _, t := range raw {
		tasks = append(tasks, report.Task{ID: t.ID, Name: t.Name})
	}
	return tasks, nil
}

func (c *Client) TasksMeta(ctx context.Context, token string) (*TasksMeta, error) {
	var meta TasksMeta
	if err := c.get(ctx, c.projectPath("tasks/meta"), nil, token, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ProjectPerformers lists the ids of people assigned to the project's tasks.
func (c *Client) ProjectPerformers(ctx context.Context, token string) ([]int, error) {
	meta, err := c.TasksMeta(ctx, token)
	if err != nil {
		return nil, err
	}
	for _, f := range meta.Filters {
		if f.Name == performerField {
			return PerformerIDs(f.Values), nil
		}
	}
	return nil, ErrFilterMissing
}

// HoursPerPerson fetches the person's billable time reports for the project
// over the trailing window. The server silently truncates at RowCount rows.
func (c *Client) HoursPerPerson(ctx context.Context, personID int, token string) ([]report.TimeReport, error) {
	start := c.now().AddDate(0, 0, -c.cfg.WindowDays).UTC()
	params := url.Values{
		"projectfilter":  {c.cfg.ProjectID},
		"person":         {strconv.Itoa(personID)},
		"billableStatus": {c.cfg.BillableStatus},
		"intervalstart":  {start.Format("2006-01-02T15:04:05.000Z")},
		"rowcount":       {strconv.Itoa(c.cfg.RowCount)},
	}

	var reports []report.TimeReport
	if err := c.get(ctx, timeReportsPath, params, token, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, token string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := strings.TrimRight(c.cfg.Host, "/") + "/" + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(currencyHeader, c.cfg.Currency)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) projectPath(suffix string) string {
	return fmt.Sprintf("api/1.5/projects/%s/%s", url.PathEscape(c.cfg.ProjectID), suffix)
}
