package planmill

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/Afrawles/planbudget/internal/report"
)

// PlanMillSource serves report.Source with a token obtained up front.
type PlanMillSource struct {
	Client *Client
	token  string
}

func NewPlanMillSource(client *Client, token string) *PlanMillSource {
	return &PlanMillSource{Client: client, token: token}
}

var _ report.Source = (*PlanMillSource)(nil)

// Connect authenticates and returns a source bound to the new token.
func (c *Client) Connect(ctx context.Context) (report.Source, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return NewPlanMillSource(c, token), nil
}

func (p *PlanMillSource) Name() string {
	return "PlanMill"
}

func (p *PlanMillSource) Tasks(ctx context.Context) ([]report.Task, error) {
	return p.Client.ProjectTasks(ctx, p.token)
}

func (p *PlanMillSource) Performers(ctx context.Context) ([]int, error) {
	return p.Client.ProjectPerformers(ctx, p.token)
}

func (p *PlanMillSource) TimeReports(ctx context.Context, personID int) ([]report.TimeReport, error) {
	return p.Client.HoursPerPerson(ctx, personID, p.token)
}

// PerformerIDs keeps the strictly positive integer keys of values. Zero and
// negative ids are placeholder buckets, not people.
func PerformerIDs(values map[string]json.RawMessage) []int {
	ids := []int{}
	seen := make(map[int]bool, len(values))
	for key := range values {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
