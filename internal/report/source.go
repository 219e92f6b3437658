package report

import (
	"context"
	"encoding/json"
	"strings"
)

// TimeReport is one recorded time entry. Amount is in minutes, UnitPrice per hour.
type TimeReport struct {
	ID             int     `json:"id"`
	Task           int     `json:"task"`
	Person         int     `json:"person"`
	Amount         float64 `json:"amount"`
	UnitPrice      float64 `json:"unitPrice"`
	BillableStatus int     `json:"billableStatus"`

	// missing names the numeric fields absent or null in the decoded record.
	missing string
}

func (r *TimeReport) UnmarshalJSON(data []byte) error {
	type plain TimeReport
	var raw struct {
		plain
		Amount    *float64 `json:"amount"`
		UnitPrice *float64 `json:"unitPrice"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = TimeReport(raw.plain)
	var missing []string
	if raw.Amount != nil {
		r.Amount = *raw.Amount
	} else {
		missing = append(missing, "amount")
	}
	if raw.UnitPrice != nil {
		r.UnitPrice = *raw.UnitPrice
	} else {
		missing = append(missing, "unitPrice")
	}
	r.missing = strings.Join(missing, ", ")
	return nil
}

type Task struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Source is the project-management API as seen by the generator.
type Source interface {
	Name() string
	Tasks(ctx context.Context) ([]Task, error)
	Performers(ctx context.Context) ([]int, error)
	TimeReports(ctx context.Context, personID int) ([]TimeReport, error)
}
