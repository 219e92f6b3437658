package report

import (
	"errors"
	"fmt"
	"math"
)

const (
	MinutesPerHour = 60.0
	HoursPerDay    = 8.0
)

var ErrMalformedReport = errors.New("malformed time report")

// Totals is the billable amount and hours for one performer or for everyone.
type Totals struct {
	BillableAmount float64 `json:"billableAmount"`
	Hours          float64 `json:"hours"`
}

type Result struct {
	BillableAmount float64  `json:"billableAmount"`
	TotalHours     float64  `json:"totalHours"`
	People         []Totals `json:"people"`
}

// Days converts the total hours into working days.
func (r Result) Days() float64 {
	return r.TotalHours / HoursPerDay
}

// Aggregate reduces each performer's time reports to the billable amount and
// hours spent on taskID. People is aligned with markingsByPerson.
func Aggregate(markingsByPerson [][]TimeReport, taskID int) (Result, error) {
	result := Result{People: make([]Totals, len(markingsByPerson))}

	for i, markings := range markingsByPerson {
		filtered := FilterByTask(markings, taskID)

		amount, err := billableAmount(filtered)
		if err != nil {
			return Result{}, err
		}

		person := Totals{BillableAmount: amount, Hours: hours(filtered)}
		result.People[i] = person
		result.BillableAmount += person.BillableAmount
		result.TotalHours += person.Hours
	}

	return result, nil
}

// FilterByTask keeps the reports booked on taskID.
func FilterByTask(reports []TimeReport, taskID int) []TimeReport {
	var filtered []TimeReport
	for _, r := range reports {
		if r.Task == taskID {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func billableAmount(reports []TimeReport) (float64, error) {
	total := 0.0
	for _, r := range reports {
		if r.missing != "" {
			return 0, fmt.Errorf("%w: report %d has no %s", ErrMalformedReport, r.ID, r.missing)
		}
		if !finite(r.Amount) || !finite(r.UnitPrice) {
			return 0, fmt.Errorf("%w: report %d has amount %v and unit price %v", ErrMalformedReport, r.ID, r.Amount, r.UnitPrice)
		}
		total += r.Amount / MinutesPerHour * r.UnitPrice
	}
	return total, nil
}

func hours(reports []TimeReport) float64 {
	total := 0.0
	for _, r := range reports {
		total += r.Amount / MinutesPerHour
	}
	return total
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
