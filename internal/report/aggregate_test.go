package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SinglePerformer(t *testing.T) {
	markings := [][]TimeReport{{
		{Task: 5, Amount: 120, UnitPrice: 50},
		{Task: 5, Amount: 60, UnitPrice: 50},
		{Task: 7, Amount: 30, UnitPrice: 100},
	}}

	res, err := Aggregate(markings, 5)

	require.NoError(t, err)
	assert.InDelta(t, 150.0, res.BillableAmount, 1e-9)
	assert.InDelta(t, 3.0, res.TotalHours, 1e-9)
	require.Len(t, res.People, 1)
	assert.InDelta(t, 3.0, res.People[0].Hours, 1e-9)
}

func TestAggregate_PerformerWithoutMatchingReports(t *testing.T) {
	markings := [][]TimeReport{
		{{Task: 9, Amount: 240, UnitPrice: 80}},
		{{Task: 5, Amount: 600, UnitPrice: 20}},
	}

	res, err := Aggregate(markings, 5)

	require.NoError(t, err)
	assert.InDelta(t, 200.0, res.BillableAmount, 1e-9)
	assert.InDelta(t, 10.0, res.TotalHours, 1e-9)
	assert.InDelta(t, 1.25, res.Days(), 1e-9)
	assert.Equal(t, Totals{}, res.People[0])
	assert.Equal(t, Totals{BillableAmount: 200, Hours: 10}, res.People[1])
}

func TestAggregate_NoMatchingTask(t *testing.T) {
	markings := [][]TimeReport{
		{{Task: 1, Amount: 60, UnitPrice: 10}, {Task: 2, Amount: 30, UnitPrice: 10}},
		{{Task: 3, Amount: 90, UnitPrice: 10}},
	}

	res, err := Aggregate(markings, 4)

	require.NoError(t, err)
	assert.Zero(t, res.BillableAmount)
	assert.Zero(t, res.TotalHours)
}

func TestAggregate_EmptyInput(t *testing.T) {
	for name, markings := range map[string][][]TimeReport{
		"nil":                 nil,
		"no performers":       {},
		"performers no rows":  {{}, {}},
		"performers nil rows": {nil},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := Aggregate(markings, 5)
			require.NoError(t, err)
			assert.Zero(t, res.BillableAmount)
			assert.Zero(t, res.TotalHours)
			assert.Zero(t, res.Days())
		})
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := TimeReport{Task: 5, Amount: 45, UnitPrice: 70}
	b := TimeReport{Task: 5, Amount: 135, UnitPrice: 85.5}
	c := TimeReport{Task: 5, Amount: 20, UnitPrice: 40}
	d := TimeReport{Task: 6, Amount: 600, UnitPrice: 100}

	first, err := Aggregate([][]TimeReport{{a, b, d}, {c}}, 5)
	require.NoError(t, err)
	second, err := Aggregate([][]TimeReport{{c}, {d, b, a}}, 5)
	require.NoError(t, err)

	assert.InDelta(t, first.BillableAmount, second.BillableAmount, 1e-9)
	assert.InDelta(t, first.TotalHours, second.TotalHours, 1e-9)
}

func TestAggregate_Contribution(t *testing.T) {
	r := TimeReport{Task: 11, Amount: 95, UnitPrice: 64}

	res, err := Aggregate([][]TimeReport{{r}}, 11)

	require.NoError(t, err)
	assert.InDelta(t, r.Amount/60, res.TotalHours, 1e-9)
	assert.InDelta(t, r.Amount/60*r.UnitPrice, res.BillableAmount, 1e-9)
}

func TestAggregate_MalformedReport(t *testing.T) {
	markings := [][]TimeReport{{
		{ID: 3, Task: 5, Amount: 60, UnitPrice: math.NaN()},
	}}

	_, err := Aggregate(markings, 5)

	assert.ErrorIs(t, err, ErrMalformedReport)
}

func TestAggregate_MissingNumericFields(t *testing.T) {
	for name, body := range map[string]string{
		"no unit price":   `[{"id":1,"task":5,"amount":600},{"id":2,"task":5,"amount":60,"unitPrice":50}]`,
		"null unit price": `[{"id":2,"task":5,"unitPrice":null,"amount":60}]`,
		"no amount":       `[{"id":3,"task":5,"unitPrice":50}]`,
	} {
		t.Run(name, func(t *testing.T) {
			var reports []TimeReport
			require.NoError(t, json.Unmarshal([]byte(body), &reports))

			_, err := Aggregate([][]TimeReport{reports}, 5)

			assert.ErrorIs(t, err, ErrMalformedReport)
		})
	}
}

func TestAggregate_MissingFieldsOnOtherTaskIgnored(t *testing.T) {
	var reports []TimeReport
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":1,"task":7,"amount":30},
		{"id":2,"task":5,"amount":120,"unitPrice":50}
	]`), &reports))

	res, err := Aggregate([][]TimeReport{reports}, 5)

	require.NoError(t, err)
	assert.InDelta(t, 100.0, res.BillableAmount, 1e-9)
	assert.InDelta(t, 2.0, res.TotalHours, 1e-9)
}

func TestTimeReport_UnmarshalJSON(t *testing.T) {
	var r TimeReport
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"task":5,"person":42,"amount":90,"unitPrice":0,"billableStatus":6}`), &r))

	assert.Equal(t, TimeReport{ID: 4, Task: 5, Person: 42, Amount: 90, BillableStatus: 6}, r)
}

func TestAggregate_MalformedReportOnOtherTaskIgnored(t *testing.T) {
	markings := [][]TimeReport{{
		{Task: 6, Amount: math.Inf(1), UnitPrice: 10},
		{Task: 5, Amount: 60, UnitPrice: 10},
	}}

	res, err := Aggregate(markings, 5)

	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.BillableAmount, 1e-9)
}

func TestFilterByTask(t *testing.T) {
	reports := []TimeReport{{ID: 1, Task: 5}, {ID: 2, Task: 6}, {ID: 3, Task: 5}}

	filtered := FilterByTask(reports, 5)

	assert.ElementsMatch(t, []TimeReport{{ID: 1, Task: 5}, {ID: 3, Task: 5}}, filtered)
	assert.Empty(t, FilterByTask(reports, 8))
}
