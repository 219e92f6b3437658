package planbudget

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Afrawles/planbudget/internal/config"
	"github.com/Afrawles/planbudget/internal/planmill"
	"github.com/Afrawles/planbudget/internal/prompt"
	"github.com/Afrawles/planbudget/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	tasks   []report.Task
	people  []int
	reports map[int][]report.TimeReport
	failFor int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Tasks(ctx context.Context) ([]report.Task, error) { return s.tasks, nil }

func (s *stubSource) Performers(ctx context.Context) ([]int, error) { return s.people, nil }

func (s *stubSource) TimeReports(ctx context.Context, personID int) ([]report.TimeReport, error) {
	if personID == s.failFor {
		return nil, errors.New("connection reset")
	}
	return s.reports[personID], nil
}

type stubConnector struct {
	source report.Source
	err    error
}

func (c stubConnector) Connect(ctx context.Context) (report.Source, error) {
	return c.source, c.err
}

func newSource() *stubSource {
	return &stubSource{
		tasks:  []report.Task{{ID: 4, Name: "Design"}, {ID: 5, Name: "Build"}},
		people: []int{42, 101},
		reports: map[int][]report.TimeReport{
			42:  {{Task: 4, Amount: 60, UnitPrice: 90}},
			101: {{Task: 5, Amount: 600, UnitPrice: 20}},
		},
	}
}

func index(i int) *int { return &i }

func newTestApp(conn Connector, sel prompt.Selector, out io.Writer) *Application {
	app := New(config.Config{API: config.APIConfig{Currency: "EUR"}, Concurrency: 2}, conn, sel, out)
	app.Logger = NewLogger(config.LogConfig{Level: "error"}, io.Discard)
	return app
}

func TestApplication_Run_Prompted(t *testing.T) {
	var out bytes.Buffer
	sel := prompt.NewLineSelector(strings.NewReader("1\n"), &out)
	app := newTestApp(stubConnector{source: newSource()}, sel, &out)

	rep, err := app.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 5, rep.Task.ID)
	assert.InDelta(t, 200.0, rep.Result.BillableAmount, 1e-9)
	assert.InDelta(t, 10.0, rep.Result.TotalHours, 1e-9)

	text := out.String()
	assert.Contains(t, text, "0: Design\n1: Build\n")
	assert.Contains(t, text, `Data for "Build":`)
	assert.Contains(t, text, "Currently used budget: ")
	assert.Contains(t, text, "200")
	assert.Contains(t, text, "Currently used hours: 10.00 hours")
	assert.Contains(t, text, "Currently used hours: 1.25 days")
}

func TestApplication_Run_TaskIndex(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(stubConnector{source: newSource()}, nil, &out)

	rep, err := app.Run(context.Background(), index(0))

	require.NoError(t, err)
	assert.InDelta(t, 90.0, rep.Result.BillableAmount, 1e-9)
	assert.Contains(t, out.String(), "Currently used hours: 1.00 hours")
}

func TestApplication_Run_InvalidTaskIndex(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(stubConnector{source: newSource()}, nil, &out)

	_, err := app.Run(context.Background(), index(5))

	assert.ErrorIs(t, err, report.ErrInvalidSelection)
	assert.NotContains(t, out.String(), "Currently used")
}

func TestApplication_Run_NegativeTaskIndex(t *testing.T) {
	var out bytes.Buffer
	sel := prompt.NewLineSelector(strings.NewReader("1\n"), &out)
	app := newTestApp(stubConnector{source: newSource()}, sel, &out)

	_, err := app.Run(context.Background(), index(-5))

	assert.ErrorIs(t, err, report.ErrInvalidSelection)
	assert.NotContains(t, out.String(), "taskIndex: ")
	assert.NotContains(t, out.String(), "Currently used")
}

func TestApplication_Run_AuthFailure(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(stubConnector{err: planmill.ErrUnauthorized}, nil, &out)

	_, err := app.Run(context.Background(), index(0))

	assert.ErrorIs(t, err, planmill.ErrUnauthorized)
	assert.Empty(t, out.String())
}

func TestApplication_Run_FetchFailurePrintsNoResult(t *testing.T) {
	src := newSource()
	src.failFor = 101

	var out bytes.Buffer
	app := newTestApp(stubConnector{source: src}, nil, &out)

	rep, err := app.Run(context.Background(), index(1))

	require.Error(t, err)
	assert.Nil(t, rep)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NotContains(t, out.String(), "Currently used")
}

func TestApplication_Run_NoPerformers(t *testing.T) {
	src := newSource()
	src.people = nil

	var out bytes.Buffer
	app := newTestApp(stubConnector{source: src}, nil, &out)

	rep, err := app.Run(context.Background(), index(1))

	require.NoError(t, err)
	assert.Zero(t, rep.Result.TotalHours)
	assert.Contains(t, out.String(), "Currently used hours: 0.00 hours")
}

func TestApplication_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	app := newTestApp(stubConnector{source: newSource()}, nil, io.Discard)
	app.Config.Output = config.OutputConfig{Directory: dir, Format: []string{"json", "csv", "xlsx"}}
	app.Now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

	_, err := app.Run(context.Background(), index(1))
	require.NoError(t, err)

	for _, name := range []string{
		"budget_5_20261018_093000.json",
		"budget_5_20261018_093000.csv",
		"budget_5_20261018_093000.xlsx",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestFormatAmount_UnknownCurrency(t *testing.T) {
	var out bytes.Buffer

	PrintResult(&out, report.Result{BillableAmount: 12.5, TotalHours: 4}, "points")

	assert.Contains(t, out.String(), "Currently used budget: 12.50 points\n")
	assert.Contains(t, out.String(), "Currently used hours: 0.50 days\n")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
