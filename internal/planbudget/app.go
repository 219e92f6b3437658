package planbudget

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Afrawles/planbudget/internal/config"
	"github.com/Afrawles/planbudget/internal/prompt"
	"github.com/Afrawles/planbudget/internal/report"
)

// Connector authenticates against the API and returns a ready source.
type Connector interface {
	Connect(ctx context.Context) (report.Source, error)
}

type Application struct {
	Config    config.Config
	Logger    *slog.Logger
	Connector Connector
	Selector  prompt.Selector
	Out       io.Writer
	Progress  report.Progress
	Now       func() time.Time
}

func New(cfg config.Config, conn Connector, sel prompt.Selector, out io.Writer) *Application {
	return &Application{
		Config:    cfg,
		Logger:    NewLogger(cfg.Log, os.Stderr),
		Connector: conn,
		Selector:  sel,
		Out:       out,
		Now:       time.Now,
	}
}

// NewLogger builds the application logger from the log configuration.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Run authenticates, lets the operator pick a task and prints what was spent
// on it. A nil taskIndex prompts through the selector.
func (app *Application) Run(ctx context.Context, taskIndex *int) (*report.Report, error) {
	source, err := app.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := source.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	app.Logger.Debug("tasks fetched", "source", source.Name(), "count", len(tasks))

	var task report.Task
	if taskIndex != nil {
		task, err = report.SelectTask(tasks, *taskIndex)
	} else {
		task, err = app.Selector.Select(ctx, tasks)
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(app.Out)
	fmt.Fprintln(app.Out, heading(task))

	gen := report.NewGenerator(source, app.Config.Concurrency, app.Logger)
	gen.Progress = app.Progress

	rep, err := gen.Generate(ctx, task)
	if err != nil {
		app.Logger.Error("aggregation failed", "task", task.ID, "error", err)
		return nil, err
	}

	PrintResult(app.Out, rep.Result, app.Config.API.Currency)
	fmt.Fprintln(app.Out)

	if err := app.Export(rep); err != nil {
		return rep, err
	}

	app.Logger.Info("report complete",
		"task", task.ID,
		"performers", len(rep.Performers),
		"hours", rep.Result.TotalHours,
		"billable", rep.Result.BillableAmount,
	)
	return rep, nil
}

// Export writes rep in every configured output format.
func (app *Application) Export(rep *report.Report) error {
	formats := app.Config.Output.Format
	if len(formats) == 0 {
		return nil
	}

	dir := app.Config.Output.Directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	now := app.Now()
	for _, format := range formats {
		filename := report.Filename(rep, format, now)

		var err error
		switch format {
		case "json":
			err = report.NewExporter(dir).ExportJSON(rep, filename)
		case "csv":
			err = report.NewCSVExporter(dir).Export(rep, filename)
		case "xlsx":
			err = report.NewExcelExporter(dir).Export(rep, filename)
		default:
			err = fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}
		app.Logger.Info("report exported", "format", format, "file", filename)
	}
	return nil
}
