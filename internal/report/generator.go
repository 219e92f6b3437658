package report

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

type Generator struct {
	Source      Source
	Concurrency int
	Logger      *slog.Logger

	Progress Progress
}

// Progress is the subset of *progressbar.ProgressBar the generator drives.
type Progress interface {
	ChangeMax(max int)
	Add(num int) error
	Finish() error
}

func NewGenerator(src Source, concurrency int, logger *slog.Logger) *Generator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Source: src, Concurrency: concurrency, Logger: logger}
}

// Report is the aggregation for one task along with the performers it covers.
type Report struct {
	Task       Task   `json:"task"`
	Performers []int  `json:"performers"`
	Result     Result `json:"result"`
}

// Generate fetches every performer's time reports and aggregates them for task.
func (g *Generator) Generate(ctx context.Context, task Task) (*Report, error) {
	performers, err := g.Source.Performers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list performers: %w", err)
	}
	g.Logger.Debug("performers fetched", "source", g.Source.Name(), "count", len(performers))

	markings, err := g.FetchAll(ctx, performers)
	if err != nil {
		return nil, err
	}

	result, err := Aggregate(markings, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate time reports: %w", err)
	}

	return &Report{Task: task, Performers: performers, Result: result}, nil
}

// FetchAll fetches the time reports of every performer concurrently. The
// returned slice is aligned with performers. Any failed fetch fails the call.
func (g *Generator) FetchAll(ctx context.Context, performers []int) ([][]TimeReport, error) {
	markings := make([][]TimeReport, len(performers))
	if g.Progress != nil {
		g.Progress.ChangeMax(len(performers))
		defer g.Progress.Finish()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Concurrency)

	for i, personID := range performers {
		eg.Go(func() error {
			reports, err := g.Source.TimeReports(ctx, personID)
			if err != nil {
				return fmt.Errorf("failed to fetch time reports for person %d: %w", personID, err)
			}
			g.Logger.Debug("time reports fetched", "person", personID, "count", len(reports))
			markings[i] = reports
			if g.Progress != nil {
				_ = g.Progress.Add(1)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return markings, nil
}
