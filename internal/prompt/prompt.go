package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Afrawles/planbudget/internal/report"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

const defaultAttempts = 3

// Selector asks the operator to pick one of tasks.
type Selector interface {
	Select(ctx context.Context, tasks []report.Task) (report.Task, error)
}

// New returns a form selector when in is a terminal and a line selector otherwise.
func New(in *os.File, out io.Writer) Selector {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &FormSelector{}
	}
	return NewLineSelector(in, out)
}

// LineSelector prints an enumerated list and reads the chosen index from a line of input.
type LineSelector struct {
	in          *bufio.Reader
	out         io.Writer
	MaxAttempts int
}

func NewLineSelector(in io.Reader, out io.Writer) *LineSelector {
	return &LineSelector{in: bufio.NewReader(in), out: out, MaxAttempts: defaultAttempts}
}

func (s *LineSelector) Select(ctx context.Context, tasks []report.Task) (report.Task, error) {
	if len(tasks) == 0 {
		return report.SelectTask(tasks, 0)
	}

	for i, t := range tasks {
		fmt.Fprintf(s.out, "%d: %s\n", i, t.Name)
	}

	var lastErr error
	for attempt := 0; attempt < s.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return report.Task{}, err
		}

		fmt.Fprint(s.out, "taskIndex: ")
		line, readErr := s.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return report.Task{}, fmt.Errorf("failed to read selection: %w", readErr)
		}

		task, err := report.ParseSelection(tasks, line)
		if err == nil {
			return task, nil
		}
		lastErr = err
		fmt.Fprintln(s.out, err)

		if errors.Is(readErr, io.EOF) {
			break
		}
	}
	return report.Task{}, lastErr
}

// FormSelector shows the tasks in an interactive terminal list.
type FormSelector struct{}

func (s *FormSelector) Select(ctx context.Context, tasks []report.Task) (report.Task, error) {
	if len(tasks) == 0 {
		return report.SelectTask(tasks, 0)
	}

	options := make([]huh.Option[int], 0, len(tasks))
	for i, t := range tasks {
		options = append(options, huh.NewOption(fmt.Sprintf("%d: %s", i, t.Name), i))
	}

	index := -1
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which task?").
				Options(options...).
				Value(&index),
		),
	).WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		return report.Task{}, fmt.Errorf("task selection cancelled: %w", err)
	}
	return report.SelectTask(tasks, index)
}
