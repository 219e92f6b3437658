package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSelection = errors.New("invalid task selection")

// SelectTask returns the task at index, bounds checked.
func SelectTask(tasks []Task, index int) (Task, error) {
	if len(tasks) == 0 {
		return Task{}, fmt.Errorf("%w: no tasks to choose from", ErrInvalidSelection)
	}
	if index < 0 || index >= len(tasks) {
		return Task{}, fmt.Errorf("%w: %d is not between 0 and %d", ErrInvalidSelection, index, len(tasks)-1)
	}
	return tasks[index], nil
}

// ParseSelection parses operator input such as " 3\n" and selects that task.
func ParseSelection(tasks []Task, input string) (Task, error) {
	input = strings.TrimSpace(input)
	index, err := strconv.Atoi(input)
	if err != nil {
		return Task{}, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, input)
	}
	return SelectTask(tasks, index)
}
