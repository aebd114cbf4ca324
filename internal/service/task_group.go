package service

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	apperrors "go-insight-studio/internal/errors"
)

// TaskGroup runs optional tasks concurrently and joins them all-or-nothing.
// Wait returns the first error; siblings are not cancelled and whatever they
// produce is for the caller to discard.
type TaskGroup struct {
	eg    errgroup.Group
	names []string
}

// NewTaskGroup creates an empty task group
func NewTaskGroup() *TaskGroup {
	return &TaskGroup{}
}

// Go starts task under name. A panicking task fails the group with an internal error.
func (g *TaskGroup) Go(name string, task func() error) {
	g.names = append(g.names, name)
	g.eg.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = apperrors.NewInternalError(fmt.Sprintf("task %s panicked", name), fmt.Errorf("%v", r))
			}
		}()
		return task()
	})
}

// Tasks returns the names of the started tasks in start order
func (g *TaskGroup) Tasks() []string {
	return append([]string(nil), g.names...)
}

// Wait blocks until every task has returned
func (g *TaskGroup) Wait() error {
	return g.eg.Wait()
}
