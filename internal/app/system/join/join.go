// internal/app/system/join/join.go
package join

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc"
)

// Outcome is the result of one task.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Task is an independent unit of work started by All.
type Task[T any] func(ctx context.Context) (T, error)

// All starts every task concurrently and returns once all of them finished.
// Outcomes are returned in task order; a failing task never cancels the others.
// A panicking task is reported as an error in its own Outcome.
func All[T any](ctx context.Context, tasks ...Task[T]) []Outcome[T] {
	out := make([]Outcome[T], len(tasks))

	var wg conc.WaitGroup
	for i, task := range tasks {
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					out[i] = Outcome[T]{Err: fmt.Errorf("task %d panicked: %v", i, r)}
				}
			}()
			v, err := task(ctx)
			out[i] = Outcome[T]{Value: v, Err: err}
		})
	}
	wg.Wait()
	return out
}

// Err joins every failed outcome into one error, or nil when all succeeded.
func Err[T any](outcomes []Outcome[T]) error {
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}
