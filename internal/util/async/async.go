package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks in parallel and waits for all of them.
// When collectAll is false only the first error is returned; otherwise every
// failure is joined into the result.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "ConfigMap/minio", Func: applyConfig},
//	    {Name: "Secret/minio", Func: applySecret},
//	}
//	if err := RunParallel(ctx, tasks, false); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, collectAll bool) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	resultChan := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			err := task.Func(ctx)
			resultChan <- result{name: task.Name, err: err}
		}()
	}

	var errs []error
	for range len(tasks) {
		res := <-resultChan
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.name, res.err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if !collectAll {
		return errs[0]
	}
	return errors.Join(errs...)
}
