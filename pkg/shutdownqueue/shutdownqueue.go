// Package shutdownqueue provides a process-wide LIFO queue of cleanup tasks
// drained once at the end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	err := shutdownqueue.Shutdown(ctx)
//
// Tasks run once, newest first. Panics are recovered and reported as errors.
// Named tasks (AddNamed) log one line each through the configured logger and
// their errors carry the name as a prefix.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it can't finish (or ctx is canceled).
type Task func(ctx context.Context) error

type namedTask struct {
	name string
	run  Task
}

type queue struct {
	mu     sync.Mutex
	tasks  []namedTask
	closed bool
	log    *slog.Logger
}

var q = &queue{tasks: make([]namedTask, 0, 8)}

// SetLogger sets the logger used for named tasks. Nil restores slog.Default.
func SetLogger(l *slog.Logger) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.log = l
}

// Add registers an unnamed task. Nil tasks and tasks added once Shutdown has
// started are ignored.
func Add(t Task) {
	AddNamed("", t)
}

// AddNamed is Add with a label used in logs and error messages.
func AddNamed(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, namedTask{name: name, run: t})
}

// Shutdown drains the queue newest first. Only the first call does work.
//
// If ctx ends mid-drain the remaining tasks are skipped and the context error
// is joined with the task errors collected so far.
func Shutdown(ctx context.Context) error {
	q.mu.Lock()

	if q.closed && len(q.tasks) == 0 {
		q.mu.Unlock()

		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil

	log := q.log
	if log == nil {
		log = slog.Default()
	}

	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		}

		err := tasks[i].runSafe(ctx, log)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (t namedTask) runSafe(ctx context.Context, log *slog.Logger) (err error) {
	start := time.Now()

	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task: %v", r)
		}

		if t.name == "" {
			return
		}

		if err != nil {
			err = fmt.Errorf("%s: %w", t.name, err)
			log.Warn("shutdown task failed", "task", t.name, "duration", time.Since(start), "error", err)

			return
		}

		log.Info("shutdown task finished", "task", t.name, "duration", time.Since(start))
	}()

	return t.run(ctx)
}
