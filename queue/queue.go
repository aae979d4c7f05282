package queue

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Queue represents a queue where tasks to develop tree nodes can be
// pushed and pulled. The idea is a worker will use the Pull method
// to obtain a task. It will start processing it and will then either
// complete it or drop it halfway.
//
// All its methods have a context.Context as first parameter that
// implementations may use to allow timeouts and cancellations on the
// Queue operations.
type Queue interface {
	// Push takes a task and stores it in the queue or returns an
	// error. The task will count as pending.
	Push(context.Context, *Task) error
	// Pull returns a task or an error. The pulled task will be
	// counted as running from then on. If there are no tasks to
	// pull, implementations should not return an error, but two
	// nil values.
	Pull(context.Context) (*Task, error)
	// Drop takes the ID for a task and makes it available for
	// pulling from the Queue again. Workers should use this to
	// return to the queue tasks they have not completed.
	Drop(context.Context, string) error
	// Complete takes the ID for a task. Implementations should
	// remove the task from the running state.
	Complete(context.Context, string) error
	// Count returns the number of pending and running tasks in the
	// queue or an error.
	Count(context.Context) (int, int, error)
	// Stop stops the queue. Implementations should use the call to
	// free resources.
	Stop(context.Context) error
}

type memQueue struct {
	mu      sync.Mutex
	pending []*Task
	running map[string]*Task
	stopped bool
}

// New returns a queue backed only by the process memory. Tasks are
// pulled in the order they were pushed.
func New() Queue {
	return &memQueue{running: make(map[string]*Task)}
}

// WaitFor takes a context and a queue and waits for all its tasks to
// have been processed, that is, for the given queue's Count method
// to return 0, 0, nil. It will return a non-nil error if the given
// context times out or is cancelled, or if the queue's Count
// operation returns an error.
func WaitFor(ctx context.Context, q Queue) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		pending, running, err := q.Count(ctx)
		if err != nil {
			return err
		}
		if pending+running == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if mq.stopped {
		return fmt.Errorf("pushing task %s: queue is stopped", t.ID())
	}
	mq.pending = append(mq.pending, t)
	return nil
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if len(mq.pending) == 0 {
		return nil, nil
	}
	task := mq.pending[0]
	mq.pending = mq.pending[1:]
	mq.running[task.ID()] = task
	return task, nil
}

func (mq *memQueue) Drop(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mq.mu.Lock()
	defer mq.mu.Unlock()
	t, ok := mq.running[id]
	if !ok {
		return nil
	}
	delete(mq.running, id)
	mq.pending = append(mq.pending, t)
	return nil
}

func (mq *memQueue) Complete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mq.mu.Lock()
	defer mq.mu.Unlock()
	delete(mq.running, id)
	return nil
}

func (mq *memQueue) Count(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return len(mq.pending), len(mq.running), nil
}

func (mq *memQueue) Stop(ctx context.Context) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	mq.stopped = true
	return nil
}

func (mq *memQueue) String() string {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return fmt.Sprintf("{Queue pending: %d running: %d}", len(mq.pending), len(mq.running))
}
