package queue

import (
	"context"
	"testing"

	"github.com/pbanos/scion/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id string, rows ...int) *Task {
	return &Task{Node: &tree.Node{ID: id}, Rows: rows}
}

func TestMemQueueFIFO(t *testing.T) {
	ctx := context.Background()
	q := New()

	require.NoError(t, q.Push(ctx, task("n1", 0, 1)))
	require.NoError(t, q.Push(ctx, task("n2", 2)))

	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)
	assert.Equal(t, 0, running)

	t1, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, t1)
	assert.Equal(t, "n1", t1.ID())

	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, running)

	t2, err := q.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n2", t2.ID())

	empty, err := q.Pull(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestMemQueueDropReturnsTask(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Push(ctx, task("n1")))

	pulled, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, pulled)

	require.NoError(t, q.Drop(ctx, pulled.ID()))
	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 0, running)

	again, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "n1", again.ID())
}

func TestMemQueueComplete(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Push(ctx, task("n1")))

	pulled, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Complete(ctx, pulled.ID()))

	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 0, running)

	// completing or dropping an unknown id is a no-op
	assert.NoError(t, q.Complete(ctx, "nope"))
	assert.NoError(t, q.Drop(ctx, "nope"))
}

func TestMemQueueStopPreventsPush(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Stop(ctx))
	err := q.Push(ctx, task("n1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is stopped")
}

func TestWaitFor(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, WaitFor(ctx, New()))
}

func TestTaskID(t *testing.T) {
	tk := task("n7", 1, 2, 3)
	assert.Equal(t, "n7", tk.ID())
	assert.Contains(t, tk.String(), "n7")
}
