/*
Package scion grows classification trees over single-cell expression
matrices by conditional recursive partitioning: at each node every
candidate gene is tested for association with the class label, the
most significant one is picked, and the node's rows are cut at the
threshold that separates the classes best. Growing stops on a
significance threshold (alpha) and on size and depth constraints
rather than on an impurity heuristic.

Growing is expressed as tasks on a queue so it can be parallelized
or distributed: Seed creates the root task, workers running Work
pull tasks and branch their nodes out with BranchOut, and Grow wires
all of that together in memory for the common case.
*/
package scion

import (
	"context"
	"time"

	"github.com/pbanos/scion/expr"
	"github.com/pbanos/scion/queue"
	"github.com/pbanos/scion/tree"
)

/*
Error is the type for the package's constant errors.
*/
type Error string

func (e Error) Error() string {
	return string(e)
}

/*
ErrEmptyDataset is returned when seeding a tree over a matrix with
zero rows or zero usable gene columns.
*/
const ErrEmptyDataset = Error("cannot grow a tree from an empty dataset")

/*
ErrLabelLength is returned when seeding a tree with a label vector
whose length does not match the matrix row count.
*/
const ErrLabelLength = Error("label vector length does not match matrix rows")

/*
ErrDegenerateSplit is the error the association test yields for a
gene with zero variance within a node. It marks a failed candidate:
split selection skips the gene and goes on.
*/
const ErrDegenerateSplit = Error("gene has zero variance within node")

// DefaultEmptyQueueSleep is how long Grow's workers sleep before
// re-polling a momentarily empty queue.
const DefaultEmptyQueueSleep = 10 * time.Millisecond

/*
Seed takes a context, the name of the predicted label, a training
matrix and its label vector, a control, a queue and a node store,
and sets everything up so that workers that consume from the queue
afterwards grow a tree predicting the label from the matrix's gene
columns. Specifically it will create the root node of the tree on
the node store and push a task to branch it out on the queue.

It returns the tree that can be grown, or an error if the control
is invalid, the dataset is empty, the label vector does not match
the matrix, a gene in control.GenesUse is not a matrix column, or
the node cannot be created on the store or the task pushed to the
queue.
*/
func Seed(ctx context.Context, label string, m *expr.Matrix, labels *expr.Labels, control tree.Control, q queue.Queue, ns tree.NodeStore) (*tree.Tree, error) {
	if err := control.Validate(); err != nil {
		return nil, err
	}
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return nil, ErrEmptyDataset
	}
	if labels == nil || labels.Len() != m.Rows() {
		return nil, ErrLabelLength
	}
	genes := control.GenesUse
	if len(genes) == 0 {
		genes = m.Genes()
	}
	for _, g := range genes {
		if !m.HasGene(g) {
			return nil, &expr.UnknownGeneError{Gene: g}
		}
	}
	n := &tree.Node{Size: m.Rows()}
	err := ns.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	t := tree.New(n.ID, ns, label, labels.Classes(), genes, control)
	task := &queue.Task{Node: n, Rows: m.AllRows()}
	err = q.Push(ctx, task)
	if err != nil {
		ns.Delete(ctx, n)
		return nil, err
	}
	return t, nil
}

/*
BranchOut takes a context, a task, a tree and the training matrix
and labels, develops the node in the task and returns tasks to
develop the resulting children nodes, or an error.

The node's prediction is always set from the class counts of the
task's rows. The node stays a leaf when its row count is below
minsplit, its depth has reached maxdepth, its rows are pure, no gene
association reaches alpha, or no cut on the winning gene leaves
minbucket rows on both sides. Otherwise two children are created on
the store and returned as tasks over the disjoint row subsets of
the split. A split is either fully applied to the node or not at
all.
*/
func BranchOut(ctx context.Context, task *queue.Task, t *tree.Tree, m *expr.Matrix, labels *expr.Labels) (tasks []*queue.Task, e error) {
	prediction, err := tree.NewPrediction(labels.Counts(task.Rows))
	if err != nil {
		return nil, err
	}
	task.Node.Prediction = prediction
	task.Node.Size = len(task.Rows)
	task.Node.Depth = task.Depth
	defer func() {
		err := t.NodeStore.Store(ctx, task.Node)
		if e == nil {
			e = err
		}
	}()
	if len(task.Rows) < t.Control.MinSplit || task.Depth >= t.Control.MaxDepth {
		return nil, nil
	}
	if labels.Distinct(task.Rows) < 2 {
		return nil, nil
	}
	if t.Control.MaxNodes > 0 {
		if counter, ok := t.NodeStore.(tree.Counter); ok {
			count, err := counter.Count(ctx)
			if err != nil {
				return nil, err
			}
			if count+2 > t.Control.MaxNodes {
				return nil, nil
			}
		}
	}
	sp, err := selectSplit(m, labels, task.Rows, t.Genes, t.Control)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, nil
	}
	left := &tree.Node{ParentID: task.Node.ID, Size: len(sp.left), Depth: task.Depth + 1}
	if err := t.NodeStore.Create(ctx, left); err != nil {
		return nil, err
	}
	right := &tree.Node{ParentID: task.Node.ID, Size: len(sp.right), Depth: task.Depth + 1}
	if err := t.NodeStore.Create(ctx, right); err != nil {
		t.NodeStore.Delete(ctx, left)
		return nil, err
	}
	task.Node.Gene = sp.gene
	task.Node.Threshold = sp.threshold
	task.Node.Statistic = sp.statistic
	task.Node.PValue = sp.pValue
	task.Node.LeftID = left.ID
	task.Node.RightID = right.ID
	return []*queue.Task{
		{Node: left, Rows: sp.left, Depth: task.Depth + 1},
		{Node: right, Rows: sp.right, Depth: task.Depth + 1},
	}, nil
}

/*
Work takes a context, a tree, a queue, the training matrix and
labels and an emptyQueueSleep duration and enters a loop in which
it:
  - pulls a task from the queue,
  - branches its node out into new subnodes using BranchOut,
  - pushes the tasks for the new subnodes into the queue,
  - marks the task as completed on the queue.

If at some point no task can be pulled from the queue and the sum
of tasks running and pending on the queue is 0, the worker ends
returning nil. If no task can be pulled but the sum is not 0, then
the worker will sleep for the given emptyQueueSleep duration and
then retry.

Work will return a non-nil error if the given context times out or
is cancelled, if BranchOut returns a non-nil error or if an
operation with the given queue returns a non-nil error.
*/
func Work(ctx context.Context, t *tree.Tree, q queue.Queue, m *expr.Matrix, labels *expr.Labels, emptyQueueSleep time.Duration) error {
	for {
		task, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			pending, running, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if pending+running == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		err = workTask(ctx, task, t, q, m, labels)
		if err != nil {
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

func workTask(ctx context.Context, task *queue.Task, t *tree.Tree, q queue.Queue, m *expr.Matrix, labels *expr.Labels) error {
	tasks, err := BranchOut(ctx, task, t, m, labels)
	if err != nil {
		q.Drop(ctx, task.ID())
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			q.Drop(ctx, task.ID())
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}

/*
Grow takes a context, the name of the predicted label, a training
matrix and its label vector, a control and a worker count, and grows
a tree in memory: it seeds a memory queue and node store and runs
the given number of Work workers until the queue drains. With a
single worker the grown tree is identical node-for-node between
runs; with more workers only node IDs may differ, never the splits.

It returns the grown tree or the first error any worker hit.
*/
func Grow(ctx context.Context, label string, m *expr.Matrix, labels *expr.Labels, control tree.Control, workers int) (*tree.Tree, error) {
	if workers < 1 {
		workers = 1
	}
	q := queue.New()
	ns := tree.NewMemoryNodeStore()
	t, err := Seed(ctx, label, m, labels, control, q, ns)
	if err != nil {
		return nil, err
	}
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			errs <- Work(ctx, t, q, m, labels, DefaultEmptyQueueSleep)
		}()
	}
	var firstErr error
	for i := 0; i < workers; i++ {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	q.Stop(ctx)
	if firstErr != nil {
		return nil, firstErr
	}
	return t, nil
}
