package queue

import (
	"fmt"

	"github.com/pbanos/scion/tree"
)

// Task represents a tree.Node to be developed on a tree.Tree.
type Task struct {
	// The node to be developed
	Node *tree.Node
	// The training-matrix row indices behind the node: the rows
	// satisfying every split from the root down to it.
	Rows []int
	// The depth of the node, 0 for the root task.
	Depth int
}

// ID returns a string that identifies the task, the ID of its Node.
func (t *Task) ID() string {
	return t.Node.ID
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s depth %d over %d rows}", t.Node.ID, t.Depth, len(t.Rows))
}
