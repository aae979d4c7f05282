package tree

/*
Node is a node of a classification tree, addressed through a
NodeStore by its ID.

An internal node splits its row subset on a gene at a threshold:
rows with value <= Threshold go to the node under LeftID, rows with
value > Threshold to the node under RightID. Both child IDs are set
together or not at all; a node with no LeftID is a leaf.
*/
type Node struct {
	// An ID to identify the node on its store
	ID string
	// The ID for the parent of the node in the tree
	ParentID string
	// The IDs for the children the node's rows are split
	// into. Empty on leaves.
	LeftID  string
	RightID string
	// The gene an internal node splits on. Empty on leaves.
	Gene string
	// The cut point for the split: left takes values <= Threshold,
	// right takes values > Threshold.
	Threshold float64
	// The association test statistic and p-value the split
	// was accepted with.
	Statistic float64
	PValue    float64
	// The number of training rows the node was built from.
	Size int
	// The depth of the node, 0 for the root.
	Depth int
	// The class-count distribution of the node's training rows.
	// Set on every node, used for prediction on leaves.
	Prediction *Prediction
}

/*
IsLeaf returns whether the node has no children.
*/
func (n *Node) IsLeaf() bool {
	return n.LeftID == ""
}
