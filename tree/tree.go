package tree

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pbanos/scion/expr"
)

/*
Tree represents a classification tree over an expression matrix. It
is composed of a NodeStore where all its nodes live, the id for the
root node, the name of the label it predicts, the class set in
first-occurrence training order, the gene columns it was grown over
and the control it was grown with.
*/
type Tree struct {
	NodeStore
	RootID  string
	Label   string
	Classes []string
	Genes   []string
	Control Control
}

/*
New takes the ID for the root node, a NodeStore, the name of the
predicted label, the class set in training order, the candidate gene
columns and the fit control, and returns a tree over them.
*/
func New(rootID string, ns NodeStore, label string, classes, genes []string, control Control) *Tree {
	return &Tree{ns, rootID, label, classes, genes, control}
}

/*
Predict takes a sample and walks the tree from the root comparing
the sample's value for each split gene against the node threshold,
descending left on values at or below it and right otherwise. It
returns the reached leaf's prediction, or an error if a node cannot
be retrieved or the sample lacks a value for a split gene (an
*expr.MissingGeneError).
*/
func (t *Tree) Predict(ctx context.Context, s expr.Sample) (*Prediction, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tree cannot predict samples")
	}
	n, err := t.Get(ctx, t.RootID)
	if err != nil {
		return nil, fmt.Errorf("predicting sample: retrieving node %v: %v", t.RootID, err)
	}
	if n == nil {
		return nil, fmt.Errorf("predicting sample: root node %v not found", t.RootID)
	}
	for !n.IsLeaf() {
		v, err := s.ValueFor(ctx, n.Gene)
		if err != nil {
			return nil, err
		}
		childID := n.LeftID
		if v > n.Threshold {
			childID = n.RightID
		}
		child, err := t.Get(ctx, childID)
		if err != nil {
			return nil, fmt.Errorf("predicting sample: retrieving node %v: %v", childID, err)
		}
		if child == nil {
			return nil, fmt.Errorf("predicting sample: node %v not found", childID)
		}
		n = child
	}
	if n.Prediction == nil {
		return nil, ErrCannotPredictFromSample
	}
	return n.Prediction, nil
}

/*
PredictClass is like Predict but resolves the leaf's distribution to
its majority class and that class's probability, breaking ties with
the tree's training class order.
*/
func (t *Tree) PredictClass(ctx context.Context, s expr.Sample) (string, float64, error) {
	p, err := t.Predict(ctx, s)
	if err != nil {
		return "", 0, err
	}
	class, prob := p.Class(t.Classes)
	return class, prob, nil
}

/*
PredictMatrix predicts every row of the given matrix and returns one
class value per row, in row order.
*/
func (t *Tree) PredictMatrix(ctx context.Context, m *expr.Matrix) ([]string, error) {
	predicted := make([]string, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		class, _, err := t.PredictClass(ctx, m.Sample(i))
		if err != nil {
			return nil, fmt.Errorf("predicting row %d: %v", i, err)
		}
		predicted[i] = class
	}
	return predicted, nil
}

/*
Test takes a matrix and the actual labels for its rows and returns
the fraction of rows whose predicted class matches the actual one,
or an error if a prediction fails or the label vector length does
not match the matrix.
*/
func (t *Tree) Test(ctx context.Context, m *expr.Matrix, labels *expr.Labels) (float64, error) {
	if labels.Len() != m.Rows() {
		return 0, fmt.Errorf("testing tree: %d labels for %d rows", labels.Len(), m.Rows())
	}
	predicted, err := t.PredictMatrix(ctx, m)
	if err != nil {
		return 0, err
	}
	hits := 0
	for i, p := range predicted {
		if p == labels.Value(i) {
			hits++
		}
	}
	return float64(hits) / float64(m.Rows()), nil
}

/*
Traverse takes a context, a bottomup boolean and an error-returning
function and goes through the tree running the function with every
traversed node. The order is pre-order with the left child before
the right one when bottomup is false, and post-order otherwise. If
the given context times out or is cancelled, a node cannot be
retrieved or the function returns an error, the traversing is
aborted and the error returned.
*/
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.NodeStore.Get(ctx, t.RootID)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("traversing tree: root node %v not found", t.RootID)
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		if err = f(ctx, n); err != nil {
			return err
		}
	}
	if !n.IsLeaf() {
		for _, childID := range []string{n.LeftID, n.RightID} {
			child, err := t.NodeStore.Get(ctx, childID)
			if err != nil {
				return err
			}
			if child == nil {
				return fmt.Errorf("traversing tree: node %v not found", childID)
			}
			if err = t.traverse(ctx, child, bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		if err = f(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID, "")
}

func (t *Tree) subtreeString(nodeID, edge string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	if n == nil {
		return fmt.Sprintf("ERROR: node %s not found\n", nodeID)
	}
	result := fmt.Sprintf("[%s]", nodeID)
	if edge != "" {
		result = fmt.Sprintf("%s{ %s }", result, edge)
	}
	if n.IsLeaf() {
		class := ""
		if n.Prediction != nil {
			class, _ = n.Prediction.Class(t.Classes)
		}
		result = fmt.Sprintf("%s => %s %v\n", result, class, n.Prediction)
	} else {
		result = fmt.Sprintf("%s %s (p=%s)\n|\n", result, n.Gene, strconv.FormatFloat(n.PValue, 'g', 3, 64))
	}
	if n.IsLeaf() {
		return result
	}
	threshold := strconv.FormatFloat(n.Threshold, 'g', -1, 64)
	edges := []string{
		fmt.Sprintf("%s <= %s", n.Gene, threshold),
		fmt.Sprintf("%s > %s", n.Gene, threshold),
	}
	for i, childID := range []string{n.LeftID, n.RightID} {
		for j, line := range strings.Split(t.subtreeString(childID, edges[i]), "\n") {
			if len(line) == 0 {
				continue
			}
			if j == 0 {
				result = fmt.Sprintf("%s|__%s\n", result, line)
			} else if i == 0 {
				result = fmt.Sprintf("%s|  %s\n", result, line)
			} else {
				result = fmt.Sprintf("%s   %s\n", result, line)
			}
		}
	}
	return result
}
