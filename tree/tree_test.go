package tree

import (
	"context"
	"testing"

	"github.com/pbanos/scion/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoLeafTree builds a tree splitting SIG at 4 with a "lo" left leaf
// and a "hi" right leaf on a fresh memory store.
func twoLeafTree(t *testing.T) *Tree {
	t.Helper()
	ctx := context.Background()
	ns := NewMemoryNodeStore()
	root := &Node{Size: 8}
	require.NoError(t, ns.Create(ctx, root))
	left := &Node{ParentID: root.ID, Size: 4, Depth: 1}
	require.NoError(t, ns.Create(ctx, left))
	right := &Node{ParentID: root.ID, Size: 4, Depth: 1}
	require.NoError(t, ns.Create(ctx, right))

	var err error
	left.Prediction, err = NewPrediction(map[string]int{"lo": 4})
	require.NoError(t, err)
	right.Prediction, err = NewPrediction(map[string]int{"hi": 3, "lo": 1})
	require.NoError(t, err)
	root.Prediction, err = NewPrediction(map[string]int{"lo": 5, "hi": 3})
	require.NoError(t, err)

	root.Gene = "SIG"
	root.Threshold = 4
	root.LeftID = left.ID
	root.RightID = right.ID
	require.NoError(t, ns.Store(ctx, root))
	require.NoError(t, ns.Store(ctx, left))
	require.NoError(t, ns.Store(ctx, right))

	return New(root.ID, ns, "group", []string{"lo", "hi"}, []string{"SIG"}, DefaultControl())
}

func TestPredict(t *testing.T) {
	ctx := context.Background()
	tr := twoLeafTree(t)

	tests := []struct {
		name  string
		value float64
		class string
		prob  float64
	}{
		{"below threshold", 1, "lo", 1.0},
		{"at threshold goes left", 4, "lo", 1.0},
		{"above threshold", 4.5, "hi", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, prob, err := tr.PredictClass(ctx, expr.NewSample(map[string]float64{"SIG": tt.value}))
			require.NoError(t, err)
			assert.Equal(t, tt.class, class)
			assert.Equal(t, tt.prob, prob)
		})
	}
}

func TestPredictMissingGene(t *testing.T) {
	ctx := context.Background()
	tr := twoLeafTree(t)

	_, err := tr.Predict(ctx, expr.NewSample(map[string]float64{"OTHER": 1}))
	require.Error(t, err)
	mge, ok := err.(*expr.MissingGeneError)
	require.True(t, ok)
	assert.Equal(t, "SIG", mge.Gene)
}

func TestPredictMatrixAndTest(t *testing.T) {
	ctx := context.Background()
	tr := twoLeafTree(t)

	m, err := expr.New([]string{"SIG"}, [][]float64{{1}, {5}, {3}, {8}})
	require.NoError(t, err)
	predicted, err := tr.PredictMatrix(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"lo", "hi", "lo", "hi"}, predicted)

	labels, err := expr.NewLabels([]string{"lo", "hi", "hi", "hi"})
	require.NoError(t, err)
	accuracy, err := tr.Test(ctx, m, labels)
	require.NoError(t, err)
	assert.Equal(t, 0.75, accuracy)
}

func TestTraversePreOrderLeftFirst(t *testing.T) {
	ctx := context.Background()
	tr := twoLeafTree(t)

	var order []string
	err := tr.Traverse(ctx, false, func(ctx context.Context, n *Node) error {
		order = append(order, n.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2", "n3"}, order)

	order = nil
	err = tr.Traverse(ctx, true, func(ctx context.Context, n *Node) error {
		order = append(order, n.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"n2", "n3", "n1"}, order)
}

func TestPredictionClass(t *testing.T) {
	p, err := NewPrediction(map[string]int{"a": 2, "b": 2, "c": 1})
	require.NoError(t, err)

	// ties break in class-order favor
	class, prob := p.Class([]string{"b", "a", "c"})
	assert.Equal(t, "b", class)
	assert.Equal(t, 0.4, prob)
	class, _ = p.Class([]string{"a", "b", "c"})
	assert.Equal(t, "a", class)

	assert.Equal(t, 5, p.Weight())
	assert.Equal(t, 0.2, p.ProbabilityOf("c"))
	assert.Equal(t, 0.0, p.ProbabilityOf("d"))

	_, err = NewPrediction(map[string]int{})
	assert.Equal(t, ErrCannotPredictFromEmptySubset, err)
}

func TestControlValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Control)
		invalid bool
	}{
		{"default is valid", func(c *Control) {}, false},
		{"alpha zero", func(c *Control) { c.Alpha = 0 }, true},
		{"alpha above one", func(c *Control) { c.Alpha = 1.5 }, true},
		{"alpha one is valid", func(c *Control) { c.Alpha = 1 }, false},
		{"maxdepth zero", func(c *Control) { c.MaxDepth = 0 }, true},
		{"minbucket zero", func(c *Control) { c.MinBucket = 0 }, true},
		{"minsplit below twice minbucket", func(c *Control) { c.MinSplit = 2*c.MinBucket - 1 }, true},
		{"negative maxnodes", func(c *Control) { c.MaxNodes = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultControl()
			tt.mutate(&c)
			err := c.Validate()
			if tt.invalid {
				require.Error(t, err)
				_, ok := err.(*InvalidControlError)
				assert.True(t, ok)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemoryNodeStore(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNodeStore()

	n1 := &Node{}
	require.NoError(t, ns.Create(ctx, n1))
	n2 := &Node{}
	require.NoError(t, ns.Create(ctx, n2))
	// IDs are sequential for reproducible fits
	assert.Equal(t, "n1", n1.ID)
	assert.Equal(t, "n2", n2.ID)

	got, err := ns.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, n1, got)

	got, err = ns.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	counter, ok := ns.(Counter)
	require.True(t, ok)
	count, err := counter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, ns.Delete(ctx, n2))
	got, err = ns.Get(ctx, "n2")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = ns.Store(ctx, &Node{})
	assert.Error(t, err)
}
