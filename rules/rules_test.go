package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/pbanos/scion/expr"
	"github.com/pbanos/scion/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// depthTwoTree splits SIG at 4, then its right branch on AUX at 0.5:
//
//	SIG <= 4           => lo
//	SIG > 4, AUX <= 0.5 => hi
//	SIG > 4, AUX > 0.5  => mid
func depthTwoTree(t *testing.T) *tree.Tree {
	t.Helper()
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()

	root := &tree.Node{Size: 12}
	require.NoError(t, ns.Create(ctx, root))
	left := &tree.Node{ParentID: root.ID, Size: 4, Depth: 1}
	require.NoError(t, ns.Create(ctx, left))
	right := &tree.Node{ParentID: root.ID, Size: 8, Depth: 1}
	require.NoError(t, ns.Create(ctx, right))
	rightLeft := &tree.Node{ParentID: right.ID, Size: 4, Depth: 2}
	require.NoError(t, ns.Create(ctx, rightLeft))
	rightRight := &tree.Node{ParentID: right.ID, Size: 4, Depth: 2}
	require.NoError(t, ns.Create(ctx, rightRight))

	var err error
	left.Prediction, err = tree.NewPrediction(map[string]int{"lo": 4})
	require.NoError(t, err)
	rightLeft.Prediction, err = tree.NewPrediction(map[string]int{"hi": 3, "mid": 1})
	require.NoError(t, err)
	rightRight.Prediction, err = tree.NewPrediction(map[string]int{"mid": 4})
	require.NoError(t, err)

	root.Gene, root.Threshold = "SIG", 4
	root.LeftID, root.RightID = left.ID, right.ID
	right.Gene, right.Threshold = "AUX", 0.5
	right.LeftID, right.RightID = rightLeft.ID, rightRight.ID
	for _, n := range []*tree.Node{root, left, right, rightLeft, rightRight} {
		require.NoError(t, ns.Store(ctx, n))
	}

	return tree.New(root.ID, ns, "group", []string{"lo", "hi", "mid"}, []string{"SIG", "AUX"}, tree.DefaultControl())
}

func TestExportPreOrderLeftFirst(t *testing.T) {
	ctx := context.Background()
	rs, err := Export(ctx, depthTwoTree(t))
	require.NoError(t, err)

	require.Len(t, rs.Rules, 3)
	assert.Equal(t, "group", rs.Label)
	assert.Equal(t, []string{"lo", "hi", "mid"}, rs.Classes)

	assert.Equal(t, "SIG <= 4 => lo", rs.Rules[0].String())
	assert.Equal(t, "SIG > 4 and AUX <= 0.5 => hi", rs.Rules[1].String())
	assert.Equal(t, "SIG > 4 and AUX > 0.5 => mid", rs.Rules[2].String())

	assert.Equal(t, 4, rs.Rules[0].Weight)
	assert.Equal(t, 1.0, rs.Rules[0].Confidence)
	assert.Equal(t, 0.75, rs.Rules[1].Confidence)
}

func TestExportSingleLeafTree(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	root := &tree.Node{Size: 5}
	require.NoError(t, ns.Create(ctx, root))
	var err error
	root.Prediction, err = tree.NewPrediction(map[string]int{"lo": 5})
	require.NoError(t, err)
	require.NoError(t, ns.Store(ctx, root))
	tr := tree.New(root.ID, ns, "group", []string{"lo"}, []string{"SIG"}, tree.DefaultControl())

	rs, err := Export(ctx, tr)
	require.NoError(t, err)
	require.Len(t, rs.Rules, 1)
	assert.Empty(t, rs.Rules[0].Terms)
	assert.Equal(t, "true => lo", rs.Rules[0].String())
}

func TestClassifyAgreesWithTree(t *testing.T) {
	ctx := context.Background()
	tr := depthTwoTree(t)
	rs, err := Export(ctx, tr)
	require.NoError(t, err)

	for _, sig := range []float64{0, 2, 4, 4.1, 7} {
		for _, aux := range []float64{0, 0.5, 0.6, 2} {
			s := expr.NewSample(map[string]float64{"SIG": sig, "AUX": aux})
			want, _, err := tr.PredictClass(ctx, s)
			require.NoError(t, err)
			got, err := rs.Classify(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, want, got, "SIG=%v AUX=%v", sig, aux)
		}
	}
}

func TestClassifyNoMatchingRule(t *testing.T) {
	ctx := context.Background()
	rs := &RuleSet{Rules: []*Rule{{Terms: []Term{{Gene: "SIG", Op: OpGT, Threshold: 4}}, Class: "hi"}}}
	_, err := rs.Classify(ctx, expr.NewSample(map[string]float64{"SIG": 1}))
	assert.Equal(t, ErrNoMatchingRule, err)
}

func TestWriteIsDeterministic(t *testing.T) {
	ctx := context.Background()
	tr := depthTwoTree(t)

	a, err := Export(ctx, tr)
	require.NoError(t, err)
	b, err := Export(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())

	want := "SIG <= 4 => lo\nSIG > 4 and AUX <= 0.5 => hi\nSIG > 4 and AUX > 0.5 => mid\n"
	assert.Equal(t, want, a.String())
}

func TestWriteGarnett(t *testing.T) {
	ctx := context.Background()
	rs, err := Export(ctx, depthTwoTree(t))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, rs.WriteGarnett(&b))
	want := ">lo\n" +
		"expressed below: SIG 4\n" +
		">hi\n" +
		"expressed above: SIG 4\n" +
		"expressed below: AUX 0.5\n" +
		">mid\n" +
		"expressed above: AUX 0.5, SIG 4\n"
	assert.Equal(t, want, b.String())
}
