package scion

import (
	"testing"

	"github.com/pbanos/scion/expr"
	"github.com/pbanos/scion/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKruskalWallis(t *testing.T) {
	t.Run("two separated groups", func(t *testing.T) {
		// rank sums 6 and 15 over 6 values
		h, err := kruskalWallis([]float64{1, 2, 3, 4, 5, 6}, []int{0, 0, 0, 1, 1, 1}, 2)
		require.NoError(t, err)
		assert.InDelta(t, 3.8571, h, 0.0001)
	})

	t.Run("ties get midranks and correction", func(t *testing.T) {
		h, err := kruskalWallis([]float64{1, 1, 2, 2}, []int{0, 0, 1, 1}, 2)
		require.NoError(t, err)
		// midranks 1.5,1.5,3.5,3.5; tie correction 1-12/60
		assert.InDelta(t, 3.0, h, 0.0001)
	})

	t.Run("constant gene is degenerate", func(t *testing.T) {
		_, err := kruskalWallis([]float64{2, 2, 2, 2}, []int{0, 0, 1, 1}, 2)
		assert.Equal(t, ErrDegenerateSplit, err)
	})

	t.Run("fewer than two values is degenerate", func(t *testing.T) {
		_, err := kruskalWallis([]float64{1}, []int{0}, 1)
		assert.Equal(t, ErrDegenerateSplit, err)
	})
}

func TestBestCut(t *testing.T) {
	t.Run("perfect separation", func(t *testing.T) {
		threshold, ok := bestCut(
			[]float64{1, 2, 3, 4, 5, 6, 7, 8},
			[]int{0, 0, 0, 0, 1, 1, 1, 1},
			2, 1,
		)
		require.True(t, ok)
		assert.Equal(t, 4.0, threshold)
	})

	t.Run("ties keep the smallest threshold", func(t *testing.T) {
		// cuts at 1 and 2 score the same Pearson statistic
		threshold, ok := bestCut(
			[]float64{1, 1, 2, 2, 3, 3},
			[]int{0, 0, 0, 1, 1, 1},
			2, 1,
		)
		require.True(t, ok)
		assert.Equal(t, 1.0, threshold)
	})

	t.Run("minbucket rejects every candidate", func(t *testing.T) {
		_, ok := bestCut(
			[]float64{1, 1, 2, 2, 3, 3},
			[]int{0, 0, 0, 1, 1, 1},
			2, 3,
		)
		assert.False(t, ok)
	})

	t.Run("largest distinct value is never a threshold", func(t *testing.T) {
		threshold, ok := bestCut(
			[]float64{1, 2},
			[]int{0, 1},
			2, 1,
		)
		require.True(t, ok)
		assert.Equal(t, 1.0, threshold)
	})
}

func TestSelectSplit(t *testing.T) {
	control := tree.Control{Alpha: 0.05, MaxDepth: 5, MinBucket: 2, MinSplit: 4}

	t.Run("picks the informative gene and skips constant ones", func(t *testing.T) {
		m, err := expr.New(
			[]string{"FLAT", "SIG"},
			[][]float64{
				{0, 1}, {0, 2}, {0, 3}, {0, 4},
				{0, 5}, {0, 6}, {0, 7}, {0, 8},
			},
		)
		require.NoError(t, err)
		labels, err := expr.NewLabels([]string{"lo", "lo", "lo", "lo", "hi", "hi", "hi", "hi"})
		require.NoError(t, err)

		sp, err := selectSplit(m, labels, m.AllRows(), m.Genes(), control)
		require.NoError(t, err)
		require.NotNil(t, sp)
		assert.Equal(t, "SIG", sp.gene)
		assert.Equal(t, 4.0, sp.threshold)
		assert.Equal(t, []int{0, 1, 2, 3}, sp.left)
		assert.Equal(t, []int{4, 5, 6, 7}, sp.right)
		assert.True(t, sp.pValue < control.Alpha)
		assert.True(t, sp.statistic > 0)
	})

	t.Run("no gene reaches alpha", func(t *testing.T) {
		m, err := expr.New(
			[]string{"NOISE"},
			[][]float64{{1}, {8}, {2}, {7}, {3}, {6}, {4}, {5}},
		)
		require.NoError(t, err)
		labels, err := expr.NewLabels([]string{"lo", "lo", "hi", "hi", "lo", "lo", "hi", "hi"})
		require.NoError(t, err)

		sp, err := selectSplit(m, labels, m.AllRows(), m.Genes(), control)
		require.NoError(t, err)
		assert.Nil(t, sp)
	})

	t.Run("pure subset cannot be split", func(t *testing.T) {
		m, err := expr.New([]string{"SIG"}, [][]float64{{1}, {2}, {3}, {4}})
		require.NoError(t, err)
		labels, err := expr.NewLabels([]string{"lo", "lo", "lo", "lo"})
		require.NoError(t, err)

		sp, err := selectSplit(m, labels, m.AllRows(), m.Genes(), control)
		require.NoError(t, err)
		assert.Nil(t, sp)
	})

	t.Run("only degenerate genes cannot be split", func(t *testing.T) {
		m, err := expr.New([]string{"FLAT"}, [][]float64{{3}, {3}, {3}, {3}})
		require.NoError(t, err)
		labels, err := expr.NewLabels([]string{"lo", "lo", "hi", "hi"})
		require.NoError(t, err)

		sp, err := selectSplit(m, labels, m.AllRows(), m.Genes(), control)
		require.NoError(t, err)
		assert.Nil(t, sp)
	})
}

func TestPearsonTwoByK(t *testing.T) {
	// perfect 2x2 separation scores n
	stat := pearsonTwoByK([]int{4, 0}, []int{4, 4}, 4, 8)
	assert.InDelta(t, 8.0, stat, 0.0001)

	// independent table scores 0
	stat = pearsonTwoByK([]int{2, 2}, []int{4, 4}, 4, 8)
	assert.InDelta(t, 0.0, stat, 0.0001)
}
