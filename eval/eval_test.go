package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMismatchedLengths(t *testing.T) {
	_, err := New([]string{"a", "b"}, []string{"a"})
	require.Error(t, err)
	lme, ok := err.(*LabelMismatchError)
	require.True(t, ok)
	assert.Equal(t, 2, lme.Predicted)
	assert.Equal(t, 1, lme.Actual)
}

func TestConfusionMatrixCounts(t *testing.T) {
	predicted := []string{"a", "a", "b", "b", "a", "b"}
	actual := []string{"a", "b", "b", "b", "a", "c"}
	cm, err := New(predicted, actual)
	require.NoError(t, err)

	// predicted classes first, then actual-only classes, in
	// first-occurrence order
	assert.Equal(t, []string{"a", "b", "c"}, cm.Labels())
	assert.Equal(t, 6, cm.Total())
	assert.Equal(t, 2, cm.Count("a", "a"))
	assert.Equal(t, 1, cm.Count("a", "b"))
	assert.Equal(t, 2, cm.Count("b", "b"))
	assert.Equal(t, 1, cm.Count("b", "c"))
	assert.Equal(t, 0, cm.Count("c", "a"))
	assert.Equal(t, 0, cm.Count("x", "a"))

	// accuracy is the diagonal fraction
	assert.InDelta(t, 4.0/6.0, cm.Accuracy(), 1e-9)
}

func TestNormalizeColumn(t *testing.T) {
	predicted := []string{"a", "a", "b", "b"}
	actual := []string{"a", "b", "b", "b"}
	cm, err := New(predicted, actual)
	require.NoError(t, err)

	fm := cm.Normalize(AxisColumn)
	assert.Equal(t, AxisColumn, fm.Axis())

	// each actual-class column sums to 1
	for _, actual := range fm.Labels() {
		var sum float64
		for _, predicted := range fm.Labels() {
			sum += fm.Frequency(predicted, actual)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
	assert.InDelta(t, 1.0, fm.Frequency("a", "a"), 1e-9)
	assert.InDelta(t, 1.0/3.0, fm.Frequency("a", "b"), 1e-9)
	assert.InDelta(t, 2.0/3.0, fm.Frequency("b", "b"), 1e-9)
}

func TestNormalizeRow(t *testing.T) {
	predicted := []string{"a", "a", "b", "b"}
	actual := []string{"a", "b", "b", "b"}
	cm, err := New(predicted, actual)
	require.NoError(t, err)

	fm := cm.Normalize(AxisRow)
	for _, predicted := range fm.Labels() {
		var sum float64
		for _, actual := range fm.Labels() {
			sum += fm.Frequency(predicted, actual)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
	assert.InDelta(t, 0.5, fm.Frequency("a", "a"), 1e-9)
	assert.InDelta(t, 1.0, fm.Frequency("b", "b"), 1e-9)
}

func TestNormalizeZeroTotalsStayZero(t *testing.T) {
	// nothing was ever predicted as c, and nothing actually was a
	predicted := []string{"a", "a"}
	actual := []string{"c", "c"}
	cm, err := New(predicted, actual)
	require.NoError(t, err)

	fm := cm.Normalize(AxisColumn)
	// the a column has no actual members
	assert.Equal(t, 0.0, fm.Frequency("a", "a"))
	assert.Equal(t, 0.0, fm.Frequency("c", "a"))

	fm = cm.Normalize(AxisRow)
	// the c row has no predictions
	assert.Equal(t, 0.0, fm.Frequency("c", "a"))
	assert.Equal(t, 0.0, fm.Frequency("c", "c"))
}

func TestStringTables(t *testing.T) {
	cm, err := New([]string{"a", "b"}, []string{"a", "b"})
	require.NoError(t, err)
	out := cm.String()
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
	assert.Contains(t, out, "1")

	fm := cm.Normalize(AxisColumn)
	assert.Contains(t, fm.String(), "1.0000")
	assert.Contains(t, fm.String(), "0.0000")
}
