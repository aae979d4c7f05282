package csv

import (
	"strings"
	"testing"

	"github.com/pbanos/scion/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMatrix(t *testing.T) {
	in := `cell,CD3E,CD19,celltype
c1,2.5,0,tcell
c2,0,1.75,bcell
c3,3,0.5,tcell
`
	m, labels, err := ReadMatrix(strings.NewReader(in), "celltype")
	require.NoError(t, err)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, []string{"CD3E", "CD19"}, m.Genes())
	assert.Equal(t, []string{"c1", "c2", "c3"}, m.Cells())
	v, err := m.Value(1, "CD19")
	require.NoError(t, err)
	assert.Equal(t, 1.75, v)

	assert.Equal(t, []string{"tcell", "bcell", "tcell"}, labels.Values())
	assert.Equal(t, []string{"tcell", "bcell"}, labels.Classes())
}

func TestReadMatrixDefaultsToLastColumn(t *testing.T) {
	in := `CD3E,CD19,celltype
2.5,0,tcell
0,1.75,bcell
`
	m, labels, err := ReadMatrix(strings.NewReader(in), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"CD3E", "CD19"}, m.Genes())
	assert.Nil(t, m.Cells())
	assert.Equal(t, []string{"tcell", "bcell"}, labels.Values())
}

func TestReadMatrixErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		label string
		err   string
	}{
		{"unknown label column", "CD3E,celltype\n1,tcell\n", "other", "no column named other"},
		{"non-numeric gene value", "CD3E,celltype\nabc,tcell\n", "celltype", "converting abc for gene CD3E"},
		{"empty body", "CD3E,celltype\n", "celltype", expr.ErrEmptyMatrix.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadMatrix(strings.NewReader(tt.in), tt.label)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestReadNewData(t *testing.T) {
	in := `cell,CD3E,CD19
c1,2.5,0
c2,0,1.75
`
	m, err := ReadNewData(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, []string{"CD3E", "CD19"}, m.Genes())
	assert.Equal(t, []string{"c1", "c2"}, m.Cells())
}

func TestWriteMatrixRoundTrip(t *testing.T) {
	m, err := expr.NewWithCells(
		[]string{"c1", "c2"},
		[]string{"CD3E", "CD19"},
		[][]float64{{2.5, 0}, {0, 1.75}},
	)
	require.NoError(t, err)
	labels, err := expr.NewLabels([]string{"tcell", "bcell"})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteMatrix(&b, m, labels, "celltype"))

	m2, labels2, err := ReadMatrix(strings.NewReader(b.String()), "celltype")
	require.NoError(t, err)
	assert.Equal(t, m.Genes(), m2.Genes())
	assert.Equal(t, m.Cells(), m2.Cells())
	assert.Equal(t, labels.Values(), labels2.Values())
	v, err := m2.Value(0, "CD3E")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}
