package panel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPanel(t *testing.T) {
	in := `label: celltype
genes:
  - CD3E
  - CD19
  - NKG7
classes:
  - tcell
  - bcell
`
	p, err := ReadPanel(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "celltype", p.Label)
	assert.Equal(t, []string{"CD3E", "CD19", "NKG7"}, p.Genes)
	assert.Equal(t, []string{"tcell", "bcell"}, p.Classes)
}

func TestReadPanelLabelOnly(t *testing.T) {
	p, err := ReadPanel(strings.NewReader("label: celltype\n"))
	require.NoError(t, err)
	assert.Equal(t, "celltype", p.Label)
	assert.Empty(t, p.Genes)
	assert.Empty(t, p.Classes)
}

func TestReadPanelErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  string
	}{
		{"missing label", "genes:\n  - CD3E\n", "missing label"},
		{"repeated gene", "label: celltype\ngenes:\n  - CD3E\n  - CD3E\n", "gene CD3E is repeated"},
		{"repeated class", "label: celltype\nclasses:\n  - tcell\n  - tcell\n", "class tcell is repeated"},
		{"bad yaml", "label: [", "parsing panel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPanel(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	p := &Panel{Label: "celltype", Genes: []string{"CD3E", "CD19"}, Classes: []string{"tcell", "bcell"}}
	var b strings.Builder
	require.NoError(t, p.Write(&b))

	read, err := ReadPanel(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, p, read)
}
