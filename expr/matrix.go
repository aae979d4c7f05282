/*
Package expr provides the expression matrix and label vector types
the rest of the module trains on and predicts from: a read-only
numeric table with named gene columns over cell rows, and a
categorical class value per row.
*/
package expr

import (
	"fmt"
)

/*
Error is the type for the package's constant errors.
*/
type Error string

func (e Error) Error() string {
	return string(e)
}

/*
ErrEmptyMatrix is returned when building a matrix with no rows.
*/
const ErrEmptyMatrix = Error("expression matrix has no rows")

/*
ErrNoGenes is returned when building a matrix with no gene columns.
*/
const ErrNoGenes = Error("expression matrix has no gene columns")

/*
UnknownGeneError is returned when a gene name is looked up on a
matrix that does not have a column with that name.
*/
type UnknownGeneError struct {
	Gene string
}

func (e *UnknownGeneError) Error() string {
	return fmt.Sprintf("unknown gene %q", e.Gene)
}

/*
Matrix is a read-only expression matrix: one row per cell, one named
column per gene. It is immutable once built, so it can be shared by
any number of concurrent readers.
*/
type Matrix struct {
	genes     []string
	geneIndex map[string]int
	cells     []string
	values    [][]float64
}

/*
New takes a slice of gene names and a row-major slice of value rows
and returns a matrix with them, or an error if the matrix would have
no rows, no columns, a duplicate gene name or a row whose length does
not match the number of genes.
*/
func New(genes []string, values [][]float64) (*Matrix, error) {
	return NewWithCells(nil, genes, values)
}

/*
NewWithCells is like New but also attaches a name to every cell row.
The cells slice may be nil; if it is not, its length must match the
number of value rows.
*/
func NewWithCells(cells, genes []string, values [][]float64) (*Matrix, error) {
	if len(genes) == 0 {
		return nil, ErrNoGenes
	}
	if len(values) == 0 {
		return nil, ErrEmptyMatrix
	}
	if cells != nil && len(cells) != len(values) {
		return nil, fmt.Errorf("expression matrix has %d rows but %d cell names", len(values), len(cells))
	}
	geneIndex := make(map[string]int, len(genes))
	for i, g := range genes {
		if _, ok := geneIndex[g]; ok {
			return nil, fmt.Errorf("duplicate gene column %q", g)
		}
		geneIndex[g] = i
	}
	for i, row := range values {
		if len(row) != len(genes) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(genes))
		}
	}
	return &Matrix{genes: genes, geneIndex: geneIndex, cells: cells, values: values}, nil
}

/*
Rows returns the number of cell rows in the matrix.
*/
func (m *Matrix) Rows() int {
	return len(m.values)
}

/*
Cols returns the number of gene columns in the matrix.
*/
func (m *Matrix) Cols() int {
	return len(m.genes)
}

/*
Genes returns the gene column names in their declared order.
*/
func (m *Matrix) Genes() []string {
	genes := make([]string, len(m.genes))
	copy(genes, m.genes)
	return genes
}

/*
Cells returns the cell row names, or nil if the matrix was built
without them.
*/
func (m *Matrix) Cells() []string {
	if m.cells == nil {
		return nil
	}
	cells := make([]string, len(m.cells))
	copy(cells, m.cells)
	return cells
}

/*
HasGene returns whether the matrix has a column for the given gene.
*/
func (m *Matrix) HasGene(gene string) bool {
	_, ok := m.geneIndex[gene]
	return ok
}

/*
Value returns the expression value of the given gene on the given
row, or an UnknownGeneError if the matrix has no column with that
name.
*/
func (m *Matrix) Value(row int, gene string) (float64, error) {
	i, ok := m.geneIndex[gene]
	if !ok {
		return 0, &UnknownGeneError{Gene: gene}
	}
	return m.values[row][i], nil
}

/*
GeneValues returns the values of the given gene restricted to the
given row-index subset, in the subset's order. It returns an
UnknownGeneError if the matrix has no column with that name.
*/
func (m *Matrix) GeneValues(gene string, rows []int) ([]float64, error) {
	i, ok := m.geneIndex[gene]
	if !ok {
		return nil, &UnknownGeneError{Gene: gene}
	}
	values := make([]float64, len(rows))
	for j, r := range rows {
		values[j] = m.values[r][i]
	}
	return values, nil
}

/*
AllRows returns the index of every row on the matrix, in order.
*/
func (m *Matrix) AllRows() []int {
	rows := make([]int, len(m.values))
	for i := range rows {
		rows[i] = i
	}
	return rows
}

/*
View returns a lightweight read-only view of the matrix restricted
to the given row-index subset. The subset slice is not copied.
*/
func (m *Matrix) View(rows []int) *View {
	return &View{m: m, rows: rows}
}

/*
View is a row-index subset of a matrix. It shares the matrix storage
and never copies values.
*/
type View struct {
	m    *Matrix
	rows []int
}

/*
Count returns the number of rows in the view.
*/
func (v *View) Count() int {
	return len(v.rows)
}

/*
Rows returns the row indices the view covers, in order.
*/
func (v *View) Rows() []int {
	return v.rows
}

/*
GeneValues returns the values of the given gene over the view's rows.
*/
func (v *View) GeneValues(gene string) ([]float64, error) {
	return v.m.GeneValues(gene, v.rows)
}

/*
Split partitions the view's rows on the given gene and threshold into
a left view (value <= threshold) and a right view (value > threshold),
preserving row order on both sides.
*/
func (v *View) Split(gene string, threshold float64) (*View, *View, error) {
	i, ok := v.m.geneIndex[gene]
	if !ok {
		return nil, nil, &UnknownGeneError{Gene: gene}
	}
	var left, right []int
	for _, r := range v.rows {
		if v.m.values[r][i] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return &View{m: v.m, rows: left}, &View{m: v.m, rows: right}, nil
}
