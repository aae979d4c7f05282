package expr

import (
	"context"
	"fmt"
)

/*
MissingGeneError is returned when a sample is asked for the value of
a gene it does not carry, for example when predicting on newdata that
lacks a column the tree splits on.
*/
type MissingGeneError struct {
	Gene string
}

func (e *MissingGeneError) Error() string {
	return fmt.Sprintf("sample has no value for gene %q", e.Gene)
}

/*
Sample is an interface for a single cell whose expression values can
be asked for by gene name.

Its ValueFor method returns the expression value for the given gene
or a MissingGeneError if the sample does not carry it.
*/
type Sample interface {
	ValueFor(ctx context.Context, gene string) (float64, error)
}

type mapSample map[string]float64

/*
NewSample takes a map of gene names to expression values and returns
a Sample backed by it.
*/
func NewSample(values map[string]float64) Sample {
	return mapSample(values)
}

func (s mapSample) ValueFor(ctx context.Context, gene string) (float64, error) {
	v, ok := s[gene]
	if !ok {
		return 0, &MissingGeneError{Gene: gene}
	}
	return v, nil
}

type rowSample struct {
	m   *Matrix
	row int
}

/*
Sample returns a Sample backed by the given row of the matrix.
*/
func (m *Matrix) Sample(row int) Sample {
	return &rowSample{m: m, row: row}
}

func (s *rowSample) ValueFor(ctx context.Context, gene string) (float64, error) {
	i, ok := s.m.geneIndex[gene]
	if !ok {
		return 0, &MissingGeneError{Gene: gene}
	}
	return s.m.values[s.row][i], nil
}
