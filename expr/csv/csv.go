/*
Package csv reads and writes expression matrices as CSV: one header
row naming the columns, one body row per cell. A column named by the
label argument holds the class of each cell, and an optional first
column named "cell" holds cell names.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/scion/expr"
)

// cellColumn is the reserved header name for the cell-name column.
const cellColumn = "cell"

/*
ReadMatrix takes an io.Reader for a CSV stream and the name of the
label column and returns the expression matrix and label vector
parsed from it, or an error.

The first row is the header. A column named "cell" provides cell
names, the column named by label provides the classes, and every
other column is a gene whose values must parse as floats. If label
is empty the last non-cell column is taken as the label column.
*/
func ReadMatrix(reader io.Reader, label string) (*expr.Matrix, *expr.Labels, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %v", err)
	}
	if label == "" {
		for i := len(header) - 1; i >= 0; i-- {
			if header[i] != cellColumn {
				label = header[i]
				break
			}
		}
	}
	cellCol, labelCol := -1, -1
	var genes []string
	var geneCols []int
	for i, name := range header {
		switch name {
		case cellColumn:
			if cellCol >= 0 {
				return nil, nil, fmt.Errorf("parsing header: repeated column %s", name)
			}
			cellCol = i
		case label:
			if labelCol >= 0 {
				return nil, nil, fmt.Errorf("parsing header: repeated column %s", name)
			}
			labelCol = i
		default:
			genes = append(genes, name)
			geneCols = append(geneCols, i)
		}
	}
	if labelCol < 0 {
		return nil, nil, fmt.Errorf("parsing header: no column named %s", label)
	}
	var cells []string
	var labelValues []string
	var values [][]float64
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading body: %v", err)
		}
		rowValues := make([]float64, len(geneCols))
		for j, c := range geneCols {
			rowValues[j], err = strconv.ParseFloat(row[c], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parsing line %d: converting %s for gene %s: %v", l, row[c], genes[j], err)
			}
		}
		if cellCol >= 0 {
			cells = append(cells, row[cellCol])
		}
		labelValues = append(labelValues, row[labelCol])
		values = append(values, rowValues)
	}
	m, err := expr.NewWithCells(cells, genes, values)
	if err != nil {
		return nil, nil, err
	}
	labels, err := expr.NewLabels(labelValues)
	if err != nil {
		return nil, nil, err
	}
	return m, labels, nil
}

/*
ReadNewData is like ReadMatrix but for data without a label column:
every non-cell column is a gene. It returns only the matrix.
*/
func ReadNewData(reader io.Reader) (*expr.Matrix, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	cellCol := -1
	var genes []string
	var geneCols []int
	for i, name := range header {
		if name == cellColumn && cellCol < 0 {
			cellCol = i
			continue
		}
		genes = append(genes, name)
		geneCols = append(geneCols, i)
	}
	var cells []string
	var values [][]float64
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		rowValues := make([]float64, len(geneCols))
		for j, c := range geneCols {
			rowValues[j], err = strconv.ParseFloat(row[c], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing line %d: converting %s for gene %s: %v", l, row[c], genes[j], err)
			}
		}
		if cellCol >= 0 {
			cells = append(cells, row[cellCol])
		}
		values = append(values, rowValues)
	}
	return expr.NewWithCells(cells, genes, values)
}

/*
ReadMatrixFromFilePath takes a filepath string and a label column
name, opens the file the filepath points to and uses ReadMatrix to
parse it. If the filepath is "" os.Stdin is used instead.
*/
func ReadMatrixFromFilePath(filepath, label string) (*expr.Matrix, *expr.Labels, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading expression matrix: %v", err)
		}
	}
	defer f.Close()
	m, labels, err := ReadMatrix(f, label)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return m, labels, nil
}

/*
ReadNewDataFromFilePath takes a filepath string, opens the file the
filepath points to and uses ReadNewData to parse it. If the filepath
is "" os.Stdin is used instead.
*/
func ReadNewDataFromFilePath(filepath string) (*expr.Matrix, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading expression matrix: %v", err)
		}
	}
	defer f.Close()
	m, err := ReadNewData(f)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return m, nil
}

/*
WriteMatrix dumps the given matrix and label vector to the writer in
CSV format, with a cell column if the matrix has cell names and the
label column last. A nil label vector writes no label column.
*/
func WriteMatrix(writer io.Writer, m *expr.Matrix, labels *expr.Labels, label string) error {
	w := csv.NewWriter(writer)
	genes := m.Genes()
	cells := m.Cells()
	var header []string
	if cells != nil {
		header = append(header, cellColumn)
	}
	header = append(header, genes...)
	if labels != nil {
		header = append(header, label)
	}
	err := w.Write(header)
	if err != nil {
		return fmt.Errorf("writing CSV header: %v", err)
	}
	for i := 0; i < m.Rows(); i++ {
		record := make([]string, 0, len(header))
		if cells != nil {
			record = append(record, cells[i])
		}
		for _, g := range genes {
			v, err := m.Value(i, g)
			if err != nil {
				return err
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if labels != nil {
			record = append(record, labels.Value(i))
		}
		err = w.Write(record)
		if err != nil {
			return fmt.Errorf("writing CSV row %d: %v", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}
