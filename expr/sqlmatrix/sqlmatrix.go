/*
Package sqlmatrix loads expression matrices from SQL databases
through an Adapter interface that hides the differences between
backends, currently PostgreSQL and SQLite3.

The expected layout is one table with a row per cell: an optional
"cell" text column with the cell name, one numeric column per gene
and a text column with the class label.
*/
package sqlmatrix

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/scion/expr"
)

// cellColumn is the reserved column name for cell names.
const cellColumn = "cell"

/*
Adapter is an interface for objects granting access to a specific
SQL database implementation to load expression matrices from it.
*/
type Adapter interface {
	// DB returns the handle to the underlying database.
	DB() *sql.DB
	// ColumnName takes the name of a gene or label and returns the
	// name for its column in the table, or an error if the name
	// cannot be used as a column.
	ColumnName(name string) (string, error)
	// Placeholder returns the placeholder for the i-th (1-based)
	// parameter of a query.
	Placeholder(i int) string
}

/*
Load takes a context, an Adapter, the name of the table holding the
cells and the name of the label column, and reads the whole table
into an expression matrix and a label vector. Every column other
than the label and the optional "cell" column is taken as a gene.
*/
func Load(ctx context.Context, a Adapter, table, labelColumn string) (*expr.Matrix, *expr.Labels, error) {
	columns, err := tableColumns(ctx, a, table)
	if err != nil {
		return nil, nil, fmt.Errorf("loading matrix from %s: %v", table, err)
	}
	var genes []string
	hasCell, hasLabel := false, false
	for _, c := range columns {
		switch c {
		case cellColumn:
			hasCell = true
		case labelColumn:
			hasLabel = true
		default:
			genes = append(genes, c)
		}
	}
	if !hasLabel {
		return nil, nil, fmt.Errorf("loading matrix from %s: no column named %s", table, labelColumn)
	}
	m, labelValues, err := scanRows(ctx, a, table, genes, hasCell, labelColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("loading matrix from %s: %v", table, err)
	}
	labels, err := expr.NewLabels(labelValues)
	if err != nil {
		return nil, nil, fmt.Errorf("loading matrix from %s: %v", table, err)
	}
	return m, labels, nil
}

/*
LoadNewData is like Load but for tables without a label column:
every column other than the optional "cell" one is taken as a gene.
It returns only the matrix.
*/
func LoadNewData(ctx context.Context, a Adapter, table string) (*expr.Matrix, error) {
	columns, err := tableColumns(ctx, a, table)
	if err != nil {
		return nil, fmt.Errorf("loading matrix from %s: %v", table, err)
	}
	var genes []string
	hasCell := false
	for _, c := range columns {
		if c == cellColumn {
			hasCell = true
			continue
		}
		genes = append(genes, c)
	}
	m, _, err := scanRows(ctx, a, table, genes, hasCell, "")
	if err != nil {
		return nil, fmt.Errorf("loading matrix from %s: %v", table, err)
	}
	return m, nil
}

func tableColumns(ctx context.Context, a Adapter, table string) ([]string, error) {
	rows, err := a.DB().QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s" LIMIT 0`, table))
	if err != nil {
		return nil, fmt.Errorf("listing columns: %v", err)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("listing columns: %v", err)
	}
	return columns, rows.Err()
}

func scanRows(ctx context.Context, a Adapter, table string, genes []string, hasCell bool, labelColumn string) (*expr.Matrix, []string, error) {
	if len(genes) == 0 {
		return nil, nil, expr.ErrNoGenes
	}
	geneColumns := make([]string, len(genes))
	for i, g := range genes {
		c, err := a.ColumnName(g)
		if err != nil {
			return nil, nil, err
		}
		geneColumns[i] = c
	}
	var queryBuffer bytes.Buffer
	queryBuffer.WriteString(`SELECT "`)
	queryBuffer.WriteString(strings.Join(geneColumns, `", "`))
	queryBuffer.WriteString(`"`)
	if hasCell {
		queryBuffer.WriteString(fmt.Sprintf(`, "%s"`, cellColumn))
	}
	if labelColumn != "" {
		c, err := a.ColumnName(labelColumn)
		if err != nil {
			return nil, nil, err
		}
		queryBuffer.WriteString(fmt.Sprintf(`, "%s"`, c))
	}
	queryBuffer.WriteString(fmt.Sprintf(` FROM "%s"`, table))
	rows, err := a.DB().QueryContext(ctx, queryBuffer.String())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var cells []string
	var labelValues []string
	var values [][]float64
	for rows.Next() {
		geneValues := make([]sql.NullFloat64, len(genes))
		scanTargets := make([]interface{}, 0, len(genes)+2)
		for i := range geneValues {
			scanTargets = append(scanTargets, &geneValues[i])
		}
		var cell, label sql.NullString
		if hasCell {
			scanTargets = append(scanTargets, &cell)
		}
		if labelColumn != "" {
			scanTargets = append(scanTargets, &label)
		}
		err = rows.Scan(scanTargets...)
		if err != nil {
			return nil, nil, err
		}
		rowValues := make([]float64, len(genes))
		for i, v := range geneValues {
			if !v.Valid {
				return nil, nil, fmt.Errorf("row %d has a NULL value for gene %s", len(values), genes[i])
			}
			rowValues[i] = v.Float64
		}
		if hasCell {
			cells = append(cells, cell.String)
		}
		if labelColumn != "" {
			labelValues = append(labelValues, label.String)
		}
		values = append(values, rowValues)
	}
	err = rows.Err()
	if err != nil {
		return nil, nil, err
	}
	m, err := expr.NewWithCells(cells, genes, values)
	if err != nil {
		return nil, nil, err
	}
	return m, labelValues, nil
}
