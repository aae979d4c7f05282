/*
Package mongomatrix loads expression matrices from a MongoDB
database. Cells are documents in a "cells" collection with the
following shape:

	{
	  "cell": "AAACCTGAGAAACCAT",
	  "label": "tcell",
	  "expr": {"CD3E": 2.1, "CD19": 0, "NKG7": 0.4}
	}

The gene set of the matrix is the union of the genes of every
document; genes missing from a document are read as 0, the usual
sparse single-cell convention.
*/
package mongomatrix

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbanos/scion/expr"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const cellsCollectionName = "cells"

type cellDoc struct {
	Cell  string             `bson:"cell"`
	Label string             `bson:"label"`
	Expr  map[string]float64 `bson:"expr"`
}

/*
Load takes a context, a MongoDB session and the name of the label
field and reads every document of the "cells" collection on the
session's default database into an expression matrix and a label
vector. Documents are read in cell-name order so repeated loads
yield the same row order.
*/
func Load(ctx context.Context, session *mgo.Session, label string) (*expr.Matrix, *expr.Labels, error) {
	docs, genes, err := readCells(ctx, session, label)
	if err != nil {
		return nil, nil, err
	}
	m, labelValues, err := buildMatrix(docs, genes, true)
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
LoadNewData is like Load but ignores any label field and returns
only the matrix.
*/
func LoadNewData(ctx context.Context, session *mgo.Session) (*expr.Matrix, error) {
	docs, genes, err := readCells(ctx, session, "")
	if err != nil {
		return nil, err
	}
	m, _, err := buildMatrix(docs, genes, false)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func readCells(ctx context.Context, session *mgo.Session, label string) ([]*cellDoc, []string, error) {
	c := session.DB("").C(cellsCollectionName)
	iter := c.Find(nil).Sort("cell").Iter()
	defer iter.Close()
	geneSet := make(map[string]bool)
	var docs []*cellDoc
	doc := &cellDoc{}
	for iter.Next(doc) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if label != "" && doc.Label == "" {
			return nil, nil, fmt.Errorf("loading cells from mongo: document for cell %q has no %s", doc.Cell, label)
		}
		for g := range doc.Expr {
			geneSet[g] = true
		}
		docs = append(docs, doc)
		doc = &cellDoc{}
	}
	if err := iter.Err(); err != nil {
		return nil, nil, fmt.Errorf("loading cells from mongo: %v", err)
	}
	genes := make([]string, 0, len(geneSet))
	for g := range geneSet {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return docs, genes, nil
}

func buildMatrix(docs []*cellDoc, genes []string, withLabels bool) (*expr.Matrix, []string, error) {
	cells := make([]string, len(docs))
	values := make([][]float64, len(docs))
	var labelValues []string
	for i, doc := range docs {
		cells[i] = doc.Cell
		row := make([]float64, len(genes))
		for j, g := range genes {
			row[j] = doc.Expr[g]
		}
		values[i] = row
		if withLabels {
			labelValues = append(labelValues, doc.Label)
		}
	}
	m, err := expr.NewWithCells(cells, genes, values)
	if err != nil {
		return nil, nil, err
	}
	return m, labelValues, nil
}

/*
Write stores the given matrix and label vector as documents on the
"cells" collection of the session's default database, one document
per row. A nil label vector writes documents without a label field.
Rows without a cell name get a generated one from their index.
*/
func Write(ctx context.Context, session *mgo.Session, m *expr.Matrix, labels *expr.Labels) error {
	c := session.DB("").C(cellsCollectionName)
	genes := m.Genes()
	cells := m.Cells()
	for i := 0; i < m.Rows(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		exprDoc := make(map[string]float64, len(genes))
		for _, g := range genes {
			v, err := m.Value(i, g)
			if err != nil {
				return err
			}
			if v != 0 {
				exprDoc[g] = v
			}
		}
		cell := fmt.Sprintf("cell%d", i)
		if cells != nil {
			cell = cells[i]
		}
		doc := bson.M{"cell": cell, "expr": exprDoc}
		if labels != nil {
			doc["label"] = labels.Value(i)
		}
		err := c.Insert(doc)
		if err != nil {
			return fmt.Errorf("writing cell %q to mongo: %v", cell, err)
		}
	}
	return nil
}
