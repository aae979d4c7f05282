package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/scion/expr"
	"github.com/pbanos/scion/expr/csv"
	"github.com/pbanos/scion/expr/mongomatrix"
	"github.com/pbanos/scion/expr/sqlmatrix"
	"github.com/pbanos/scion/expr/sqlmatrix/pgadapter"
	"github.com/pbanos/scion/expr/sqlmatrix/sqlite3adapter"
	mgo "gopkg.in/mgo.v2"
)

// dataInput resolves the --input flag of the data-consuming commands
// into an expression matrix: a CSV file (or STDIN), an SQLite3 file,
// a PostgreSQL connection URL or a MongoDB connection URL.
type dataInput struct {
	*rootCmdConfig
	input string
	table string
}

func (di *dataInput) labeledMatrix(ctx context.Context, label string) (*expr.Matrix, *expr.Labels, error) {
	switch {
	case strings.HasPrefix(di.input, "postgresql://"):
		di.Logf("Creating PostgreSQL adapter for url %s to read expression matrix...", di.input)
		adapter, err := pgadapter.New(di.input)
		if err != nil {
			return nil, nil, err
		}
		return sqlmatrix.Load(ctx, adapter, di.table, label)
	case strings.HasPrefix(di.input, "mongodb://"):
		di.Logf("Dialing %s to read expression matrix...", di.input)
		session, err := mgo.Dial(di.input)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %v", di.input, err)
		}
		defer session.Close()
		return mongomatrix.Load(ctx, session, label)
	case strings.HasSuffix(di.input, ".db"):
		di.Logf("Creating SQLite3 adapter for file %s to read expression matrix...", di.input)
		adapter, err := sqlite3adapter.New(di.input)
		if err != nil {
			return nil, nil, err
		}
		return sqlmatrix.Load(ctx, adapter, di.table, label)
	}
	if di.input == "" {
		di.Logf("Reading expression matrix from STDIN...")
	} else {
		di.Logf("Opening %s to read expression matrix...", di.input)
	}
	return csv.ReadMatrixFromFilePath(di.input, label)
}

func (di *dataInput) newDataMatrix(ctx context.Context) (*expr.Matrix, error) {
	switch {
	case strings.HasPrefix(di.input, "postgresql://"):
		di.Logf("Creating PostgreSQL adapter for url %s to read expression matrix...", di.input)
		adapter, err := pgadapter.New(di.input)
		if err != nil {
			return nil, err
		}
		return sqlmatrix.LoadNewData(ctx, adapter, di.table)
	case strings.HasPrefix(di.input, "mongodb://"):
		di.Logf("Dialing %s to read expression matrix...", di.input)
		session, err := mgo.Dial(di.input)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %v", di.input, err)
		}
		defer session.Close()
		return mongomatrix.LoadNewData(ctx, session)
	case strings.HasSuffix(di.input, ".db"):
		di.Logf("Creating SQLite3 adapter for file %s to read expression matrix...", di.input)
		adapter, err := sqlite3adapter.New(di.input)
		if err != nil {
			return nil, err
		}
		return sqlmatrix.LoadNewData(ctx, adapter, di.table)
	}
	if di.input == "" {
		di.Logf("Reading expression matrix from STDIN...")
	} else {
		di.Logf("Opening %s to read expression matrix...", di.input)
	}
	return csv.ReadNewDataFromFilePath(di.input)
}

func outputFile(outputPath string) (*os.File, func(), error) {
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
