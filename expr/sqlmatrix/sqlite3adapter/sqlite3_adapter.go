/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqlmatrix package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/scion/expr/sqlmatrix"

	// Import of SQLite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter
that works on the database or an error if it fails to open it.
*/
func New(filepath string) (sqlmatrix.Adapter, error) {
	db, err := sql.Open("sqlite3", filepath)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as gene or label name`, name)
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`gene or label name '%s' contains invalid character '"'`, name)
	}
	return name, nil
}

func (a *adapter) Placeholder(i int) string {
	return "?"
}
