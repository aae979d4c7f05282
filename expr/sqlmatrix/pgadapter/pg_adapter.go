/*
Package pgadapter provides an implementation of the
Adapter interface in the sqlmatrix package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/scion/expr/sqlmatrix"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns an
Adapter that works on the database or an error if it fails to
connect to it.
*/
func New(url string) (sqlmatrix.Adapter, error) {
	db, err := sql.Open("postgres", url)
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
	return fmt.Sprintf("$%d", i)
}
