package store

import "strconv"

const helloQuery = `SELECT 'hello world from pg'`

type dialect string

const (
	dialectSQLite   dialect = "sqlite3"
	dialectMySQL    dialect = "mysql"
	dialectPostgres dialect = "postgres"
)

// placeholder returns the n-th (1-based) bind parameter.
func (d dialect) placeholder(n int) string {
	if d == dialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
