package db

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// SQLite's built-in lower() only folds ASCII letters; unicode_lower folds
// the full Unicode range so searches match accented capitals.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("unicode_lower", 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
}

// containsFold returns a case-insensitive "column contains ?" predicate
// and the argument to bind for it
func (q *Queries) containsFold(column, search string) (string, string) {
	if q.dialect == Postgres {
		return column + ` ILIKE ? ESCAPE '\'`, "%" + escapeLike(search) + "%"
	}
	return `unicode_lower(` + column + `) LIKE ? ESCAPE '\'`, "%" + escapeLike(strings.ToLower(search)) + "%"
}
