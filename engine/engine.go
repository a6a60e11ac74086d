package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) { return sql.Open("sqlite", dsn) }

// OpenScoring opens a SQLite database and ensures the MaxSim scalar
// functions are registered with the driver, so queries on the returned
// handle can call maxsim_sum and maxsim_mean directly.
func OpenScoring(dsn string) (*sql.DB, error) {
	if err := RegisterMaxSimFunctions(); err != nil {
		return nil, err
	}
	return Open(dsn)
}
