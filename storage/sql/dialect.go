package sql

import (
	sq "github.com/Masterminds/squirrel"
)

// Dialect selects the SQL driver and placeholder style a Store talks to.
// Adapted from the teacher's internal/materializer.MaterializationDialect
// enum, which switches on the same two backends for a different purpose
// (picking a CTE/window-function strategy); here it only picks a driver
// name and a squirrel placeholder format.
type Dialect int

const (
	// Postgres selects jackc/pgx's database/sql driver and $N placeholders.
	Postgres Dialect = iota
	// MySQL selects go-sql-driver/mysql and ? placeholders.
	MySQL
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	default:
		return "unknown"
	}
}

func (d Dialect) driverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case MySQL:
		return "mysql"
	default:
		return "pgx"
	}
}

func (d Dialect) placeholderFormat() sq.PlaceholderFormat {
	if d == MySQL {
		return sq.Question
	}

	return sq.Dollar
}
