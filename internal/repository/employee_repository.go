package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/repository/builder"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects the SQL flavour of the underlying database.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

const employeesTable = "employees"

var employeeColumns = []string{"id", "name", "age", "salary", "department", "role"}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	age INTEGER NOT NULL CHECK (age >= 18),
	salary REAL NOT NULL CHECK (salary >= 0),
	department TEXT NOT NULL,
	role TEXT NOT NULL
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL CHECK (age >= 18),
	salary NUMERIC(14, 2) NOT NULL CHECK (salary >= 0),
	department TEXT NOT NULL,
	role TEXT NOT NULL
)`

// Compile-time interface guard.
var _ domain.RecordStore = (*SQLEmployeeRepository)(nil)

// SQLEmployeeRepository stores employees in SQLite or Postgres.
type SQLEmployeeRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLEmployeeRepository creates a new instance of SQLEmployeeRepository
func NewSQLEmployeeRepository(db *sql.DB, dialect Dialect) *SQLEmployeeRepository {
	return &SQLEmployeeRepository{db: db, dialect: dialect}
}

func (r *SQLEmployeeRepository) newBuilder() *builder.SQLBuilder {
	if r.dialect == DialectPostgres {
		return builder.NewSQLBuilderWithFormat(builder.Dollar)
	}
	return builder.NewSQLBuilderWithFormat(builder.Question)
}

func (r *SQLEmployeeRepository) CreateSchema(ctx context.Context) error {
	ddl := sqliteSchema
	if r.dialect == DialectPostgres {
		ddl = postgresSchema
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return domain.NewStoreError("create schema", err)
	}
	return nil
}

func (r *SQLEmployeeRepository) Insert(ctx context.Context, e domain.NewEmployee) (int64, error) {
	b := r.newBuilder()
	b.Insert(employeesTable, "name", "age", "salary", "department", "role").
		Values(e.Name, e.Age, r.salaryArg(e), e.Department, e.Role)

	if r.dialect == DialectPostgres {
		query, args := b.Returning("id").Build()
		var id int64
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, classifyWriteError(err)
		}
		return id, nil
	}

	query, args := b.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classifyWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.NewStoreError("insert", err)
	}
	return id, nil
}

// salaryArg binds salary as a float for SQLite's REAL column and as exact
// decimal text for Postgres NUMERIC.
func (r *SQLEmployeeRepository) salaryArg(e domain.NewEmployee) interface{} {
	if r.dialect == DialectPostgres {
		return e.Salary.String()
	}
	return e.Salary.InexactFloat64()
}

func (r *SQLEmployeeRepository) Query(ctx context.Context, p domain.Predicate) ([]domain.Employee, error) {
	b := r.newBuilder()
	b.Select(employeeColumns...).From(employeesTable)

	switch {
	case p.Kind == domain.MatchID:
		b.Where("id = ?", p.ID)
	case p.IsSubstring():
		b.Where(fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, p.Column()), "%"+escapeLike(p.Substring)+"%")
	case p.IsOrdering():
		// No tie-breaker: equal keys come back in engine order.
		b.OrderBy(p.Column() + " ASC")
	default:
		return nil, domain.NewStoreError("query", fmt.Errorf("unsupported predicate %s", p.Kind))
	}

	query, args, err := b.BuildSafe()
	if err != nil {
		return nil, domain.NewStoreError("query", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError(p.Kind.String(), err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Age, &e.Salary, &e.Department, &e.Role); err != nil {
			return nil, domain.NewStoreError("scan", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(p.Kind.String(), err)
	}
	return employees, nil
}

func (r *SQLEmployeeRepository) Close() error {
	return r.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// classifyWriteError separates rows the engine refused from other failures.
func classifyWriteError(err error) error {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_MISMATCH:
			return domain.NewConstraintError(err)
		}
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		// 23: integrity constraint violation, 22: data exception.
		switch pgErr.Code.Class() {
		case "23", "22":
			return domain.NewConstraintError(err)
		}
	}

	return domain.NewStoreError("insert", err)
}
