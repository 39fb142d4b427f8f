package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/inferlab/unload/cmd/formatters"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
)

// ErrUnknownScheme is returned for database URLs no driver can serve
var ErrUnknownScheme = errors.New("unsupported database URL scheme")

// Driver performs the database-specific extraction for one batch.
type Driver interface {
	// Unload runs query and streams every result row through formatter
	// into w.
	Unload(ctx context.Context, query string, formatter formatters.Formatter, w io.Writer) error
}

// LoadDriver selects a driver based on the database URL scheme.
func LoadDriver(dbURL string) (Driver, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseURLInvalid, err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		// lib/pq accepts connection URLs directly
		return &sqlDriver{driverName: "postgres", dsn: dbURL}, nil
	case "mysql":
		return &sqlDriver{driverName: "mysql", dsn: mysqlDSN(u)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, u.Scheme)
	}
}

// mysqlDSN converts a mysql:// URL into the go-sql-driver DSN form
// user:password@tcp(host:port)/dbname.
func mysqlDSN(u *url.URL) string {
	var dsn strings.Builder
	if u.User != nil {
		dsn.WriteString(u.User.Username())
		if password, ok := u.User.Password(); ok {
			dsn.WriteString(":")
			dsn.WriteString(password)
		}
		dsn.WriteString("@")
	}
	host := u.Host
	if u.Port() == "" {
		host += ":3306"
	}
	fmt.Fprintf(&dsn, "tcp(%s)/%s", host, strings.TrimPrefix(u.Path, "/"))
	return dsn.String()
}

// sqlDriver implements Driver over database/sql for any registered driver.
type sqlDriver struct {
	driverName string
	dsn        string
}

func (d *sqlDriver) Unload(ctx context.Context, query string, formatter formatters.Formatter, w io.Writer) error {
	db, err := sql.Open(d.driverName, d.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return unloadRows(ctx, db, query, formatter, w)
}

// unloadRows streams every row of query through formatter into w.
func unloadRows(ctx context.Context, db *sql.DB, query string, formatter formatters.Formatter, w io.Writer) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read result columns: %w", err)
	}

	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if err := formatter.WriteRow(w, values); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return rows.Err()
}
