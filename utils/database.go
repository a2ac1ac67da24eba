package utils

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// MemoryDatabaseURL opens a private in-memory SQLite database.
const MemoryDatabaseURL = "sqlite:///:memory:"

type dialect struct {
	name   string
	driver string
	schema string
	// numbered reports whether placeholders are written $1, $2, ...
	numbered bool
}

var (
	postgresDialect = dialect{
		name:     "postgres",
		driver:   "pgx",
		numbered: true,
		schema: `
	CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	}

	sqliteDialect = dialect{
		name:   "sqlite",
		driver: "sqlite",
		schema: `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	}
)

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseDatabaseURL maps a connection string onto a dialect and the DSN its
// driver expects.
func parseDatabaseURL(databaseURL string) (dialect, string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgresDialect, databaseURL, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		dsn := strings.TrimPrefix(databaseURL, "sqlite://")
		// sqlite:///relative.db and sqlite:////abs/path.db
		dsn = strings.TrimPrefix(dsn, "/")
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqliteDialect, dsn, nil
	case strings.HasPrefix(databaseURL, "file:"):
		return sqliteDialect, databaseURL, nil
	default:
		return dialect{}, "", fmt.Errorf("unsupported database url %q", redact(databaseURL))
	}
}

// redact strips anything after the scheme so credentials never reach logs.
func redact(databaseURL string) string {
	if i := strings.Index(databaseURL, "://"); i >= 0 {
		return databaseURL[:i+3] + "..."
	}
	return "..."
}

// Open connects to the database named by databaseURL and creates the tasks
// table when it does not exist yet.
func Open(ctx context.Context, databaseURL string) (*TaskStore, error) {
	d, dsn, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}

	if d.name == sqliteDialect.name {
		// SQLite serialises writers; an in-memory database also exists only
		// on the connection that created it.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(initCtx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &TaskStore{db: db, dialect: d}, nil
}

// Close releases every pooled connection.
func (s *TaskStore) Close() error {
	return s.db.Close()
}

