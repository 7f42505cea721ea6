package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Database wraps one SQLite file holding a species' logical database.
type Database struct {
	db   *sql.DB
	name string
}

// Open opens (creating if necessary) the database file at path. The name is
// used in error messages, conventionally "<species>/<logical>".
func Open(path, name string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", name, err)
	}

	// Apply performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("applying pragma %q: %w (close: %v)", pragma, err, cerr)
			}
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	return &Database{db: db, name: name}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Name returns the identifier the database was opened under.
func (d *Database) Name() string {
	return d.name
}

// DB returns the underlying connection for query execution.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Ping verifies the database answers a trivial query.
func (d *Database) Ping(ctx context.Context) error {
	var one int
	if err := d.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("pinging %s: %w", d.name, err)
	}
	return nil
}

// InitSchema creates the tables of the given logical database.
func (d *Database) InitSchema(logical string) error {
	ddl, ok := Schemas[logical]
	if !ok {
		return fmt.Errorf("no schema for logical database %q", logical)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				fmt.Printf("Warning: failed to rollback schema transaction: %v\n", err)
			}
		}
	}()

	if _, err := tx.Exec(ddl); err != nil {
		return fmt.Errorf("creating schema for %s: %w", d.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	committed = true
	return nil
}

// TableCounts returns row counts per regular table, skipping full-text
// indexes and their shadow tables.
func (d *Database) TableCounts() (map[string]int, error) {
	rows, err := d.db.Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name NOT LIKE '%_fts%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing tables in %s: %w", d.name, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}
	sort.Strings(tables)

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		// table names come from sqlite_master, not user input
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + quoteIdent(table)).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s.%s: %w", d.name, table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Optimize runs PRAGMA optimize to update query planner statistics.
func (d *Database) Optimize() error {
	_, err := d.db.Exec("PRAGMA optimize")
	return err
}

// Analyze updates table statistics used by the query planner.
func (d *Database) Analyze() error {
	_, err := d.db.Exec("ANALYZE")
	return err
}

// Vacuum rebuilds the database file, reclaiming free pages.
func (d *Database) Vacuum() error {
	_, err := d.db.Exec("VACUUM")
	return err
}

// WALCheckpoint flushes the write-ahead log into the main database file.
func (d *Database) WALCheckpoint() error {
	_, err := d.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}
