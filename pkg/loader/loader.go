// Package loader bulk-loads tab-separated genome dump files into the
// per-species SQLite databases, creating schemas on demand and keeping the
// full-text sidecar tables in sync with their content tables.
//
// Dump files are named after the table they fill: gene.tsv, gene.tsv.gz or
// gene.tsv.zst. Columns follow the fixed order published by db.TableColumns;
// the marker \N denotes NULL.
package loader

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/log"
	"github.com/genomehub/unisearch/pkg/species"
)

const nullMarker = `\N`

// Stats summarizes one loaded dump file.
type Stats struct {
	Table   string
	Rows    int64
	Skipped int64
}

type Loader struct {
	provider *db.Provider
	logger   *log.Logger
}

func New(provider *db.Provider) *Loader {
	return &Loader{
		provider: provider,
		logger:   log.ForService("loader"),
	}
}

// LoadDir loads every recognizable dump file in dir into the species'
// logical database, in file name order. Files naming tables the logical
// database does not carry are skipped with a warning.
func (l *Loader) LoadDir(ctx context.Context, sp *species.Species, logical, dir string) ([]Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dump directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isDump(entry.Name()) {
			continue
		}
		if _, ok := db.TableColumns(logical, TableForFile(entry.Name())); !ok {
			l.logger.Warnf("skipping %s: %s has no table %q", entry.Name(), logical, TableForFile(entry.Name()))
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no loadable dump files in %s", dir)
	}

	var all []Stats
	for _, path := range paths {
		stats, err := l.LoadFile(ctx, sp, logical, path)
		if err != nil {
			return all, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}
		l.logger.Infof("loaded %d rows into %s/%s.%s (%d skipped)",
			stats.Rows, sp.Name, logical, stats.Table, stats.Skipped)
		all = append(all, stats)
	}
	return all, nil
}

// LoadFile loads one dump file. The target table is derived from the file
// name. Re-loading a file replaces rows sharing a primary key.
func (l *Loader) LoadFile(ctx context.Context, sp *species.Species, logical, path string) (Stats, error) {
	table := TableForFile(path)
	cols, ok := db.TableColumns(logical, table)
	if !ok {
		return Stats{}, fmt.Errorf("%s has no loadable table %q", logical, table)
	}

	database, err := l.provider.Create(sp, logical)
	if err != nil {
		return Stats{}, err
	}

	reader, err := openDump(path)
	if err != nil {
		return Stats{}, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			l.logger.Warnf("closing %s: %v", path, err)
		}
	}()

	return l.load(ctx, database, logical, table, cols, reader)
}

func (l *Loader) load(ctx context.Context, database *db.Database, logical, table string, cols []string, r io.Reader) (Stats, error) {
	stats := Stats{Table: table}

	tx, err := database.DB().BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("beginning load transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				fmt.Printf("Warning: failed to rollback load transaction: %v\n", err)
			}
		}
	}()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders))
	if err != nil {
		return stats, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			fmt.Printf("Warning: failed to close statement: %v\n", err)
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != len(cols) {
			stats.Skipped++
			continue
		}

		args := make([]any, len(fields))
		for i, field := range fields {
			if field == nullMarker {
				continue
			}
			args[i] = field
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return stats, fmt.Errorf("inserting into %s: %w", table, err)
		}
		stats.Rows++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading dump: %w", err)
	}

	// the sidecar is rebuilt inside the same transaction so MATCH queries
	// never observe the table and its index out of sync
	if sidecar, ok := db.Sidecar(logical, table); ok {
		if err := rebuildSidecar(ctx, tx, table, sidecar); err != nil {
			return stats, err
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing load: %w", err)
	}
	committed = true
	return stats, nil
}

func rebuildSidecar(ctx context.Context, tx *sql.Tx, table string, sidecar db.FTSSidecar) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+sidecar.Table); err != nil {
		return fmt.Errorf("clearing %s: %w", sidecar.Table, err)
	}

	cols := strings.Join(sidecar.Columns, ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", sidecar.Table, cols, cols, table)
	if _, err := tx.ExecContext(ctx, insert); err != nil {
		return fmt.Errorf("rebuilding %s: %w", sidecar.Table, err)
	}
	return nil
}

// TableForFile derives the target table from a dump file name, stripping
// the compression and .tsv extensions.
func TableForFile(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".zst", ".gz"} {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSuffix(base, ".tsv")
}

func isDump(name string) bool {
	return strings.HasSuffix(name, ".tsv") ||
		strings.HasSuffix(name, ".tsv.gz") ||
		strings.HasSuffix(name, ".tsv.zst")
}

// openDump opens a dump file, transparently decompressing by extension.
func openDump(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dump: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			if cerr := f.Close(); cerr != nil {
				return nil, fmt.Errorf("reading gzip header: %w (close: %v)", err, cerr)
			}
			return nil, fmt.Errorf("reading gzip header: %w", err)
		}
		return &dumpReader{Reader: gz, close: func() error {
			gerr := gz.Close()
			ferr := f.Close()
			if gerr != nil {
				return gerr
			}
			return ferr
		}}, nil

	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			if cerr := f.Close(); cerr != nil {
				return nil, fmt.Errorf("reading zstd header: %w (close: %v)", err, cerr)
			}
			return nil, fmt.Errorf("reading zstd header: %w", err)
		}
		return &dumpReader{Reader: zr, close: func() error {
			zr.Close()
			return f.Close()
		}}, nil

	default:
		return f, nil
	}
}

type dumpReader struct {
	io.Reader
	close func() error
}

func (d *dumpReader) Close() error {
	return d.close()
}
