package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	stdfs "io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the database file used when no path is configured.
const DefaultPath = "smart_text_vision.db"

// noTxMarker at the top of a script makes it run outside a transaction.
const noTxMarker = "-- NO_TX"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.(up|down)\.sql$`)

type migration struct {
	version  int
	name     string
	up, down string
}

// Open opens (or creates) the local SQLite database file and brings its schema up to date.
// Migrations are embedded .sql files named 0001_name.up.sql / 0001_name.down.sql.
func Open(path string) (*sql.DB, error) {
	d, err := OpenRaw(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// OpenRaw opens the database file with pragmas set but leaves the schema untouched.
func OpenRaw(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	// WAL is unavailable for in-memory databases.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	for _, pragma := range []string{`PRAGMA busy_timeout=5000`, `PRAGMA foreign_keys=ON`} {
		if _, err := d.Exec(pragma); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return d, nil
}

// Migrate applies every embedded migration that has not been recorded yet, in version order.
func Migrate(d *sql.DB) error {
	migs, err := migrations()
	if err != nil {
		return err
	}
	done, err := applied(d)
	if err != nil {
		return err
	}
	seen := make(map[int]bool, len(done))
	for _, v := range done {
		seen[v] = true
	}
	for _, m := range migs {
		if seen[m.version] {
			continue
		}
		if m.up == "" {
			return fmt.Errorf("missing up migration for version %04d", m.version)
		}
		err := runScript(d, m.up,
			`INSERT INTO schema_migrations(version, name, applied_at) VALUES(?, ?, ?)`,
			m.version, m.name, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("migration %04d_%s: %w", m.version, m.name, err)
		}
	}
	return nil
}

// RollbackLast reverts the most recently applied migration using its down script.
// It is a no-op on a database with no recorded migrations.
func RollbackLast(d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	version, err := Version(d)
	if err != nil || version == 0 {
		return err
	}
	migs, err := migrations()
	if err != nil {
		return err
	}
	for _, m := range migs {
		if m.version != version {
			continue
		}
		if m.down == "" {
			break
		}
		return runScript(d, m.down, `DELETE FROM schema_migrations WHERE version = ?`, version)
	}
	return fmt.Errorf("no down migration found for version %d", version)
}

// Version returns the newest applied migration version, or 0 when none is recorded.
func Version(d *sql.DB) (int, error) {
	done, err := applied(d)
	if err != nil || len(done) == 0 {
		return 0, err
	}
	return done[len(done)-1], nil
}

// runScript executes an embedded script and the bookkeeping statement together,
// inside one transaction unless the script opts out with the NO_TX marker.
func runScript(d *sql.DB, file, bookkeeping string, args ...any) error {
	raw, err := migrationsFS.ReadFile(file)
	if err != nil {
		return err
	}
	text := string(raw)
	if strings.HasPrefix(strings.TrimSpace(text), noTxMarker) {
		if _, err := d.Exec(text); err != nil {
			return err
		}
		_, err := d.Exec(bookkeeping, args...)
		return err
	}
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(text); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(bookkeeping, args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// migrations lists the embedded scripts paired by version, oldest first.
func migrations() ([]migration, error) {
	paths, err := stdfs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	byVersion := map[int]*migration{}
	for _, p := range paths {
		parts := migFileRe.FindStringSubmatch(path.Base(p))
		if parts == nil {
			continue
		}
		v, _ := strconv.Atoi(parts[1])
		m, ok := byVersion[v]
		if !ok {
			m = &migration{version: v, name: parts[2]}
			byVersion[v] = m
		}
		if parts[3] == "up" {
			m.up = p
		} else {
			m.down = p
		}
	}
	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// applied returns the recorded versions in ascending order. The bookkeeping
// table is created on first use.
func applied(d *sql.DB) ([]int, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT    NOT NULL DEFAULT '',
		applied_at INTEGER NOT NULL
	)`
	if _, err := d.Exec(ddl); err != nil {
		return nil, fmt.Errorf("schema_migrations: %w", err)
	}
	rows, err := d.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
