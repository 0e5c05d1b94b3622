package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Catalog indexes saved runs so they can be listed without reading every
// run directory.
type Catalog struct {
	conn *sqlx.DB
}

// CatalogEntry is one row of the runs table.
type CatalogEntry struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Bodies      string  `db:"bodies"`
	Integrator  string  `db:"integrator"`
	StepPolicy  string  `db:"step_policy"`
	Dt          float64 `db:"dt"`
	Steps       int     `db:"steps"`
	StepsTaken  int     `db:"steps_taken"`
	Duration    float64 `db:"duration"`
	CreatedUnix int64   `db:"created_unix"`
	Failure     string  `db:"failure"`
}

func (e CatalogEntry) Created() time.Time {
	return time.Unix(e.CreatedUnix, 0)
}

func (e CatalogEntry) Failed() bool {
	return e.Failure != ""
}

// OpenCatalog opens or creates the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	c := &Catalog{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		bodies TEXT NOT NULL,
		integrator TEXT NOT NULL,
		step_policy TEXT NOT NULL,
		dt REAL NOT NULL,
		steps INTEGER NOT NULL,
		steps_taken INTEGER NOT NULL,
		duration REAL NOT NULL,
		created_unix INTEGER NOT NULL,
		failure TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_unix);
	`
	_, err := c.conn.Exec(schema)
	return err
}

// Record inserts or replaces the entry for meta.
func (c *Catalog) Record(meta RunMetadata) error {
	e := CatalogEntry{
		ID:          meta.ID,
		Dt:          meta.Dt,
		Steps:       meta.Steps,
		StepsTaken:  meta.StepsTaken,
		CreatedUnix: meta.Timestamp.Unix(),
		Failure:     meta.Error,
	}
	if sc := meta.Scenario; sc != nil {
		e.Name = sc.Name
		e.Bodies = strings.Join(sc.Names, ", ")
		e.Integrator = sc.Integrator
		e.StepPolicy = sc.StepPolicy
		e.Duration = sc.Duration
	}

	_, err := c.conn.NamedExec(`INSERT OR REPLACE INTO runs
		(id, name, bodies, integrator, step_policy, dt, steps, steps_taken, duration, created_unix, failure)
		VALUES (:id, :name, :bodies, :integrator, :step_policy, :dt, :steps, :steps_taken, :duration, :created_unix, :failure)`, e)
	return err
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (c *Catalog) Recent(limit int) ([]CatalogEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	entries := []CatalogEntry{}
	err := c.conn.Select(&entries,
		"SELECT * FROM runs ORDER BY created_unix DESC, rowid DESC LIMIT ?",
		limit,
	)
	return entries, err
}

func (c *Catalog) Get(id string) (*CatalogEntry, error) {
	var e CatalogEntry
	if err := c.conn.Get(&e, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &e, nil
}

// Resolve expands an ID prefix. It fails when no run or more than one run
// matches. The prefix is compared literally, so % and _ match only
// themselves.
func (c *Catalog) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", errors.New("empty run id")
	}
	var ids []string
	if err := c.conn.Select(&ids, "SELECT id FROM runs WHERE substr(id, 1, length(?)) = ? LIMIT 2", prefix, prefix); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("run %s: %w", prefix, sql.ErrNoRows)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

func (c *Catalog) Remove(id string) error {
	_, err := c.conn.Exec("DELETE FROM runs WHERE id = ?", id)
	return err
}

func (c *Catalog) Count() (int, error) {
	var n int
	err := c.conn.Get(&n, "SELECT COUNT(*) FROM runs")
	return n, err
}
