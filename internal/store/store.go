// Package store persists a finished analysis snapshot to SQLite so
// downstream collaborators (visualizer, documentation generator) can re-read
// it without re-running the pipeline. The engine itself never touches this
// package: its contract is in-memory collections, and this snapshot is a
// CLI convenience on top.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jward/strata/internal/model"
)

// Store is the SQLite data access layer for the snapshot schema.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all snapshot tables. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS components (
  id           TEXT PRIMARY KEY,
  name         TEXT NOT NULL,
  package      TEXT,
  kind         TEXT,
  language     TEXT,
  file_path    TEXT,
  extends      TEXT,
  layer        TEXT NOT NULL,
  category     TEXT NOT NULL,
  placeholder  BOOLEAN DEFAULT FALSE,
  method_count INTEGER DEFAULT 0,
  field_count  INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS relationships (
  source_id    TEXT NOT NULL,
  target_id    TEXT NOT NULL,
  type         TEXT NOT NULL,
  PRIMARY KEY (source_id, target_id, type)
);

CREATE TABLE IF NOT EXISTS navigation_flows (
  flow_id      TEXT PRIMARY KEY,
  source_id    TEXT NOT NULL,
  target_id    TEXT NOT NULL,
  type         TEXT NOT NULL,
  conditions   TEXT
);

CREATE TABLE IF NOT EXISTS user_flows (
  id               TEXT PRIMARY KEY,
  flow_type        TEXT NOT NULL,
  business_context TEXT,
  actions          TEXT
);

CREATE TABLE IF NOT EXISTS business_processes (
  process_id   TEXT PRIMARY KEY,
  name         TEXT NOT NULL,
  type         TEXT NOT NULL,
  criticality  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS process_steps (
  process_id   TEXT NOT NULL REFERENCES business_processes(process_id),
  ordinal      INTEGER NOT NULL,
  screen_id    TEXT NOT NULL,
  flow_type    TEXT NOT NULL,
  PRIMARY KEY (process_id, ordinal)
);

CREATE TABLE IF NOT EXISTS project_dependencies (
  scope        TEXT NOT NULL,
  grp          TEXT NOT NULL,
  artifact     TEXT NOT NULL,
  version      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_id);
CREATE INDEX IF NOT EXISTS idx_components_layer ON components(layer);
`

// Snapshot bundles everything one save writes.
type Snapshot struct {
	Components      []*model.Component
	Relationships   []model.Relationship
	NavigationFlows []model.NavigationFlow
	UserFlows       []model.UserFlowComponent
	Processes       []model.BusinessProcess
	Dependencies    []model.ProjectDependency
}

// Save replaces the stored snapshot within a single transaction.
func (s *Store) Save(snap Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"process_steps", "business_processes", "user_flows",
		"navigation_flows", "relationships", "components", "project_dependencies",
	} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("save snapshot: clear %s: %w", table, err)
		}
	}

	for _, c := range snap.Components {
		extends := ""
		if c.Extends != nil {
			extends = c.Extends.TargetID()
		}
		if _, err := tx.Exec(
			`INSERT INTO components (id, name, package, kind, language, file_path, extends, layer, category, placeholder, method_count, field_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Package, string(c.Kind), string(c.Language), c.FilePath,
			extends, string(c.Layer), string(c.Category), c.Placeholder,
			len(c.Methods), len(c.Fields),
		); err != nil {
			return fmt.Errorf("save snapshot: component %q: %w", c.ID, err)
		}
	}

	for _, r := range snap.Relationships {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO relationships (source_id, target_id, type) VALUES (?, ?, ?)`,
			r.SourceID, r.TargetID, string(r.Type),
		); err != nil {
			return fmt.Errorf("save snapshot: relationship %s->%s: %w", r.SourceID, r.TargetID, err)
		}
	}

	for _, f := range snap.NavigationFlows {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO navigation_flows (flow_id, source_id, target_id, type, conditions) VALUES (?, ?, ?, ?, ?)`,
			f.FlowID, f.SourceScreenID, f.TargetScreenID, string(f.Type), strings.Join(f.Conditions, ";"),
		); err != nil {
			return fmt.Errorf("save snapshot: flow %q: %w", f.FlowID, err)
		}
	}

	for _, uf := range snap.UserFlows {
		if _, err := tx.Exec(
			`INSERT INTO user_flows (id, flow_type, business_context, actions) VALUES (?, ?, ?, ?)`,
			uf.ID, string(uf.FlowType), uf.BusinessContext, strings.Join(uf.Actions, ";"),
		); err != nil {
			return fmt.Errorf("save snapshot: user flow %q: %w", uf.ID, err)
		}
	}

	for _, p := range snap.Processes {
		if _, err := tx.Exec(
			`INSERT INTO business_processes (process_id, name, type, criticality) VALUES (?, ?, ?, ?)`,
			p.ProcessID, p.Name, string(p.Type), string(p.Criticality),
		); err != nil {
			return fmt.Errorf("save snapshot: process %q: %w", p.ProcessID, err)
		}
		for i, step := range p.Steps {
			if _, err := tx.Exec(
				`INSERT INTO process_steps (process_id, ordinal, screen_id, flow_type) VALUES (?, ?, ?, ?)`,
				p.ProcessID, i, step.ScreenID, string(step.FlowType),
			); err != nil {
				return fmt.Errorf("save snapshot: process step %s/%d: %w", p.ProcessID, i, err)
			}
		}
	}

	for _, d := range snap.Dependencies {
		if _, err := tx.Exec(
			`INSERT INTO project_dependencies (scope, grp, artifact, version) VALUES (?, ?, ?, ?)`,
			d.Scope, d.Group, d.Artifact, d.Version,
		); err != nil {
			return fmt.Errorf("save snapshot: dependency %s:%s: %w", d.Group, d.Artifact, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

// ComponentRow is the flat shape stored per component.
type ComponentRow struct {
	ID          string
	Name        string
	Package     string
	Kind        string
	Language    string
	FilePath    string
	Extends     string
	Layer       string
	Category    string
	Placeholder bool
}

// Components reads back all stored component rows, ordered by id.
func (s *Store) Components() ([]ComponentRow, error) {
	rows, err := s.db.Query(
		`SELECT id, name, package, kind, language, file_path, extends, layer, category, placeholder
		 FROM components ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	var out []ComponentRow
	for rows.Next() {
		var c ComponentRow
		if err := rows.Scan(&c.ID, &c.Name, &c.Package, &c.Kind, &c.Language,
			&c.FilePath, &c.Extends, &c.Layer, &c.Category, &c.Placeholder); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Relationships reads back all stored edges, ordered by source.
func (s *Store) Relationships() ([]model.Relationship, error) {
	rows, err := s.db.Query(
		`SELECT source_id, target_id, type FROM relationships ORDER BY source_id, target_id, type`)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	defer rows.Close()

	var out []model.Relationship
	for rows.Next() {
		var r model.Relationship
		var typ string
		if err := rows.Scan(&r.SourceID, &r.TargetID, &typ); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		r.Type = model.RelationType(typ)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountsByLayer aggregates stored components per layer.
func (s *Store) CountsByLayer() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT layer, COUNT(*) FROM components GROUP BY layer`)
	if err != nil {
		return nil, fmt.Errorf("count by layer: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var layer string
		var n int
		if err := rows.Scan(&layer, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[layer] = n
	}
	return counts, rows.Err()
}
