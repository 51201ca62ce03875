// Package scenario persists scenarios in SQLite.
package scenario

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kilianp07/linebalance/core/model"
	core "github.com/kilianp07/linebalance/core/scenario"
)

// SQLiteStore persists scenarios in a SQLite database. The project and the
// result are stored as JSON blobs; listing reads only the summary columns.
type SQLiteStore struct {
	db *sql.DB
	// Now is the clock used for timestamps.
	Now func() time.Time
}

const schema = `CREATE TABLE IF NOT EXISTS scenarios (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    version INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    houses INTEGER,
    packages INTEGER,
    total_cost REAL,
    total_weeks INTEGER,
    project BLOB NOT NULL,
    result BLOB
);`

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// single writer avoids SQLITE_BUSY on concurrent saves
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create scenarios table: %w", err)
	}
	return &SQLiteStore{db: db, Now: time.Now}, nil
}

// Save inserts or replaces the scenario, bumping its version.
func (s *SQLiteStore) Save(sc core.Scenario) (core.Scenario, error) {
	if err := core.Check(sc); err != nil {
		return core.Scenario{}, err
	}
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	project, err := json.Marshal(sc.Project)
	if err != nil {
		return core.Scenario{}, fmt.Errorf("encode project: %w", err)
	}
	var result []byte
	if sc.Result != nil {
		if result, err = json.Marshal(sc.Result); err != nil {
			return core.Scenario{}, fmt.Errorf("encode result: %w", err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return core.Scenario{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.Now().UTC()
	var version int
	var created int64
	err = tx.QueryRow(`SELECT version, created_at FROM scenarios WHERE id = ?`, sc.ID).Scan(&version, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sc.Version = 1
		sc.CreatedAt = now
	case err != nil:
		return core.Scenario{}, err
	default:
		sc.Version = version + 1
		sc.CreatedAt = time.Unix(0, created).UTC()
	}
	sc.UpdatedAt = now
	meta := core.MetadataOf(sc)

	_, err = tx.Exec(`INSERT INTO scenarios
        (id, name, description, version, created_at, updated_at, houses, packages, total_cost, total_weeks, project, result)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            description = excluded.description,
            version = excluded.version,
            updated_at = excluded.updated_at,
            houses = excluded.houses,
            packages = excluded.packages,
            total_cost = excluded.total_cost,
            total_weeks = excluded.total_weeks,
            project = excluded.project,
            result = excluded.result`,
		sc.ID, sc.Name, sc.Description, sc.Version, sc.CreatedAt.UnixNano(), sc.UpdatedAt.UnixNano(),
		meta.Houses, meta.Packages, meta.TotalCost, meta.TotalWeeks, project, result)
	if err != nil {
		return core.Scenario{}, err
	}
	if err := tx.Commit(); err != nil {
		return core.Scenario{}, err
	}
	return sc, nil
}

// Get returns the scenario with the given ID.
func (s *SQLiteStore) Get(id string) (core.Scenario, error) {
	var (
		sc               core.Scenario
		desc             sql.NullString
		created, updated int64
		project, result  []byte
	)
	err := s.db.QueryRow(`SELECT id, name, description, version, created_at, updated_at, project, result
        FROM scenarios WHERE id = ?`, id).
		Scan(&sc.ID, &sc.Name, &desc, &sc.Version, &created, &updated, &project, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Scenario{}, core.ErrNotFound
	}
	if err != nil {
		return core.Scenario{}, err
	}
	sc.Description = desc.String
	sc.CreatedAt = time.Unix(0, created).UTC()
	sc.UpdatedAt = time.Unix(0, updated).UTC()
	if err := json.Unmarshal(project, &sc.Project); err != nil {
		return core.Scenario{}, fmt.Errorf("decode project %s: %w", id, err)
	}
	if len(result) > 0 {
		sc.Result = &model.CalculationResult{}
		if err := json.Unmarshal(result, sc.Result); err != nil {
			return core.Scenario{}, fmt.Errorf("decode result %s: %w", id, err)
		}
	}
	return sc, nil
}

// List returns scenario summaries, most recent first.
func (s *SQLiteStore) List() ([]core.Metadata, error) {
	rows, err := s.db.Query(`SELECT id, name, version, houses, packages, total_cost, total_weeks, updated_at
        FROM scenarios ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []core.Metadata{}
	for rows.Next() {
		var m core.Metadata
		var updated int64
		if err := rows.Scan(&m.ID, &m.Name, &m.Version, &m.Houses, &m.Packages, &m.TotalCost, &m.TotalWeeks, &updated); err != nil {
			return nil, err
		}
		m.UpdatedAt = time.Unix(0, updated).UTC()
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes the scenario.
func (s *SQLiteStore) Delete(id string) error {
	r, err := s.db.Exec(`DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
