package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS component_times (
	id                   TEXT PRIMARY KEY,
	component_type       TEXT NOT NULL,
	component_subtype    TEXT NOT NULL DEFAULT '',
	installation_type_id TEXT NOT NULL DEFAULT '',
	data                 TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS installation_types (
	id   TEXT PRIMARY KEY,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS room_templates (
	id   TEXT PRIMARY KEY,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS estimates (
	id           TEXT PRIMARY KEY,
	project_name TEXT NOT NULL,
	input        TEXT NOT NULL,
	estimate     TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_component_times_key
	ON component_times(component_type, component_subtype, installation_type_id);
CREATE INDEX IF NOT EXISTS idx_estimates_project_name ON estimates(project_name);
CREATE INDEX IF NOT EXISTS idx_estimates_created_at ON estimates(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ComponentTimes(ctx context.Context) ([]model.ComponentTimeProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM component_times ORDER BY component_type, component_subtype, installation_type_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list component times")
	}
	defer rows.Close()

	var profiles []model.ComponentTimeProfile
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan component time")
		}
		var p model.ComponentTimeProfile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal component time")
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "sqlite: list component times iterate")
}

func (s *SQLiteStore) InstallationTypes(ctx context.Context) ([]model.InstallationType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM installation_types ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list installation types")
	}
	defer rows.Close()

	var types []model.InstallationType
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan installation type")
		}
		var it model.InstallationType
		if err := json.Unmarshal([]byte(data), &it); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal installation type")
		}
		types = append(types, it)
	}
	return types, eris.Wrap(rows.Err(), "sqlite: list installation types iterate")
}

func (s *SQLiteStore) RoomTemplates(ctx context.Context) ([]model.RoomTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM room_templates ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list room templates")
	}
	defer rows.Close()

	var templates []model.RoomTemplate
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan room template")
		}
		var rt model.RoomTemplate
		if err := json.Unmarshal([]byte(data), &rt); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal room template")
		}
		templates = append(templates, rt)
	}
	return templates, eris.Wrap(rows.Err(), "sqlite: list room templates iterate")
}

// ReplaceCatalog swaps the full catalog in one transaction. A failed load
// leaves the previous catalog intact.
func (s *SQLiteStore) ReplaceCatalog(ctx context.Context, catalog model.CatalogData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace catalog")
	}
	defer tx.Rollback()

	for _, table := range []string{"component_times", "installation_types", "room_templates"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s", table)
		}
	}

	for _, p := range catalog.ComponentTimes {
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal component time")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO component_times (id, component_type, component_subtype, installation_type_id, data)
			 VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), p.ComponentType, p.ComponentSubtype, p.InstallationTypeID, string(data),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert component time %s/%s", p.ComponentType, p.ComponentSubtype)
		}
	}

	for _, it := range catalog.InstallationTypes {
		data, err := json.Marshal(it)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal installation type")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO installation_types (id, data) VALUES (?, ?)`,
			it.ID, string(data),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert installation type %s", it.ID)
		}
	}

	for _, rt := range catalog.RoomTemplates {
		data, err := json.Marshal(rt)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal room template")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_templates (id, data) VALUES (?, ?)`,
			rt.ID, string(data),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert room template %s", rt.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace catalog")
}

func (s *SQLiteStore) SaveEstimate(ctx context.Context, projectName string, input model.ProjectInput, estimate model.ProjectEstimate) (*model.SavedEstimate, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal estimate input")
	}
	estimateJSON, err := json.Marshal(estimate)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal estimate")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO estimates (id, project_name, input, estimate, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, projectName, string(inputJSON), string(estimateJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert estimate")
	}

	return &model.SavedEstimate{
		ID:          id,
		ProjectName: projectName,
		Input:       input,
		Estimate:    estimate,
		CreatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetEstimate(ctx context.Context, id string) (*model.SavedEstimate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_name, input, estimate, created_at FROM estimates WHERE id = ?`, id)
	return scanEstimate(row)
}

func (s *SQLiteStore) ListEstimates(ctx context.Context, filter EstimateFilter) ([]model.SavedEstimate, error) {
	query := `SELECT id, project_name, input, estimate, created_at FROM estimates WHERE 1=1`
	var args []any

	if filter.ProjectName != "" {
		query += ` AND project_name = ?`
		args = append(args, filter.ProjectName)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list estimates")
	}
	defer rows.Close()

	var estimates []model.SavedEstimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, *e)
	}
	return estimates, eris.Wrap(rows.Err(), "sqlite: list estimates iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanEstimate(row scannable) (*model.SavedEstimate, error) {
	var e model.SavedEstimate
	var inputJSON, estimateJSON string

	err := row.Scan(&e.ID, &e.ProjectName, &inputJSON, &estimateJSON, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("estimate not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan estimate")
	}

	if err := json.Unmarshal([]byte(inputJSON), &e.Input); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal estimate input")
	}
	if err := json.Unmarshal([]byte(estimateJSON), &e.Estimate); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal estimate")
	}
	return &e, nil
}
