package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/elgrid-dk/calc-cli/internal/db"
	"github.com/elgrid-dk/calc-cli/internal/model"
	"github.com/elgrid-dk/calc-cli/internal/retry"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"list_component_times":    `SELECT data FROM component_times ORDER BY component_type, component_subtype, installation_type_id`,
	"list_installation_types": `SELECT data FROM installation_types ORDER BY id`,
	"list_room_templates":     `SELECT data FROM room_templates ORDER BY id`,
	"insert_estimate":         `INSERT INTO estimates (id, project_name, input, estimate, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"get_estimate":            `SELECT id, project_name, input, estimate, created_at FROM estimates WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	// The database may still be starting up; retry transient ping failures.
	pingCfg := retry.DefaultConfig()
	pingCfg.OnRetry = retry.Logger("ping")
	if err := retry.Do(ctx, pingCfg, func(ctx context.Context) error {
		return pool.Ping(ctx)
	}); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS component_times (
	id                   TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	component_type       TEXT NOT NULL,
	component_subtype    TEXT NOT NULL DEFAULT '',
	installation_type_id TEXT NOT NULL DEFAULT '',
	data                 JSONB NOT NULL,
	UNIQUE (component_type, component_subtype, installation_type_id)
);

CREATE TABLE IF NOT EXISTS installation_types (
	id   TEXT PRIMARY KEY,
	data JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS room_templates (
	id   TEXT PRIMARY KEY,
	data JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS estimates (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	project_name TEXT NOT NULL,
	input        JSONB NOT NULL,
	estimate     JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_estimates_project_name ON estimates(project_name);
CREATE INDEX IF NOT EXISTS idx_estimates_created_at ON estimates(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ComponentTimes(ctx context.Context) ([]model.ComponentTimeProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM component_times ORDER BY component_type, component_subtype, installation_type_id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list component times")
	}
	defer rows.Close()

	var profiles []model.ComponentTimeProfile
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan component time")
		}
		var p model.ComponentTimeProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal component time")
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "postgres: list component times iterate")
}

func (s *PostgresStore) InstallationTypes(ctx context.Context) ([]model.InstallationType, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM installation_types ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list installation types")
	}
	defer rows.Close()

	var types []model.InstallationType
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan installation type")
		}
		var it model.InstallationType
		if err := json.Unmarshal(data, &it); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal installation type")
		}
		types = append(types, it)
	}
	return types, eris.Wrap(rows.Err(), "postgres: list installation types iterate")
}

func (s *PostgresStore) RoomTemplates(ctx context.Context) ([]model.RoomTemplate, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM room_templates ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list room templates")
	}
	defer rows.Close()

	var templates []model.RoomTemplate
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan room template")
		}
		var rt model.RoomTemplate
		if err := json.Unmarshal(data, &rt); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal room template")
		}
		templates = append(templates, rt)
	}
	return templates, eris.Wrap(rows.Err(), "postgres: list room templates iterate")
}

// ReplaceCatalog swaps the full catalog in one transaction, bulk-loading
// component times over the COPY protocol.
func (s *PostgresStore) ReplaceCatalog(ctx context.Context, catalog model.CatalogData) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace catalog")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`TRUNCATE component_times, installation_types, room_templates`); err != nil {
		return eris.Wrap(err, "postgres: clear catalog")
	}

	ctRows := make([][]any, 0, len(catalog.ComponentTimes))
	for _, p := range catalog.ComponentTimes {
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal component time")
		}
		ctRows = append(ctRows, []any{
			uuid.New().String(), p.ComponentType, p.ComponentSubtype, p.InstallationTypeID, data,
		})
	}
	if len(ctRows) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"component_times"},
			[]string{"id", "component_type", "component_subtype", "installation_type_id", "data"},
			pgx.CopyFromRows(ctRows)); err != nil {
			return eris.Wrap(err, "postgres: copy component times")
		}
	}

	for _, it := range catalog.InstallationTypes {
		data, err := json.Marshal(it)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal installation type")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO installation_types (id, data) VALUES ($1, $2)`, it.ID, data); err != nil {
			return eris.Wrapf(err, "postgres: insert installation type %s", it.ID)
		}
	}

	for _, rt := range catalog.RoomTemplates {
		data, err := json.Marshal(rt)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal room template")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO room_templates (id, data) VALUES ($1, $2)`, rt.ID, data); err != nil {
			return eris.Wrapf(err, "postgres: insert room template %s", rt.ID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace catalog")
}

// MergeComponentTimes upserts component time profiles without touching the
// rest of the catalog, for incremental supplier updates.
func (s *PostgresStore) MergeComponentTimes(ctx context.Context, profiles []model.ComponentTimeProfile) (int64, error) {
	rows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal component time")
		}
		rows = append(rows, []any{
			uuid.New().String(), p.ComponentType, p.ComponentSubtype, p.InstallationTypeID, data,
		})
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "component_times",
		Columns:      []string{"id", "component_type", "component_subtype", "installation_type_id", "data"},
		ConflictKeys: []string{"component_type", "component_subtype", "installation_type_id"},
		UpdateCols:   []string{"data"},
	}, rows)
}

func (s *PostgresStore) SaveEstimate(ctx context.Context, projectName string, input model.ProjectInput, estimate model.ProjectEstimate) (*model.SavedEstimate, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal estimate input")
	}
	estimateJSON, err := json.Marshal(estimate)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal estimate")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO estimates (id, project_name, input, estimate, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, projectName, inputJSON, estimateJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert estimate")
	}

	return &model.SavedEstimate{
		ID:          id,
		ProjectName: projectName,
		Input:       input,
		Estimate:    estimate,
		CreatedAt:   now,
	}, nil
}

func (s *PostgresStore) GetEstimate(ctx context.Context, id string) (*model.SavedEstimate, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_name, input, estimate, created_at FROM estimates WHERE id = $1`, id)

	var e model.SavedEstimate
	var inputJSON, estimateJSON []byte
	err := row.Scan(&e.ID, &e.ProjectName, &inputJSON, &estimateJSON, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("estimate not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get estimate")
	}

	if err := json.Unmarshal(inputJSON, &e.Input); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal estimate input")
	}
	if err := json.Unmarshal(estimateJSON, &e.Estimate); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal estimate")
	}
	return &e, nil
}

func (s *PostgresStore) ListEstimates(ctx context.Context, filter EstimateFilter) ([]model.SavedEstimate, error) {
	query := `SELECT id, project_name, input, estimate, created_at FROM estimates WHERE 1=1`
	var args []any

	if filter.ProjectName != "" {
		args = append(args, filter.ProjectName)
		query += ` AND project_name = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list estimates")
	}
	defer rows.Close()

	var estimates []model.SavedEstimate
	for rows.Next() {
		var e model.SavedEstimate
		var inputJSON, estimateJSON []byte
		if err := rows.Scan(&e.ID, &e.ProjectName, &inputJSON, &estimateJSON, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan estimate")
		}
		if err := json.Unmarshal(inputJSON, &e.Input); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal estimate input")
		}
		if err := json.Unmarshal(estimateJSON, &e.Estimate); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal estimate")
		}
		estimates = append(estimates, e)
	}
	return estimates, eris.Wrap(rows.Err(), "postgres: list estimates iterate")
}

