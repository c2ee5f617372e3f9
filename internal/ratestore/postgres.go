package ratestore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
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

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS rates (
	id                 TEXT PRIMARY KEY,
	facility_id        BIGINT NOT NULL,
	size               TEXT NOT NULL,
	unit_type          TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	climate_controlled BOOLEAN NOT NULL DEFAULT false,
	drive_up           BOOLEAN NOT NULL DEFAULT false,
	regular_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
	online_rate        DOUBLE PRECISION NOT NULL DEFAULT 0,
	promo              TEXT NOT NULL DEFAULT '',
	date_collected     TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (facility_id, size, climate_controlled, drive_up, date_collected)
);

CREATE INDEX IF NOT EXISTS idx_rates_facility_date ON rates(facility_id, date_collected);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) RatesForFacilities(ctx context.Context, facilityIDs []int64, from, to time.Time) ([]model.RateRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, facility_id, size, unit_type, description, climate_controlled, drive_up,
		        regular_rate, online_rate, promo, date_collected
		 FROM rates
		 WHERE facility_id = ANY($1) AND date_collected >= $2 AND date_collected <= $3
		 ORDER BY facility_id, date_collected, size`,
		facilityIDs, from.Format(model.DateLayout), to.Format(model.DateLayout),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query rates")
	}
	defer rows.Close()

	var records []model.RateRecord
	for rows.Next() {
		var r model.RateRecord
		var date string
		if err := rows.Scan(&r.ID, &r.FacilityID, &r.Size, &r.UnitType, &r.Description,
			&r.ClimateControlled, &r.DriveUp, &r.RegularRate, &r.OnlineRate, &r.Promo, &date); err != nil {
			return nil, eris.Wrap(err, "postgres: scan rate")
		}
		r.DateCollected, err = time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: parse date %q", date)
		}
		r.Source = model.SourceCache
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate rates")
}

func (s *PostgresStore) CoverageDates(ctx context.Context, facilityIDs []int64, from, to time.Time) (map[int64][]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT facility_id, date_collected
		 FROM rates
		 WHERE facility_id = ANY($1) AND date_collected >= $2 AND date_collected <= $3
		 ORDER BY facility_id, date_collected`,
		facilityIDs, from.Format(model.DateLayout), to.Format(model.DateLayout),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query coverage")
	}
	defer rows.Close()

	coverage := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var date string
		if err := rows.Scan(&id, &date); err != nil {
			return nil, eris.Wrap(err, "postgres: scan coverage")
		}
		coverage[id] = append(coverage[id], date)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate coverage")
	}
	for _, dates := range coverage {
		sort.Strings(dates)
	}
	return coverage, nil
}

func (s *PostgresStore) InsertRates(ctx context.Context, records []model.RateRecord) error {
	for _, r := range records {
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO rates
			 (id, facility_id, size, unit_type, description, climate_controlled, drive_up,
			  regular_rate, online_rate, promo, date_collected)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT (facility_id, size, climate_controlled, drive_up, date_collected) DO NOTHING`,
			id, r.FacilityID, r.Size, r.UnitType, r.Description, r.ClimateControlled, r.DriveUp,
			r.RegularRate, r.OnlineRate, r.Promo, r.DateKey(),
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert rate for facility %d", r.FacilityID)
		}
	}
	return nil
}
