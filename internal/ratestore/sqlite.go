package ratestore

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/amoloo1999/rca-app/internal/model"
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
CREATE TABLE IF NOT EXISTS rates (
	id                 TEXT PRIMARY KEY,
	facility_id        INTEGER NOT NULL,
	size               TEXT NOT NULL,
	unit_type          TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	climate_controlled INTEGER NOT NULL DEFAULT 0,
	drive_up           INTEGER NOT NULL DEFAULT 0,
	regular_rate       REAL NOT NULL DEFAULT 0,
	online_rate        REAL NOT NULL DEFAULT 0,
	promo              TEXT NOT NULL DEFAULT '',
	date_collected     TEXT NOT NULL,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (facility_id, size, climate_controlled, drive_up, date_collected)
);

CREATE INDEX IF NOT EXISTS idx_rates_facility_date ON rates(facility_id, date_collected);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// idPlaceholders builds "?,?,..." for an IN clause and the matching args.
func idPlaceholders(facilityIDs []int64) (string, []any) {
	marks := make([]string, len(facilityIDs))
	args := make([]any, len(facilityIDs))
	for i, id := range facilityIDs {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ","), args
}

func (s *SQLiteStore) RatesForFacilities(ctx context.Context, facilityIDs []int64, from, to time.Time) ([]model.RateRecord, error) {
	if len(facilityIDs) == 0 {
		return nil, nil
	}
	marks, args := idPlaceholders(facilityIDs)
	args = append(args, from.Format(model.DateLayout), to.Format(model.DateLayout))

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, facility_id, size, unit_type, description, climate_controlled, drive_up,
		        regular_rate, online_rate, promo, date_collected
		 FROM rates
		 WHERE facility_id IN (`+marks+`) AND date_collected >= ? AND date_collected <= ?
		 ORDER BY facility_id, date_collected, size`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query rates")
	}
	defer rows.Close()

	var records []model.RateRecord
	for rows.Next() {
		var r model.RateRecord
		var date string
		if err := rows.Scan(&r.ID, &r.FacilityID, &r.Size, &r.UnitType, &r.Description,
			&r.ClimateControlled, &r.DriveUp, &r.RegularRate, &r.OnlineRate, &r.Promo, &date); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rate")
		}
		r.DateCollected, err = time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse date %q", date)
		}
		r.Source = model.SourceCache
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate rates")
}

func (s *SQLiteStore) CoverageDates(ctx context.Context, facilityIDs []int64, from, to time.Time) (map[int64][]string, error) {
	if len(facilityIDs) == 0 {
		return map[int64][]string{}, nil
	}
	marks, args := idPlaceholders(facilityIDs)
	args = append(args, from.Format(model.DateLayout), to.Format(model.DateLayout))

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT facility_id, date_collected
		 FROM rates
		 WHERE facility_id IN (`+marks+`) AND date_collected >= ? AND date_collected <= ?
		 ORDER BY facility_id, date_collected`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query coverage")
	}
	defer rows.Close()

	coverage := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var date string
		if err := rows.Scan(&id, &date); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan coverage")
		}
		coverage[id] = append(coverage[id], date)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate coverage")
	}
	for _, dates := range coverage {
		sort.Strings(dates)
	}
	return coverage, nil
}

func (s *SQLiteStore) InsertRates(ctx context.Context, records []model.RateRecord) error {
	for _, r := range records {
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO rates
			 (id, facility_id, size, unit_type, description, climate_controlled, drive_up,
			  regular_rate, online_rate, promo, date_collected)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, r.FacilityID, r.Size, r.UnitType, r.Description, r.ClimateControlled, r.DriveUp,
			r.RegularRate, r.OnlineRate, r.Promo, r.DateKey(),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert rate for facility %d", r.FacilityID)
		}
	}
	return nil
}
