// Package ratestore is the rate-record cache: previously retrieved rates are
// read from here, and freshly purchased records are written back so a re-run
// of the same window needs no second purchase.
package ratestore

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/model"
)

// Store defines the persistence interface for cached rate records.
type Store interface {
	// RatesForFacilities returns cached records for the facilities within the
	// inclusive date range, ordered by facility, date, and size.
	RatesForFacilities(ctx context.Context, facilityIDs []int64, from, to time.Time) ([]model.RateRecord, error)

	// CoverageDates returns the distinct collection dates present per
	// facility within the inclusive date range, each list sorted.
	CoverageDates(ctx context.Context, facilityIDs []int64, from, to time.Time) (map[int64][]string, error)

	// InsertRates caches records, skipping duplicates already present.
	InsertRates(ctx context.Context, records []model.RateRecord) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store for the configured driver.
func New(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, dsn)
	case "sqlite":
		return NewSQLite(dsn)
	default:
		return nil, eris.Errorf("ratestore: unknown driver %q", driver)
	}
}
