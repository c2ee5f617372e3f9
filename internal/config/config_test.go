package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.stortrack.com/api/", cfg.StorTrack.BaseURL)
	assert.Equal(t, 60, cfg.StorTrack.TimeoutSecs)
	assert.InDelta(t, 2.0, cfg.StorTrack.RequestsPerSecond, 0.001)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "rates.db", cfg.Store.DatabaseURL)
	assert.InDelta(t, 12.50, cfg.Pricing.DailyRate, 0.001)
	assert.InDelta(t, 5.0, cfg.Analysis.RadiusMiles, 0.001)
	assert.Equal(t, 12, cfg.Analysis.LookbackMonths)
	assert.Equal(t, "Unit", cfg.Analysis.UnitType)
	assert.Equal(t, 3, cfg.Analysis.NeutralRank)
	assert.InDelta(t, 1.0, cfg.Analysis.RankingStepPct, 0.001)
	assert.InDelta(t, 50.0, cfg.Analysis.MaxFactorPct, 0.001)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/rates
pricing:
  daily_rate: 15.0
analysis:
  radius_miles: 10
  ranking_step_pct: 0.5
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/rates", cfg.Store.DatabaseURL)
	assert.InDelta(t, 15.0, cfg.Pricing.DailyRate, 0.001)
	assert.InDelta(t, 10.0, cfg.Analysis.RadiusMiles, 0.001)
	assert.InDelta(t, 0.5, cfg.Analysis.RankingStepPct, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep defaults.
	assert.Equal(t, 12, cfg.Analysis.LookbackMonths)
	assert.Equal(t, 3, cfg.Analysis.NeutralRank)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
