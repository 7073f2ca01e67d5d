package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMigrationsDir = "../../migrations"

func TestMigrateUpDown(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := db.MigrateVersion(testMigrationsDir)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, db.MigrateUp(testMigrationsDir))
	require.NoError(t, db.MigrateUp(testMigrationsDir), "up is idempotent at latest")

	version, dirty, err = db.MigrateVersion(testMigrationsDir)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// The label column only exists after the migration.
	_, err = db.Exec(`UPDATE runs SET label = 'calibration'`)
	assert.NoError(t, err)

	require.NoError(t, db.MigrateDown(testMigrationsDir))
	_, err = db.Exec(`UPDATE runs SET label = 'calibration'`)
	assert.Error(t, err)
}
