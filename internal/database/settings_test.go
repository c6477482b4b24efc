package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/shopdb/internal/config"
)

func TestSettings_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	val, err := db.GetSetting("log.max_size_mb")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, db.SetSetting("log.max_size_mb", "10"))
	require.NoError(t, db.SetSetting("log.max_size_mb", "20"))
	require.NoError(t, db.SetSetting("log.compress", "false"))

	val, err = db.GetSetting("log.max_size_mb")
	require.NoError(t, err)
	assert.Equal(t, "20", val)

	all, err := db.GetAllSettings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"log.max_size_mb": "20", "log.compress": "false"}, all)

	loader := config.NewLoader(db)
	assert.Equal(t, 20, loader.Int("log.max_size_mb", 50))
	assert.False(t, loader.Bool("log.compress", true))
}

func TestMaintenance(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	require.NoError(t, db.Optimize())
	require.NoError(t, db.Vacuum())

	violations, err := db.ForeignKeyCheck()
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestForeignKeyCheck_ReportsDanglingRows(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	mustExec(t, db, `PRAGMA foreign_keys = OFF`)
	mustExec(t, db, `INSERT INTO reviews (product_id, customer_id, rating) VALUES (500, 1, 1)`)
	mustExec(t, db, `PRAGMA foreign_keys = ON`)

	violations, err := db.ForeignKeyCheck()
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "reviews", violations[0].Table)
	assert.Equal(t, "products", violations[0].ParentTable)
	require.NotNil(t, violations[0].RowID)
}

func TestMaintenance_NilDB(t *testing.T) {
	var db *DB
	assert.Error(t, db.Optimize())
	assert.Error(t, db.Vacuum())
}
