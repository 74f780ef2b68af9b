package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/chainpop/apps/go-server/internal/difficulty"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrate(db))
	require.NoError(t, migrate(db))

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 2, applied)

	_, err = db.Exec(`INSERT INTO players (id, doc) VALUES ('ada', '{}')`)
	assert.NoError(t, err)
}

func TestLoadCurve(t *testing.T) {
	c, err := loadCurve("")
	require.NoError(t, err)
	assert.Equal(t, difficulty.Default(), c)

	c, err = loadCurve("builtin:gentle")
	require.NoError(t, err)
	lc, ok := c.(*difficulty.LuaCurve)
	require.True(t, ok)
	defer lc.Close()
	assert.Equal(t, 100, c.ScaleFactor(1))
	assert.Equal(t, 90, c.ScaleFactor(8))
	assert.Equal(t, 1, c.MoveBoost(300))
	assert.Equal(t, 10, c.MoveBoost(2000))

	_, err = loadCurve("builtin:missing")
	assert.Error(t, err)
	_, err = loadCurve(filepath.Join(t.TempDir(), "none.lua"))
	assert.Error(t, err)
}

func TestEnvInt(t *testing.T) {
	t.Setenv("CHAINPOP_TEST_INT", "12")
	assert.Equal(t, 12, envInt("CHAINPOP_TEST_INT", 3))
	t.Setenv("CHAINPOP_TEST_INT", "-4")
	assert.Equal(t, 3, envInt("CHAINPOP_TEST_INT", 3))
	t.Setenv("CHAINPOP_TEST_INT", "many")
	assert.Equal(t, 3, envInt("CHAINPOP_TEST_INT", 3))
	assert.Equal(t, 7, envInt("CHAINPOP_TEST_UNSET", 7))
}
