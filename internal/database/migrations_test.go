package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericIDSequenceMigration_StaysInRange(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/00001_user_numeric_id_seq.sql")
	require.NoError(t, err)
	sql := string(raw)

	assert.Contains(t, sql, "MAXVALUE 99999")
	assert.Contains(t, sql, "NO CYCLE")

	// setval must never be asked for MAX(numeric_id)+1, which overflows once 99999 exists.
	assert.NotContains(t, sql, "+ 1")
	assert.Contains(t, sql, "GREATEST(COALESCE((SELECT MAX(numeric_id) FROM users), 10001), 10001)")
	assert.True(t, strings.Contains(sql, ">= 10001);"), "the highest existing id is marked as called")
}
