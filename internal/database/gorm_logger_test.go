package database

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/fest-registration-api/internal/config"
	"github.com/yukikurage/fest-registration-api/internal/logging"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openLoggedSQLite(t *testing.T, buf *bytes.Buffer, level logger.LogLevel) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:", &gorm.Config{
		Logger:         NewGormLogger(logging.New(buf, false), level),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(AllModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	buf.Reset()
	return db
}

func TestGormLogger_InfoLogsQueries(t *testing.T) {
	var buf bytes.Buffer
	db := openLoggedSQLite(t, &buf, logger.Info)

	var count int64
	require.NoError(t, db.Model(&models.Event{}).Count(&count).Error)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=query")
	assert.Contains(t, out, "component=gorm")
	assert.Contains(t, out, "events")
}

func TestGormLogger_WarnLevelLogsFailuresOnly(t *testing.T) {
	var buf bytes.Buffer
	db := openLoggedSQLite(t, &buf, logger.Warn)

	var event models.Event
	require.ErrorIs(t, db.First(&event, 42).Error, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	require.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `msg="query failed"`)
	assert.Contains(t, out, "missing_table")
}

func TestGormLogger_SilentLogsNothing(t *testing.T) {
	var buf bytes.Buffer
	db := openLoggedSQLite(t, &buf, logger.Warn)
	db = db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})

	require.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	assert.Empty(t, buf.String())
}

func TestConnectAndMigrate_LogThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, false)
	cfg := &config.Config{DBDriver: DriverSQLite, SQLitePath: ":memory:", GinMode: "release"}
	ctx := context.Background()

	require.NoError(t, Connect(ctx, cfg, log))
	t.Cleanup(func() {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, Migrate(ctx, log))

	out := buf.String()
	assert.Contains(t, out, `msg="database connection established"`)
	assert.Contains(t, out, "driver=sqlite")
	assert.Contains(t, out, `msg="database migrations completed"`)
	assert.NotContains(t, out, "msg=query")
}
