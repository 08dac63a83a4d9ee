package identity

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/fest-registration-api/internal/database"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func openMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, mock
}

func TestMaxPlusOneSource_Sequential(t *testing.T) {
	db := openTestDB(t)
	src := MaxPlusOneSource{}

	first, err := src.Next(db)
	require.NoError(t, err)
	assert.Equal(t, uint32(10001), first)

	require.NoError(t, db.Create(&models.User{NumericID: first, PublicID: NewPublicID(), Email: "a@fest.test", PasswordHash: "x"}).Error)

	second, err := src.Next(db)
	require.NoError(t, err)
	assert.Equal(t, uint32(10002), second)
}

func TestMaxPlusOneSource_Exhausted(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{NumericID: 99999, PublicID: NewPublicID(), Email: "last@fest.test", PasswordHash: "x"}).Error)

	_, err := MaxPlusOneSource{}.Next(db)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestSequenceSource_Next(t *testing.T) {
	db, mock := openMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval('user_numeric_id_seq')")).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(10042)))

	id, err := SequenceSource{}.Next(db)
	require.NoError(t, err)
	assert.Equal(t, uint32(10042), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceSource_Exhausted(t *testing.T) {
	db, mock := openMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval('user_numeric_id_seq')")).
		WillReturnError(&pgconn.PgError{Code: "2200H", Message: "nextval: reached maximum value of sequence"})

	_, err := SequenceSource{}.Next(db)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceFor(t *testing.T) {
	assert.IsType(t, SequenceSource{}, SourceFor("postgres"))
	assert.IsType(t, MaxPlusOneSource{}, SourceFor("sqlite"))
	assert.IsType(t, MaxPlusOneSource{}, SourceFor("mysql"))
}
