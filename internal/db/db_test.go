package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestBackfillClinicTimezones(t *testing.T) {
	gdb, mock := mockDB(t)

	mock.ExpectExec(`UPDATE clinics\s+SET timezone = 'UTC'`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, backfillClinicTimezones(gdb))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillClinicTimezones_ReturnsError(t *testing.T) {
	gdb, mock := mockDB(t)

	mock.ExpectExec(`UPDATE clinics`).WillReturnError(errors.New("relation \"clinics\" does not exist"))

	err := backfillClinicTimezones(gdb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backfill clinic timezones")
}
