package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

const markUsedSQL = "UPDATE `tickets` SET `status`=\\?,`updated_at`=\\? WHERE .*id = \\? AND status = \\?"

// The status transition must be one conditional statement, never a
// read followed by a write.
func TestRepository_MarkUsed_IssuesConditionalUpdate(t *testing.T) {
	db, mock := openMockMySQL(t)
	repo := NewRepository(db)

	mock.ExpectExec(markUsedSQL).
		WithArgs("Used", sqlmock.AnyArg(), 5, "Sold").
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.MarkUsed(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkUsed_NoRowsAffected(t *testing.T) {
	db, mock := openMockMySQL(t)
	repo := NewRepository(db)

	mock.ExpectExec(markUsedSQL).
		WithArgs("Used", sqlmock.AnyArg(), 7, "Sold").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.MarkUsed(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
