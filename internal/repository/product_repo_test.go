package repository

import (
	"testing"

	"go-ricemill-api/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestDeactivateWritesOnlyActiveFlag(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepo(db)

	// Anchored: the statement may touch is_active and the bookkeeping
	// timestamp, nothing else. A whole-row save would drag current_stock
	// along and could revert a concurrently committed stock transaction.
	mock.ExpectBegin()
	mock.ExpectExec(`^UPDATE "products" SET ("is_active"=\$1,"updated_at"=\$2|"updated_at"=\$1,"is_active"=\$2) WHERE id = \$3$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Deactivate(uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateUnknownProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`^UPDATE "products" SET `).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Deactivate(uuid.New())
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
