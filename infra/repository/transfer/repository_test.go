package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ximedes/conto/pkg/domain/account"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestTransferRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	tr, err := account.NewTransfer(uuid.New(), uuid.New(), 100, "rent")
	require.NoError(t, err)

	// Seq is auto-incremented, so the insert runs as a query with RETURNING.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transfers" (.+) VALUES (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(1)))
	mock.ExpectCommit()

	assert.NoError(t, repo.Insert(context.Background(), tr))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transfers" (.+) VALUES (.+)`).
		WillReturnError(errors.New("insert error"))
	mock.ExpectRollback()

	assert.Error(t, repo.Insert(context.Background(), tr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepository_ListByAccountID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	accountID := uuid.New()
	other := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"seq", "id", "debit_account_id", "credit_account_id",
		"amount", "description", "created_at",
	}).
		AddRow(int64(1), uuid.New(), other, accountID, int64(100), "bonus", now).
		AddRow(int64(2), uuid.New(), accountID, other, int64(40), "rent", now)

	mock.ExpectQuery(`SELECT \* FROM "transfers" WHERE debit_account_id = (.+) OR credit_account_id = (.+) ORDER BY seq`).
		WithArgs(accountID, accountID).
		WillReturnRows(rows)

	got, err := repo.ListByAccountID(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, accountID, got[0].CreditAccountID)
	assert.EqualValues(t, 100, got[0].Amount)
	assert.Equal(t, accountID, got[1].DebitAccountID)
	assert.Equal(t, "rent", got[1].Description)
}

func TestTransferRepository_SumByAccountID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	accountID := uuid.New()
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN credit_account_id = (.+)`).
		WithArgs(accountID, accountID, accountID, accountID).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(60)))

	sum, err := repo.SumByAccountID(context.Background(), accountID)
	require.NoError(t, err)
	assert.EqualValues(t, 60, sum)
}
