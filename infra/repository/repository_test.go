package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var accountColumns = []string{"id", "user_id", "name", "iban", "kind", "balance", "active", "created_at", "updated_at"}

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
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestAccountRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	id, userID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY "accounts"."id" LIMIT \$2`).
		WithArgs(id.String(), 1).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id.String(), userID.String(), "Main", "FR7630006000011234567890189", "SAVINGS", 10000, true, now, now))

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, account.KindSavings, got.Kind)
	assert.Equal(t, int64(10000), got.Balance)
	assert.True(t, got.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE iban = \$1`).
		WithArgs("FR7630006000011234567890189", 1).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.GetByIBAN(context.Background(), "FR7630006000011234567890189")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_ExistsIBAN(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE iban = \$1`).
		WithArgs("FR7630006000011234567890189").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsIBAN(context.Background(), "FR7630006000011234567890189")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	a := account.New(uuid.New(), "Main", account.KindCurrent, "FR7630006000011234567890189", time.Now())

	mock.ExpectExec(`INSERT INTO "accounts"`).WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), a))

	mock.ExpectExec(`INSERT INTO "accounts"`).WillReturnError(gorm.ErrDuplicatedKey)
	require.ErrorIs(t, repo.Create(context.Background(), a), domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_LockForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(a.String(), b.String()).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(a.String(), uuid.NewString(), "A", "FR7630006000011234567890189", "CURRENT", 100, true, now, now).
			AddRow(b.String(), uuid.NewString(), "B", "FR5530006000010000000000055", "CURRENT", 0, true, now, now))

	got, err := repo.LockForUpdate(context.Background(), a, b)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	id := uuid.New()
	update := `UPDATE "accounts" SET .* WHERE id = \$\d AND balance \+ \$\d >= 0`
	count := `SELECT count\(\*\) FROM "accounts" WHERE id = \$1`

	t.Run("applied", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewAccountRepository(db).AdjustBalance(context.Background(), id, -500, time.Now())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("would go negative", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(count).WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := NewAccountRepository(db).AdjustBalance(context.Background(), id, -500, time.Now())
		require.ErrorIs(t, err, account.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(count).WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := NewAccountRepository(db).AdjustBalance(context.Background(), id, 500, time.Now())
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage error", func(t *testing.T) {
		db, mock := newMockDB(t)
		boom := errors.New("connection reset")
		mock.ExpectExec(update).WillReturnError(boom)

		err := NewAccountRepository(db).AdjustBalance(context.Background(), id, 500, time.Now())
		require.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	a := account.New(uuid.New(), "Main", account.KindCurrent, "FR7630006000011234567890189", time.Now())

	mock.ExpectExec(`UPDATE "accounts" SET .* WHERE id = \$\d`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, NewAccountRepository(db).Update(context.Background(), a), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepository_ListTouching(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransferRepository(db)
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "transfers" WHERE .*source_account_id IN .*destination_account_id IN .*ORDER BY created_at DESC, id DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "source_account_id", "destination_account_id", "amount", "note", "created_at"}).
			AddRow(uuid.NewString(), a.String(), b.String(), 5000, "rent", now).
			AddRow(uuid.NewString(), b.String(), a.String(), 100, nil, now.Add(-time.Hour)))

	got, err := repo.ListTouching(context.Background(), []uuid.UUID{a})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rent", got[0].Note)
	assert.Empty(t, got[1].Note)
	assert.NoError(t, mock.ExpectationsWereMet())

	none, err := repo.ListTouching(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOperationRepository_Append(t *testing.T) {
	db, mock := newMockDB(t)
	transferID := uuid.New()
	op := &account.Operation{
		ID:         uuid.New(),
		AccountID:  uuid.New(),
		Kind:       account.Debit,
		Amount:     5000,
		TransferID: &transferID,
		CreatedAt:  time.Now(),
	}

	mock.ExpectExec(`INSERT INTO "ledger_operations"`).WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, NewOperationRepository(db).Append(context.Background(), op))
	assert.NoError(t, mock.ExpectationsWereMet())
}
