package infra

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	infrarepo "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBConnection_RequiresURL(t *testing.T) {
	_, err := NewDBConnection(&config.DB{}, "test")
	require.Error(t, err)

	_, err = NewDBConnection(nil, "test")
	require.Error(t, err)
}

func TestDialectorFor(t *testing.T) {
	assert.Equal(t, "sqlite", dialectorFor("sqlite://ledger.db").Name())
	assert.Equal(t, "postgres", dialectorFor("postgres://u:p@localhost:5432/ledger").Name())
}

func TestSQLiteMigrateAndStore(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "ledger.db")
	db, err := NewDBConnection(&config.DB{Url: url}, "test")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	uow := infrarepo.NewUoW(db)
	repo, err := uow.AccountRepository()
	require.NoError(t, err)

	ctx := context.Background()
	a := account.New(uuid.New(), "Main", account.KindSavings, "FR7630006000011234567890189", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, repo.AdjustBalance(ctx, a.ID, 500, time.Now().UTC()))
	err = repo.AdjustBalance(ctx, a.ID, -501, time.Now().UTC())
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	got, err := repo.GetByIBAN(ctx, a.IBAN)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Balance)

	savings, err := repo.ListActiveSavings(ctx)
	require.NoError(t, err)
	require.Len(t, savings, 1)
}
