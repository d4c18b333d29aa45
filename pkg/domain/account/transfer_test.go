package account

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransfer(t *testing.T) {
	userA := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	userB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")

	open := func(owner uuid.UUID, balance int64) *Account {
		return &Account{ID: uuid.New(), UserID: owner, Balance: balance, Active: true, Kind: KindCurrent}
	}
	closed := func(a *Account) *Account {
		a.Active = false
		return a
	}
	same := open(userA, 10000)
	closedSame := closed(open(userA, 10000))

	tests := []struct {
		name        string
		source      *Account
		destination *Account
		amount      int64
		wantErr     error
	}{
		{"success", open(userA, 10000), open(userB, 0), 5000, nil},
		{"exact balance", open(userA, 5000), open(userB, 0), 5000, nil},
		{"missing source", nil, open(userB, 0), 100, ErrAccountNotFound},
		{"source not owned", open(userB, 10000), open(userA, 0), 100, ErrAccountNotFound},
		{"missing destination", open(userA, 10000), nil, 100, ErrAccountNotFound},
		{"not owned wins over missing destination", open(userB, 10000), nil, 100, ErrAccountNotFound},
		{"same account", same, same, 100, ErrSameAccount},
		{"same account wins over inactive", closedSame, closedSame, 100, ErrSameAccount},
		{"inactive source", closed(open(userA, 10000)), open(userB, 0), 100, ErrAccountInactive},
		{"inactive destination", open(userA, 10000), closed(open(userB, 0)), 100, ErrAccountInactive},
		{"inactive wins over insufficient funds", closed(open(userA, 0)), open(userB, 0), 100, ErrAccountInactive},
		{"insufficient funds", open(userA, 4999), open(userB, 0), 5000, ErrInsufficientFunds},
		{"non positive amount", open(userA, 100), open(userB, 0), 0, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransfer(userA, tt.source, tt.destination, tt.amount)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewTransfer(t *testing.T) {
	src, dst := uuid.New(), uuid.New()
	now := time.Now()

	tr, err := NewTransfer(src, dst, 250, "rent", now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tr.ID)
	assert.Equal(t, int64(250), tr.Amount)
	assert.Equal(t, now, tr.CreatedAt)

	_, err = NewTransfer(src, src, 250, "", now)
	require.ErrorIs(t, err, ErrSameAccount)

	_, err = NewTransfer(src, dst, 0, "", now)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDirectionFor(t *testing.T) {
	mine1, mine2, theirs := uuid.New(), uuid.New(), uuid.New()
	owned := map[uuid.UUID]bool{mine1: true, mine2: true}

	incoming := &Transfer{SourceAccountID: theirs, DestinationAccountID: mine1}
	outgoing := &Transfer{SourceAccountID: mine1, DestinationAccountID: theirs}
	internal := &Transfer{SourceAccountID: mine1, DestinationAccountID: mine2}

	t.Run("without focus", func(t *testing.T) {
		assert.Equal(t, DirectionIn, DirectionFor(incoming, nil, owned))
		assert.Equal(t, DirectionOut, DirectionFor(outgoing, nil, owned))
		assert.Equal(t, DirectionOut, DirectionFor(internal, nil, owned))
	})

	t.Run("with focus", func(t *testing.T) {
		assert.Equal(t, DirectionIn, DirectionFor(incoming, &mine1, owned))
		assert.Equal(t, DirectionOut, DirectionFor(outgoing, &mine1, owned))
		assert.Equal(t, DirectionOut, DirectionFor(internal, &mine1, owned))
		assert.Equal(t, DirectionIn, DirectionFor(internal, &mine2, owned))
	})
}

func TestUnexpected(t *testing.T) {
	assert.Nil(t, Unexpected(nil))
	assert.Equal(t, ErrInsufficientFunds, Unexpected(ErrInsufficientFunds))

	cause := assert.AnError
	err := Unexpected(cause)
	require.ErrorIs(t, err, ErrUnexpected)
	require.ErrorIs(t, err, cause)
}
