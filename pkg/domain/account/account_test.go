package account

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		raw     string
		want    Kind
		wantErr error
	}{
		{"", KindCurrent, nil},
		{"CURRENT", KindCurrent, nil},
		{" savings ", KindSavings, nil},
		{"BROKERAGE", "", ErrInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseKind(tt.raw)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		allowDefault bool
		want         string
		wantErr      error
	}{
		{"trimmed", "  Holidays  ", false, "Holidays", nil},
		{"blank gets default", "   ", true, DefaultName, nil},
		{"blank rejected on rename", "", false, "", ErrInvalidName},
		{"too short", "a", false, "", ErrInvalidName},
		{"exactly two", "ab", false, "ab", nil},
		{"counts runes", "éé", false, "éé", nil},
		{"exactly eighty", strings.Repeat("x", 80), false, strings.Repeat("x", 80), nil},
		{"too long", strings.Repeat("x", 81), true, "", ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeName(tt.raw, tt.allowDefault)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	a := New(userID, "Main", KindSavings, "FR7630006000011234567890189", now)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.True(t, a.Active)
	assert.Zero(t, a.Balance)
	assert.True(t, a.OwnedBy(userID))
	assert.False(t, a.OwnedBy(uuid.New()))
	assert.True(t, a.IsInterestBearing())

	a.Active = false
	assert.False(t, a.IsInterestBearing())
}

func TestOperation_Delta(t *testing.T) {
	assert.Equal(t, int64(-500), (&Operation{Kind: Debit, Amount: 500}).Delta())
	assert.Equal(t, int64(500), (&Operation{Kind: Credit, Amount: 500}).Delta())
}
