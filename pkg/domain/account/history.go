package account

import "github.com/google/uuid"

// Direction is a transfer's orientation from the viewer's perspective.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Party is the account summary shown on either side of a history entry.
type Party struct {
	ID     uuid.UUID
	Name   string
	IBAN   string
	UserID uuid.UUID
}

// HistoryItem is one transfer as seen by a user.
type HistoryItem struct {
	Transfer
	Source      Party
	Destination Party
	Direction   Direction
}

// DirectionFor computes the direction of t.
//
// With a focus account the transfer is OUT when it leaves that account and IN otherwise.
// Without one it is IN only when the destination is owned and the source is not, so a
// transfer between two of the user's own accounts reads as OUT.
func DirectionFor(t *Transfer, focus *uuid.UUID, owned map[uuid.UUID]bool) Direction {
	if focus != nil {
		if t.SourceAccountID == *focus {
			return DirectionOut
		}
		return DirectionIn
	}
	if owned[t.DestinationAccountID] && !owned[t.SourceAccountID] {
		return DirectionIn
	}
	return DirectionOut
}

// PartyOf summarizes a for a history entry.
func PartyOf(a *Account) Party {
	if a == nil {
		return Party{}
	}
	return Party{ID: a.ID, Name: a.Name, IBAN: a.IBAN, UserID: a.UserID}
}
