package commands

import "github.com/google/uuid"

// Transfer moves Amount (a decimal string) from SourceAccountID to the account
// identified by DestinationIBAN.
type Transfer struct {
	UserID          uuid.UUID
	SourceAccountID uuid.UUID
	DestinationIBAN string
	Amount          string
	Note            string
}
