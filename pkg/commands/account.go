package commands

import "github.com/google/uuid"

// CreateAccount opens a new account for UserID. Blank Name and Kind fall back to defaults.
type CreateAccount struct {
	UserID uuid.UUID
	Name   string
	Kind   string
}

type RenameAccount struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Name      string
}

type CloseAccount struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
}
