package repository

import "context"

// UnitOfWork defines the contract for transactional work and repository access.
//
// Repositories obtained from the UnitOfWork passed to fn share its transaction.
// Repositories obtained outside Do run each call on its own.
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	// Calling Do on a UnitOfWork that is already inside a transaction runs fn in it.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	TransferRepository() (TransferRepository, error)
	OperationRepository() (OperationRepository, error)
}
