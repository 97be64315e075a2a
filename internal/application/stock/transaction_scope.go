package stock

import (
	"context"

	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the stock repositories.
// All repository operations executed within a scope share one database
// transaction and commit or roll back atomically - the quantity projection
// update and the ledger append are never visible separately.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories taking part
// in a stock adjustment, all bound to the same transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// LedgerRepo returns the ledger repository scoped to the current transaction
	LedgerRepo() ledger.EntryRepository
}

// NoOpTransactionScope is a transaction scope without real transactions,
// used in tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	ledgerRepo  ledger.EntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(productRepo catalog.ProductRepository, ledgerRepo ledger.EntryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// LedgerRepo returns the ledger repository
func (s *NoOpTransactionScope) LedgerRepo() ledger.EntryRepository {
	return s.ledgerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
