package settlement

import (
	"context"

	"github.com/billfold/backend/internal/application/stock"
	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the settlement
// repositories. Settlement spans two aggregates - the invoice and the
// products it moves stock for - plus the ledger; a scope binds all of them to
// one database transaction so the invoice state change and its stock effects
// commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories extends the stock repositories with invoice
// access, all bound to the same transaction. Embedding the stock interface
// lets the settlement service hand the scope straight to the stock
// adjustment path.
type TransactionalRepositories interface {
	stock.TransactionalRepositories
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
}

// NoOpTransactionScope is a transaction scope without real transactions,
// used in tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	ledgerRepo  ledger.EntryRepository
	invoiceRepo billing.InvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	ledgerRepo ledger.EntryRepository,
	invoiceRepo billing.InvoiceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		invoiceRepo: invoiceRepo,
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

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
