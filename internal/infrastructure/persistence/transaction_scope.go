package persistence

import (
	"context"

	appsettlement "github.com/billfold/backend/internal/application/settlement"
	appstock "github.com/billfold/backend/internal/application/stock"
	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormStockTransactionScope implements the stock TransactionScope using GORM
// transactions. The product update and the ledger append run in one database
// transaction and commit or roll back together.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormSettlementTransactionScope implements the settlement TransactionScope
// using GORM transactions. It widens the stock scope with invoice access so
// an invoice state change and its stock effects share one transaction.
type GormSettlementTransactionScope struct {
	db *gorm.DB
}

// NewGormSettlementTransactionScope creates a new GormSettlementTransactionScope
func NewGormSettlementTransactionScope(db *gorm.DB) *GormSettlementTransactionScope {
	return &GormSettlementTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormSettlementTransactionScope) Execute(ctx context.Context, fn func(repos appsettlement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides the repositories scoped to one
// transaction. The single struct serves both scopes: the settlement
// repositories are a superset of the stock ones.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// LedgerRepo returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) LedgerRepo() ledger.EntryRepository {
	return NewGormLedgerRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure the scopes implement their interfaces
var (
	_ appstock.TransactionScope               = (*GormStockTransactionScope)(nil)
	_ appsettlement.TransactionScope          = (*GormSettlementTransactionScope)(nil)
	_ appstock.TransactionalRepositories      = (*gormTransactionalRepositories)(nil)
	_ appsettlement.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
