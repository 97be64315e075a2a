package stock

import (
	"context"
	"errors"
	"time"

	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// DefaultAdjustRetries bounds the retry loop on optimistic lock conflicts
	DefaultAdjustRetries = 3
)

// StockService records stock movements. Every movement updates the product's
// quantity projection and appends exactly one ledger entry, atomically: a
// movement either fully happens or leaves no trace.
type StockService struct {
	txScope        TransactionScope
	productRepo    catalog.ProductRepository
	ledgerRepo     ledger.EntryRepository
	eventPublisher shared.EventPublisher
	maxRetries     int
}

// NewStockService creates a new StockService. The standalone repositories
// serve read paths; mutations go through the transaction scope.
func NewStockService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	ledgerRepo ledger.EntryRepository,
) *StockService {
	return &StockService{
		txScope:     txScope,
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		maxRetries:  DefaultAdjustRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetConflictRetryLimit overrides the number of attempts a movement gets on
// optimistic lock conflicts. Values below 1 are ignored.
func (s *StockService) SetConflictRetryLimit(n int) {
	if n >= 1 {
		s.maxRetries = n
	}
}

// Adjust records a stock movement. Concurrent movements on the same product
// are serialized through the product's optimistic version: on a conflict the
// whole movement is retried against fresh state, a bounded number of times,
// so both deltas land and neither lost-updates the other.
func (s *StockService) Adjust(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	kind := ledger.TransactionKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid transaction kind: "+req.Kind)
	}
	if req.Delta == 0 {
		return nil, shared.ErrInvalidAdjustment
	}

	var (
		product *catalog.Product
		entry   *ledger.StockLedgerEntry
		err     error
	)
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			product, entry, err = s.AdjustInTx(ctx, repos, req)
			return err
		})
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	return &AdjustStockResponse{
		Entry:    ToLedgerEntryResponse(entry),
		Product:  ToProductStockView(product),
		LowStock: product.IsLowStock(),
	}, nil
}

// AdjustInTx applies a stock movement using the given transactional
// repositories. It is the single write path for stock: the settlement
// service calls it from inside its own transaction so invoice state and
// stock effects commit together. The caller owns the transaction and the
// publishing of the product's domain events.
func (s *StockService) AdjustInTx(ctx context.Context, repos TransactionalRepositories, req AdjustStockRequest) (*catalog.Product, *ledger.StockLedgerEntry, error) {
	product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := ledger.NewStockLedgerEntry(req.ProductID, req.Delta, ledger.TransactionKind(req.Kind), req.UnitCost)
	if err != nil {
		return nil, nil, err
	}
	if req.ActorID != nil {
		entry.WithActor(*req.ActorID)
	}
	if req.Note != "" {
		entry.WithNote(req.Note)
	}

	if err := product.ApplyStockChange(req.Delta); err != nil {
		return nil, nil, err
	}
	if entry.Kind == ledger.KindPurchase && entry.UnitCost != nil {
		if err := product.UpdateBuyingPrice(*entry.UnitCost); err != nil {
			return nil, nil, err
		}
	}

	if err := repos.ProductRepo().SaveWithVersion(ctx, product); err != nil {
		return nil, nil, err
	}
	if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
		return nil, nil, err
	}

	return product, entry, nil
}

// GetProductHistory returns the ledger entries for a product, most recent
// first, together with the total entry count.
func (s *StockService) GetProductHistory(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[LedgerEntryResponse], error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ledgerRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListEntries returns ledger entries in a date range, most recent first,
// optionally restricted to one transaction kind.
func (s *StockService) ListEntries(ctx context.Context, start, end time.Time, kindFilter string, filter shared.Filter) ([]LedgerEntryResponse, error) {
	var kind *ledger.TransactionKind
	if kindFilter != "" {
		k := ledger.TransactionKind(kindFilter)
		if !k.IsValid() {
			return nil, shared.NewDomainError("INVALID_KIND", "Invalid transaction kind: "+kindFilter)
		}
		kind = &k
	}

	entries, err := s.ledgerRepo.FindByDateRange(ctx, start, end, kind, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses, nil
}

// VerifyReconciliation checks that the sum of a product's ledger deltas
// equals its quantity projection. A mismatch means the ledger and the
// projection have diverged and is reported as a conflict.
func (s *StockService) VerifyReconciliation(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	sum, err := s.ledgerRepo.SumChangeByProduct(ctx, productID)
	if err != nil {
		return err
	}
	if sum != product.QuantityInStock {
		return shared.NewDomainError("LEDGER_MISMATCH", "Ledger sum does not match quantity projection for product "+productID.String())
	}
	return nil
}

// publishDomainEvents publishes pending domain events from the product
func (s *StockService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil || product == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
