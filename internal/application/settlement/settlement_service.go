package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billfold/backend/internal/application/stock"
	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// maxSettleRetries bounds the retry loop on optimistic lock conflicts
	maxSettleRetries = 3
)

// SettlementService drives the invoice lifecycle. Settlement is atomic: when
// an invoice is paid, the status change and the SALE deductions for every
// line commit in one transaction, and when a paid invoice is cancelled, the
// RETURN restorations commit with the status change the same way.
type SettlementService struct {
	txScope        TransactionScope
	invoiceRepo    billing.InvoiceRepository
	discountRepo   billing.DiscountRuleRepository
	taxRepo        billing.TaxRuleRepository
	stockService   *stock.StockService
	eventPublisher shared.EventPublisher
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	txScope TransactionScope,
	invoiceRepo billing.InvoiceRepository,
	discountRepo billing.DiscountRuleRepository,
	taxRepo billing.TaxRuleRepository,
	stockService *stock.StockService,
) *SettlementService {
	return &SettlementService{
		txScope:      txScope,
		invoiceRepo:  invoiceRepo,
		discountRepo: discountRepo,
		taxRepo:      taxRepo,
		stockService: stockService,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateInvoice creates an invoice from the requested lines. Unit prices are
// snapshotted from the products at this moment; later price changes do not
// touch existing invoices. With MarkAsPaid set, the invoice settles in the
// same transaction that deducts stock - if any line cannot be fulfilled, the
// whole invoice is rolled back.
func (s *SettlementService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Invoice requires at least one item")
	}
	if err := validateDistinctProducts(req.Items); err != nil {
		return nil, err
	}

	discounts, taxes, err := s.activeRules(ctx)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	var (
		invoice  *billing.Invoice
		adjusted []*catalog.Product
	)
	for attempt := 0; attempt < maxSettleRetries; attempt++ {
		invoice = nil
		adjusted = adjusted[:0]
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv := billing.NewInvoice(req.CustomerID, date)
			if req.ActorID != nil {
				inv.SetCreatedBy(*req.ActorID)
			}

			for _, line := range req.Items {
				product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
				if err != nil {
					return err
				}
				if _, err := inv.AddItem(product.ID, product.Name, line.Quantity, product.UnitPrice); err != nil {
					return err
				}
			}

			if err := inv.ApplyTotals(billing.ComputeTotals(inv.Items, discounts, taxes)); err != nil {
				return err
			}
			inv.EnsureNumber(time.Now())

			if req.MarkAsPaid {
				if err := inv.MarkPaid(); err != nil {
					return err
				}
				products, err := s.deductStock(ctx, repos, inv, req.ActorID)
				if err != nil {
					return err
				}
				adjusted = products
			}

			if err := repos.InvoiceRepo().SaveWithItems(ctx, inv); err != nil {
				return err
			}
			invoice = inv
			return nil
		})
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice, adjusted)
	return ToInvoiceResponse(invoice), nil
}

// UpdateInvoice rewrites the lines of a PENDING invoice and recomputes its
// totals. No stock moves - drafts have no stock effect until settlement.
func (s *SettlementService) UpdateInvoice(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if err := validateDistinctProducts(req.Items); err != nil {
		return nil, err
	}

	discounts, taxes, err := s.activeRules(ctx)
	if err != nil {
		return nil, err
	}

	var invoice *billing.Invoice
	for attempt := 0; attempt < maxSettleRetries; attempt++ {
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
			if err != nil {
				return err
			}
			if !inv.IsPending() {
				return shared.NewDomainError("INVALID_STATE", "Only PENDING invoices can be edited")
			}

			for _, item := range append([]billing.InvoiceItem(nil), inv.Items...) {
				if err := inv.RemoveItem(item.ID); err != nil {
					return err
				}
			}
			for _, line := range req.Items {
				product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
				if err != nil {
					return err
				}
				if _, err := inv.AddItem(product.ID, product.Name, line.Quantity, product.UnitPrice); err != nil {
					return err
				}
			}
			if req.CustomerID != nil {
				inv.CustomerID = req.CustomerID
			}

			if err := inv.ApplyTotals(billing.ComputeTotals(inv.Items, discounts, taxes)); err != nil {
				return err
			}

			if err := repos.InvoiceRepo().SaveWithItems(ctx, inv); err != nil {
				return err
			}
			invoice = inv
			return nil
		})
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice), nil
}

// MarkInvoicePaid settles a PENDING invoice. The status transition and the
// SALE deduction for every line commit atomically; any line with
// insufficient stock aborts the whole settlement and the invoice stays
// PENDING.
func (s *SettlementService) MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID, actorID *uuid.UUID) (*InvoiceResponse, error) {
	var (
		invoice  *billing.Invoice
		adjusted []*catalog.Product
		err      error
	)
	for attempt := 0; attempt < maxSettleRetries; attempt++ {
		invoice = nil
		adjusted = adjusted[:0]
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
			if err != nil {
				return err
			}
			if err := inv.MarkPaid(); err != nil {
				return err
			}
			products, err := s.deductStock(ctx, repos, inv, actorID)
			if err != nil {
				return err
			}
			if err := repos.InvoiceRepo().SaveWithVersion(ctx, inv); err != nil {
				return err
			}
			invoice = inv
			adjusted = products
			return nil
		})
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice, adjusted)
	return ToInvoiceResponse(invoice), nil
}

// CancelInvoice cancels an invoice. Cancelling a PAID invoice restores every
// line with a RETURN movement in the same transaction, so the stock position
// is exactly what it was before settlement. Cancelling an already CANCELLED
// invoice is a no-op - no status change, no stock movement, no error.
func (s *SettlementService) CancelInvoice(ctx context.Context, invoiceID uuid.UUID, actorID *uuid.UUID) (*InvoiceResponse, error) {
	var (
		invoice  *billing.Invoice
		adjusted []*catalog.Product
		err      error
	)
	for attempt := 0; attempt < maxSettleRetries; attempt++ {
		invoice = nil
		adjusted = adjusted[:0]
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
			if err != nil {
				return err
			}
			if inv.IsCancelled() {
				invoice = inv
				return nil
			}

			wasPaid := inv.IsPaid()
			if err := inv.MarkCancelled(); err != nil {
				return err
			}
			if wasPaid {
				products, err := s.restoreStock(ctx, repos, inv, actorID)
				if err != nil {
					return err
				}
				adjusted = products
			}
			if err := repos.InvoiceRepo().SaveWithVersion(ctx, inv); err != nil {
				return err
			}
			invoice = inv
			return nil
		})
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice, adjusted)
	return ToInvoiceResponse(invoice), nil
}

// GetInvoice retrieves an invoice with its items
func (s *SettlementService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice), nil
}

// GetInvoiceByNumber retrieves an invoice by its invoice number
func (s *SettlementService) GetInvoiceByNumber(ctx context.Context, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice), nil
}

// ListInvoices lists invoices matching the filter, most recent first
func (s *SettlementService) ListInvoices(ctx context.Context, listFilter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
	filter := shared.DefaultFilter()
	if listFilter.Page > 0 {
		filter.Page = listFilter.Page
	}
	if listFilter.PageSize > 0 {
		filter.PageSize = listFilter.PageSize
	}

	var (
		invoices []billing.Invoice
		err      error
	)
	if listFilter.Start != nil && listFilter.End != nil {
		var status *billing.InvoiceStatus
		if listFilter.Status != "" {
			st := billing.InvoiceStatus(listFilter.Status)
			if !st.IsValid() {
				return nil, shared.NewDomainError("INVALID_STATUS", "Invalid invoice status: "+listFilter.Status)
			}
			status = &st
		}
		invoices, err = s.invoiceRepo.FindByDateRange(ctx, *listFilter.Start, *listFilter.End, status, filter)
	} else {
		invoices, err = s.invoiceRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToInvoiceListResponse(invoices), total, filter.Page, filter.PageSize)
	return &page, nil
}

// deductStock records a SALE movement for every invoice line
func (s *SettlementService) deductStock(ctx context.Context, repos TransactionalRepositories, inv *billing.Invoice, actorID *uuid.UUID) ([]*catalog.Product, error) {
	products := make([]*catalog.Product, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		product, _, err := s.stockService.AdjustInTx(ctx, repos, stock.AdjustStockRequest{
			ProductID: item.ProductID,
			Delta:     -item.Quantity,
			Kind:      ledger.KindSale.String(),
			ActorID:   actorID,
			Note:      fmt.Sprintf("Sale on invoice %s", inv.InvoiceNumber),
		})
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// restoreStock records a RETURN movement for every invoice line
func (s *SettlementService) restoreStock(ctx context.Context, repos TransactionalRepositories, inv *billing.Invoice, actorID *uuid.UUID) ([]*catalog.Product, error) {
	products := make([]*catalog.Product, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		product, _, err := s.stockService.AdjustInTx(ctx, repos, stock.AdjustStockRequest{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
			Kind:      ledger.KindReturn.String(),
			ActorID:   actorID,
			Note:      fmt.Sprintf("Return on cancelled invoice %s", inv.InvoiceNumber),
		})
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// activeRules loads the active discount and tax rules
func (s *SettlementService) activeRules(ctx context.Context) ([]billing.DiscountRule, []billing.TaxRule, error) {
	discounts, err := s.discountRepo.FindActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	taxes, err := s.taxRepo.FindActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	return discounts, taxes, nil
}

// publishEvents publishes invoice and product domain events after commit
func (s *SettlementService) publishEvents(ctx context.Context, invoice *billing.Invoice, products []*catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	if invoice != nil {
		if events := invoice.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			invoice.ClearDomainEvents()
		}
	}
	for _, product := range products {
		if events := product.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			product.ClearDomainEvents()
		}
	}
}

func validateDistinctProducts(items []InvoiceItemRequest) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Each product may appear on an invoice only once")
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}
