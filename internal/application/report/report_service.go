package report

import (
	"context"
	"time"

	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/billfold/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRecentActivityLimit caps the recent-activity feed when the caller
// does not ask for a specific size
const DefaultRecentActivityLimit = 20

// ReportService is a read-only facade over the ledger, the invoices and the
// product catalog. It never mutates state; every figure is computed on read
// from the underlying stores.
type ReportService struct {
	invoiceRepo         billing.InvoiceRepository
	ledgerRepo          ledger.EntryRepository
	productRepo         catalog.ProductRepository
	recentActivityLimit int
}

// NewReportService creates a new ReportService
func NewReportService(
	invoiceRepo billing.InvoiceRepository,
	ledgerRepo ledger.EntryRepository,
	productRepo catalog.ProductRepository,
) *ReportService {
	return &ReportService{
		invoiceRepo:         invoiceRepo,
		ledgerRepo:          ledgerRepo,
		productRepo:         productRepo,
		recentActivityLimit: DefaultRecentActivityLimit,
	}
}

// SetRecentActivityLimit overrides the fallback feed size used when a caller
// does not ask for a specific one. Values below 1 are ignored.
func (s *ReportService) SetRecentActivityLimit(n int) {
	if n >= 1 {
		s.recentActivityLimit = n
	}
}

// SalesTotalResponse represents the paid-invoice revenue for a period
type SalesTotalResponse struct {
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalDisplay string          `json:"total_display"`
}

// PurchaseTotalResponse represents the purchase spend for a period
type PurchaseTotalResponse struct {
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalDisplay string          `json:"total_display"`
}

// ActivityRow represents one recent stock movement
type ActivityRow struct {
	EntryID      uuid.UUID `json:"entry_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	Kind         string    `json:"kind"`
	ChangeAmount int       `json:"change_amount"`
	Timestamp    time.Time `json:"timestamp"`
	Note         string    `json:"note,omitempty"`
}

// SalesRow represents one invoice in a sales report
type SalesRow struct {
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	Date           time.Time       `json:"date"`
	Status         string          `json:"status"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalDisplay   string          `json:"total_display"`
}

// LedgerRow represents one ledger entry in a stock report
type LedgerRow struct {
	EntryID      uuid.UUID        `json:"entry_id"`
	ProductID    uuid.UUID        `json:"product_id"`
	ProductName  string           `json:"product_name,omitempty"`
	Kind         string           `json:"kind"`
	ChangeAmount int              `json:"change_amount"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost    *decimal.Decimal `json:"total_cost,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
	Note         string           `json:"note,omitempty"`
}

// LowStockRow represents a product at or below its reorder level
type LowStockRow struct {
	ProductID       uuid.UUID `json:"product_id"`
	Name            string    `json:"name"`
	QuantityInStock int       `json:"quantity_in_stock"`
	ReorderLevel    int       `json:"reorder_level"`
	Shortfall       int       `json:"shortfall"`
}

// GetSalesTotal sums the grand totals of PAID invoices dated within the
// period. Cancelled invoices never count, even ones that were paid before
// cancellation.
func (s *ReportService) GetSalesTotal(ctx context.Context, start, end time.Time) (*SalesTotalResponse, error) {
	total, err := s.invoiceRepo.SumPaidTotalByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &SalesTotalResponse{
		PeriodStart:  start,
		PeriodEnd:    end,
		TotalSales:   total,
		TotalDisplay: valueobject.NewMoneyINR(total).Display(),
	}, nil
}

// GetPurchaseTotal sums the recorded cost of PURCHASE ledger entries within
// the period
func (s *ReportService) GetPurchaseTotal(ctx context.Context, start, end time.Time) (*PurchaseTotalResponse, error) {
	total, err := s.ledgerRepo.SumPurchaseCostByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &PurchaseTotalResponse{
		PeriodStart:  start,
		PeriodEnd:    end,
		TotalCost:    total,
		TotalDisplay: valueobject.NewMoneyINR(total).Display(),
	}, nil
}

// GetRecentActivity returns the most recent stock movements, newest first,
// decorated with product names where the products still exist.
func (s *ReportService) GetRecentActivity(ctx context.Context, limit int) ([]ActivityRow, error) {
	if limit <= 0 {
		limit = s.recentActivityLimit
	}
	entries, err := s.ledgerRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	names, err := s.productNames(ctx, entries)
	if err != nil {
		return nil, err
	}

	rows := make([]ActivityRow, len(entries))
	for i := range entries {
		entry := &entries[i]
		rows[i] = ActivityRow{
			EntryID:      entry.ID,
			ProductID:    entry.ProductID,
			ProductName:  names[entry.ProductID],
			Kind:         entry.Kind.String(),
			ChangeAmount: entry.ChangeAmount,
			Timestamp:    entry.Timestamp,
			Note:         entry.Note,
		}
	}
	return rows, nil
}

// ListLowStock returns products whose quantity is at or below their reorder
// level. Membership is computed from the current projection on every call,
// never cached.
func (s *ReportService) ListLowStock(ctx context.Context, filter shared.Filter) ([]LowStockRow, error) {
	products, err := s.productRepo.FindLowStock(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]LowStockRow, len(products))
	for i := range products {
		p := &products[i]
		rows[i] = LowStockRow{
			ProductID:       p.ID,
			Name:            p.Name,
			QuantityInStock: p.QuantityInStock,
			ReorderLevel:    p.ReorderLevel,
			Shortfall:       p.ReorderLevel - p.QuantityInStock,
		}
	}
	return rows, nil
}

// ListSalesRows returns the invoices dated within the period, most recent
// first. A nil status matches every status.
func (s *ReportService) ListSalesRows(ctx context.Context, start, end time.Time, status *billing.InvoiceStatus, filter shared.Filter) ([]SalesRow, error) {
	invoices, err := s.invoiceRepo.FindByDateRange(ctx, start, end, status, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]SalesRow, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		rows[i] = SalesRow{
			InvoiceID:      inv.ID,
			InvoiceNumber:  inv.InvoiceNumber,
			Date:           inv.Date,
			Status:         string(inv.Status),
			SubTotal:       inv.SubTotal,
			DiscountAmount: inv.DiscountAmount,
			TaxAmount:      inv.TaxAmount,
			TotalAmount:    inv.TotalAmount,
			TotalDisplay:   valueobject.NewMoneyINR(inv.TotalAmount).Display(),
		}
	}
	return rows, nil
}

// ListLedgerRows returns the ledger entries recorded within the period, most
// recent first, decorated with product names. A nil kind matches every kind.
func (s *ReportService) ListLedgerRows(ctx context.Context, start, end time.Time, kind *ledger.TransactionKind, filter shared.Filter) ([]LedgerRow, error) {
	entries, err := s.ledgerRepo.FindByDateRange(ctx, start, end, kind, filter)
	if err != nil {
		return nil, err
	}

	names, err := s.productNames(ctx, entries)
	if err != nil {
		return nil, err
	}

	rows := make([]LedgerRow, len(entries))
	for i := range entries {
		entry := &entries[i]
		rows[i] = LedgerRow{
			EntryID:      entry.ID,
			ProductID:    entry.ProductID,
			ProductName:  names[entry.ProductID],
			Kind:         entry.Kind.String(),
			ChangeAmount: entry.ChangeAmount,
			UnitCost:     entry.UnitCost,
			TotalCost:    entry.TotalCost,
			Timestamp:    entry.Timestamp,
			Note:         entry.Note,
		}
	}
	return rows, nil
}

func (s *ReportService) productNames(ctx context.Context, entries []ledger.StockLedgerEntry) (map[uuid.UUID]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for i := range entries {
		id := entries[i].ProductID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(products))
	for i := range products {
		names[products[i].ID] = products[i].Name
	}
	return names, nil
}
