package report

import (
	"context"
	"testing"
	"time"

	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByDateRange(ctx context.Context, start, end time.Time, status *billing.InvoiceStatus, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, start, end, status, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveWithItems(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithVersion(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SumPaidTotalByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEntryRepository is a mock implementation of ledger.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *ledger.StockLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockLedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.StockLedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ledger.StockLedgerEntry, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]ledger.StockLedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindByDateRange(ctx context.Context, start, end time.Time, kind *ledger.TransactionKind, filter shared.Filter) ([]ledger.StockLedgerEntry, error) {
	args := m.Called(ctx, start, end, kind, filter)
	return args.Get(0).([]ledger.StockLedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindRecent(ctx context.Context, limit int) ([]ledger.StockLedgerEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]ledger.StockLedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) SumChangeByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int), args.Error(1)
}

func (m *MockEntryRepository) SumPurchaseCostByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockEntryRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithVersion(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newReportFixture() (*MockInvoiceRepository, *MockEntryRepository, *MockProductRepository, *ReportService) {
	invoiceRepo := new(MockInvoiceRepository)
	ledgerRepo := new(MockEntryRepository)
	productRepo := new(MockProductRepository)
	service := NewReportService(invoiceRepo, ledgerRepo, productRepo)
	return invoiceRepo, ledgerRepo, productRepo, service
}

func TestReportService_GetSalesTotal(t *testing.T) {
	invoiceRepo, _, _, service := newReportFixture()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	invoiceRepo.On("SumPaidTotalByDateRange", mock.Anything, start, end).Return(decimal.NewFromInt(45000), nil).Once()

	resp, err := service.GetSalesTotal(context.Background(), start, end)

	require.NoError(t, err)
	assert.True(t, resp.TotalSales.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, "₹45000.00", resp.TotalDisplay)
}

func TestReportService_GetPurchaseTotal(t *testing.T) {
	_, ledgerRepo, _, service := newReportFixture()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	ledgerRepo.On("SumPurchaseCostByDateRange", mock.Anything, start, end).Return(decimal.NewFromFloat(1234.5), nil).Once()

	resp, err := service.GetPurchaseTotal(context.Background(), start, end)

	require.NoError(t, err)
	assert.Equal(t, "₹1234.50", resp.TotalDisplay)
}

func TestReportService_GetRecentActivity(t *testing.T) {
	_, ledgerRepo, productRepo, service := newReportFixture()

	product, err := catalog.NewProduct("Ink Cartridge", uuid.New(), decimal.NewFromInt(200), decimal.NewFromInt(350), 5)
	require.NoError(t, err)
	entry, err := ledger.NewStockLedgerEntry(product.ID, -2, ledger.KindSale, nil)
	require.NoError(t, err)

	ledgerRepo.On("FindRecent", mock.Anything, 10).Return([]ledger.StockLedgerEntry{*entry}, nil).Once()
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil).Once()

	rows, err := service.GetRecentActivity(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ink Cartridge", rows[0].ProductName)
	assert.Equal(t, -2, rows[0].ChangeAmount)
	assert.Equal(t, ledger.KindSale.String(), rows[0].Kind)
}

func TestReportService_GetRecentActivity_DefaultLimit(t *testing.T) {
	_, ledgerRepo, _, service := newReportFixture()

	ledgerRepo.On("FindRecent", mock.Anything, DefaultRecentActivityLimit).Return([]ledger.StockLedgerEntry{}, nil).Once()

	rows, err := service.GetRecentActivity(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, rows)
	ledgerRepo.AssertExpectations(t)
}

func TestReportService_ListSalesRows(t *testing.T) {
	invoiceRepo, _, _, service := newReportFixture()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	inv := billing.NewInvoice(nil, start.AddDate(0, 0, 3))
	inv.InvoiceNumber = "INV-20250404-ABCDEF"
	inv.Status = billing.InvoiceStatusPaid
	inv.TotalAmount = decimal.NewFromInt(1180)

	status := billing.InvoiceStatusPaid
	filter := shared.DefaultFilter()
	invoiceRepo.On("FindByDateRange", mock.Anything, start, end, &status, filter).Return([]billing.Invoice{*inv}, nil).Once()

	rows, err := service.ListSalesRows(context.Background(), start, end, &status, filter)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "INV-20250404-ABCDEF", rows[0].InvoiceNumber)
	assert.Equal(t, string(billing.InvoiceStatusPaid), rows[0].Status)
	assert.Equal(t, "₹1180.00", rows[0].TotalDisplay)
}

func TestReportService_ListLedgerRows(t *testing.T) {
	_, ledgerRepo, productRepo, service := newReportFixture()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	product, err := catalog.NewProduct("Stapler", uuid.New(), decimal.NewFromInt(80), decimal.NewFromInt(120), 5)
	require.NoError(t, err)
	unitCost := decimal.NewFromInt(80)
	entry, err := ledger.NewStockLedgerEntry(product.ID, 10, ledger.KindPurchase, &unitCost)
	require.NoError(t, err)

	filter := shared.DefaultFilter()
	ledgerRepo.On("FindByDateRange", mock.Anything, start, end, (*ledger.TransactionKind)(nil), filter).Return([]ledger.StockLedgerEntry{*entry}, nil).Once()
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil).Once()

	rows, err := service.ListLedgerRows(context.Background(), start, end, nil, filter)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Stapler", rows[0].ProductName)
	assert.Equal(t, 10, rows[0].ChangeAmount)
	require.NotNil(t, rows[0].TotalCost)
	assert.True(t, rows[0].TotalCost.Equal(decimal.NewFromInt(800)))
}

func TestReportService_ListLowStock(t *testing.T) {
	_, _, productRepo, service := newReportFixture()

	low, err := catalog.NewProduct("Marker", uuid.New(), decimal.NewFromInt(20), decimal.NewFromInt(35), 10)
	require.NoError(t, err)
	low.QuantityInStock = 4

	filter := shared.DefaultFilter()
	productRepo.On("FindLowStock", mock.Anything, filter).Return([]catalog.Product{*low}, nil).Once()

	rows, err := service.ListLowStock(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].QuantityInStock)
	assert.Equal(t, 6, rows[0].Shortfall)
}
