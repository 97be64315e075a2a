package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/billfold/backend/internal/application/stock"
	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	if args.Error(0) == nil {
		product.IncrementVersion()
	}
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

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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

func newProductServiceFixture() (*MockProductRepository, *MockCategoryRepository, *MockEntryRepository, *ProductService) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	ledgerRepo := new(MockEntryRepository)
	scope := stock.NewNoOpTransactionScope(productRepo, ledgerRepo)
	stockService := stock.NewStockService(scope, productRepo, ledgerRepo)
	service := NewProductService(productRepo, categoryRepo, stockService)
	return productRepo, categoryRepo, ledgerRepo, service
}

func newTestCategory(t *testing.T) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory("Stationery", "")
	require.NoError(t, err)
	return category
}

func TestProductService_CreateProduct(t *testing.T) {
	productRepo, categoryRepo, _, service := newProductServiceFixture()

	category := newTestCategory(t)
	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil).Once()
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()

	resp, err := service.CreateProduct(context.Background(), CreateProductRequest{
		Name:        "Gel Pen",
		CategoryID:  category.ID,
		BuyingPrice: decimal.NewFromInt(5),
		UnitPrice:   decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	assert.Equal(t, "Gel Pen", resp.Name)
	assert.Equal(t, 0, resp.QuantityInStock)
	assert.Equal(t, catalog.DefaultReorderLevel, resp.ReorderLevel)
}

func TestProductService_CreateProduct_SeedsOpeningStockThroughLedger(t *testing.T) {
	productRepo, categoryRepo, ledgerRepo, service := newProductServiceFixture()

	category := newTestCategory(t)
	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil).Once()

	// the opening-stock adjustment re-reads the product inside its own
	// transaction, so the FindByID expectation is registered once the
	// product exists
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
		Run(func(args mock.Arguments) {
			created := args.Get(1).(*catalog.Product)
			productRepo.On("FindByID", mock.Anything, created.ID).Return(created, nil).Once()
		}).Return(nil).Once()
	productRepo.On("SaveWithVersion", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()

	var entry *ledger.StockLedgerEntry
	ledgerRepo.On("Create", mock.Anything, mock.AnythingOfType("*ledger.StockLedgerEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*ledger.StockLedgerEntry)
		}).Return(nil).Once()

	reorder := 5
	resp, err := service.CreateProduct(context.Background(), CreateProductRequest{
		Name:         "Gel Pen",
		CategoryID:   category.ID,
		BuyingPrice:  decimal.NewFromInt(5),
		UnitPrice:    decimal.NewFromInt(10),
		ReorderLevel: &reorder,
		OpeningStock: 40,
	})

	require.NoError(t, err)
	assert.Equal(t, 40, resp.QuantityInStock)
	require.NotNil(t, entry)
	assert.Equal(t, 40, entry.ChangeAmount)
	assert.Equal(t, ledger.KindAdjustment, entry.Kind)
	assert.Equal(t, "Opening stock", entry.Note)
}

func TestProductService_CreateProduct_UnknownCategory(t *testing.T) {
	productRepo, categoryRepo, _, service := newProductServiceFixture()

	id := uuid.New()
	categoryRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

	_, err := service.CreateProduct(context.Background(), CreateProductRequest{
		Name:        "Gel Pen",
		CategoryID:  id,
		BuyingPrice: decimal.NewFromInt(5),
		UnitPrice:   decimal.NewFromInt(10),
	})

	require.ErrorIs(t, err, shared.ErrNotFound)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProduct(t *testing.T) {
	productRepo, _, _, service := newProductServiceFixture()

	category := newTestCategory(t)
	product, err := catalog.NewProduct("Gel Pen", category.ID, decimal.NewFromInt(5), decimal.NewFromInt(10), 10)
	require.NoError(t, err)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil).Once()
	productRepo.On("SaveWithVersion", mock.Anything, product).Return(nil).Once()

	resp, err := service.UpdateProduct(context.Background(), product.ID, UpdateProductRequest{
		Name:         "Gel Pen 0.5mm",
		CategoryID:   category.ID,
		UnitPrice:    decimal.NewFromInt(12),
		ReorderLevel: 8,
	})

	require.NoError(t, err)
	assert.Equal(t, "Gel Pen 0.5mm", resp.Name)
	assert.True(t, resp.UnitPrice.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, 8, resp.ReorderLevel)
}
