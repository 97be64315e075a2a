package catalog

import (
	"context"

	"github.com/billfold/backend/internal/application/stock"
	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductService handles catalog operations on products. It never writes
// quantities itself: opening stock goes through the stock adjustment service
// so every unit a product ever held is covered by a ledger entry.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	stockService *stock.StockService
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	stockService *stock.StockService,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockService: stockService,
	}
}

// CreateProduct creates a product, seeding any opening stock with an
// ADJUSTMENT movement
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	reorderLevel := catalog.DefaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}

	product, err := catalog.NewProduct(req.Name, req.CategoryID, req.BuyingPrice, req.UnitPrice, reorderLevel)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if req.OpeningStock > 0 {
		resp, err := s.stockService.Adjust(ctx, stock.AdjustStockRequest{
			ProductID: product.ID,
			Delta:     req.OpeningStock,
			Kind:      ledger.KindAdjustment.String(),
			ActorID:   req.ActorID,
			Note:      "Opening stock",
		})
		if err != nil {
			return nil, err
		}
		product.QuantityInStock = resp.Product.QuantityInStock
		product.Version = resp.Product.Version
	}

	return ToProductResponse(product), nil
}

// UpdateProduct updates a product's catalog attributes
func (s *ProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CategoryID != req.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := product.UpdateDetails(req.Name, req.CategoryID, req.UnitPrice, req.ReorderLevel, req.Description); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithVersion(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// ListProducts lists products matching the filter
func (s *ProductService) ListProducts(ctx context.Context, listFilter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if listFilter.Page > 0 {
		filter.Page = listFilter.Page
	}
	if listFilter.PageSize > 0 {
		filter.PageSize = listFilter.PageSize
	}
	filter.Search = listFilter.Search

	var (
		products []catalog.Product
		err      error
	)
	if listFilter.LowStock != nil && *listFilter.LowStock {
		products, err = s.productRepo.FindLowStock(ctx, filter)
	} else {
		products, err = s.productRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

// CreateCategory creates a category. Names are unique.
func (s *ProductService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if existing, err := s.categoryRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// ListCategories lists all categories
func (s *ProductService) ListCategories(ctx context.Context, filter shared.Filter) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *ToCategoryResponse(&categories[i])
	}
	return responses, nil
}
