package catalog

import (
	"time"

	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product. Opening
// stock is not written directly - it is seeded through an ADJUSTMENT
// movement so the ledger covers the product's entire history.
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=255"`
	CategoryID   uuid.UUID       `json:"category_id" binding:"required"`
	BuyingPrice  decimal.Decimal `json:"buying_price" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	ReorderLevel *int            `json:"reorder_level" binding:"omitempty,min=0"`
	Description  string          `json:"description" binding:"max=500"`
	OpeningStock int             `json:"opening_stock" binding:"omitempty,min=0"`
	ActorID      *uuid.UUID      `json:"actor_id"`
}

// UpdateProductRequest represents a request to update a product's catalog
// attributes. Stock quantity is deliberately absent - quantities only move
// through stock adjustments.
type UpdateProductRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=255"`
	CategoryID   uuid.UUID       `json:"category_id" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	ReorderLevel int             `json:"reorder_level" binding:"min=0"`
	Description  string          `json:"description" binding:"max=500"`
}

// ProductListFilter represents filter options for product list queries
type ProductListFilter struct {
	Search   string `form:"search"`
	LowStock *bool  `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	CategoryID      uuid.UUID       `json:"category_id"`
	BuyingPrice     decimal.Decimal `json:"buying_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	QuantityInStock int             `json:"quantity_in_stock"`
	ReorderLevel    int             `json:"reorder_level"`
	LowStock        bool            `json:"low_stock"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToProductResponse converts a product to its response representation
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		BuyingPrice:     p.BuyingPrice,
		UnitPrice:       p.UnitPrice,
		QuantityInStock: p.QuantityInStock,
		ReorderLevel:    p.ReorderLevel,
		LowStock:        p.IsLowStock(),
		Description:     p.Description,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToCategoryResponse converts a category to its response representation
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
