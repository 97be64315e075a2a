package catalog

import (
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel is the reorder threshold assigned to new products
// unless the caller specifies one.
const DefaultReorderLevel = 10

// Product is the aggregate root for catalog entries. It carries the
// current-quantity projection of the stock ledger.
//
// QuantityInStock is deliberately not settable from outside the domain:
// every change goes through ApplyStockChange so that the projection and the
// ledger stay reconciled. Catalog edits (name, prices, category) go through
// UpdateDetails, which never touches the quantity.
type Product struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"type:varchar(255);not null;index"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyingPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"` // cost basis, updated on purchase
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // selling price
	QuantityInStock int             `gorm:"not null;default:0"`
	ReorderLevel    int             `gorm:"not null;default:10"`
	Description     string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with zero stock
func NewProduct(name string, categoryID uuid.UUID, buyingPrice, unitPrice decimal.Decimal, reorderLevel int) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if buyingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Buying price cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if reorderLevel < 0 {
		return nil, shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CategoryID:        categoryID,
		BuyingPrice:       buyingPrice,
		UnitPrice:         unitPrice,
		QuantityInStock:   0,
		ReorderLevel:      reorderLevel,
	}, nil
}

// ApplyStockChange applies a signed quantity delta to the stock projection.
// A negative delta that would drive the quantity below zero is rejected with
// ErrInsufficientStock and leaves the product unchanged.
func (p *Product) ApplyStockChange(delta int) error {
	if delta == 0 {
		return shared.ErrInvalidAdjustment
	}
	newQuantity := p.QuantityInStock + delta
	if newQuantity < 0 {
		return shared.ErrInsufficientStock
	}

	wasLow := p.IsLowStock()
	p.QuantityInStock = newQuantity
	p.Touch()

	if !wasLow && p.IsLowStock() {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}

	return nil
}

// UpdateBuyingPrice records a new cost basis. Called when purchase stock
// arrives at a different unit cost.
func (p *Product) UpdateBuyingPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Buying price cannot be negative")
	}
	p.BuyingPrice = price
	p.Touch()
	return nil
}

// UpdateDetails updates the catalog attributes of the product. The quantity
// projection is excluded on purpose.
func (p *Product) UpdateDetails(name string, categoryID uuid.UUID, unitPrice decimal.Decimal, reorderLevel int, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if reorderLevel < 0 {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}

	p.Name = name
	p.CategoryID = categoryID
	p.UnitPrice = unitPrice
	p.ReorderLevel = reorderLevel
	p.Description = description
	p.Touch()

	return nil
}

// IsLowStock returns true when the quantity has fallen to or below the
// reorder level
func (p *Product) IsLowStock() bool {
	return p.QuantityInStock <= p.ReorderLevel
}

// CanFulfill returns true if the current stock can cover the requested quantity
func (p *Product) CanFulfill(quantity int) bool {
	return quantity > 0 && p.QuantityInStock >= quantity
}
