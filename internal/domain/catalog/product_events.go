package catalog

import (
	"github.com/billfold/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeProductLowStock = "catalog.product.low_stock"
)

// ProductLowStockEvent is emitted when a stock change drops a product to or
// below its reorder level
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	ProductName     string `json:"product_name"`
	QuantityInStock int    `json:"quantity_in_stock"`
	ReorderLevel    int    `json:"reorder_level"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(p *Product) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, p.ID, "Product"),
		ProductName:     p.Name,
		QuantityInStock: p.QuantityInStock,
		ReorderLevel:    p.ReorderLevel,
	}
}
