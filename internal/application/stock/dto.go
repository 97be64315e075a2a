package stock

import (
	"time"

	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest represents a request to record a stock movement
type AdjustStockRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Delta     int              `json:"delta" binding:"required"`
	Kind      string           `json:"kind" binding:"required,oneof=PURCHASE SALE ADJUSTMENT RETURN"`
	UnitCost  *decimal.Decimal `json:"unit_cost"` // required for PURCHASE, forbidden otherwise
	ActorID   *uuid.UUID       `json:"actor_id"`
	Note      string           `json:"note" binding:"max=255"`
}

// AdjustStockResponse represents the outcome of a stock movement
type AdjustStockResponse struct {
	Entry    LedgerEntryResponse `json:"entry"`
	Product  ProductStockView    `json:"product"`
	LowStock bool                `json:"low_stock"`
}

// ProductStockView represents a product's stock position after a movement
type ProductStockView struct {
	ProductID       uuid.UUID `json:"product_id"`
	Name            string    `json:"name"`
	QuantityInStock int       `json:"quantity_in_stock"`
	ReorderLevel    int       `json:"reorder_level"`
	Version         int       `json:"version"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID           uuid.UUID        `json:"id"`
	ProductID    uuid.UUID        `json:"product_id"`
	ChangeAmount int              `json:"change_amount"`
	Kind         string           `json:"kind"`
	Timestamp    time.Time        `json:"timestamp"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost    *decimal.Decimal `json:"total_cost,omitempty"`
	ActorID      *uuid.UUID       `json:"actor_id,omitempty"`
	Note         string           `json:"note,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// LedgerHistoryFilter represents filter options for ledger history queries
type LedgerHistoryFilter struct {
	Kind     string     `form:"kind" binding:"omitempty,oneof=PURCHASE SALE ADJUSTMENT RETURN"`
	Start    *time.Time `form:"start" time_format:"2006-01-02"`
	End      *time.Time `form:"end" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToLedgerEntryResponse converts a ledger entry to its response representation
func ToLedgerEntryResponse(entry *ledger.StockLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           entry.ID,
		ProductID:    entry.ProductID,
		ChangeAmount: entry.ChangeAmount,
		Kind:         entry.Kind.String(),
		Timestamp:    entry.Timestamp,
		UnitCost:     entry.UnitCost,
		TotalCost:    entry.TotalCost,
		ActorID:      entry.ActorID,
		Note:         entry.Note,
		CreatedAt:    entry.CreatedAt,
	}
}

// ToProductStockView converts a product to its stock-position view
func ToProductStockView(product *catalog.Product) ProductStockView {
	return ProductStockView{
		ProductID:       product.ID,
		Name:            product.Name,
		QuantityInStock: product.QuantityInStock,
		ReorderLevel:    product.ReorderLevel,
		Version:         product.Version,
	}
}
