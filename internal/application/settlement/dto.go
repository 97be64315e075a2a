package settlement

import (
	"time"

	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest represents one requested invoice line. Unit price is
// not accepted from the caller - it is snapshotted from the product at
// creation time.
type InvoiceItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateInvoiceRequest represents a request to create an invoice. With
// MarkAsPaid set, the invoice settles immediately and the stock deductions
// happen in the same transaction.
type CreateInvoiceRequest struct {
	CustomerID *uuid.UUID           `json:"customer_id"`
	Date       *time.Time           `json:"date"`
	Items      []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	MarkAsPaid bool                 `json:"mark_as_paid"`
	ActorID    *uuid.UUID           `json:"actor_id"`
}

// UpdateInvoiceRequest represents a request to rewrite the lines of a
// PENDING invoice. The item list replaces the existing one.
type UpdateInvoiceRequest struct {
	CustomerID *uuid.UUID           `json:"customer_id"`
	Items      []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// InvoiceListFilter represents filter options for invoice list queries
type InvoiceListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	Start    *time.Time `form:"start" time_format:"2006-01-02"`
	End      *time.Time `form:"end" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     *uuid.UUID            `json:"customer_id,omitempty"`
	Date           time.Time             `json:"date"`
	Status         string                `json:"status"`
	SubTotal       decimal.Decimal       `json:"sub_total"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	TotalDisplay   string                `json:"total_display"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// ToInvoiceResponse converts an invoice to its response representation
func ToInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		}
	}
	return &InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		Date:           inv.Date,
		Status:         inv.Status.String(),
		SubTotal:       inv.SubTotal,
		DiscountAmount: inv.DiscountAmount,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		TotalDisplay:   valueobject.NewMoneyINR(inv.TotalAmount).Display(),
		Items:          items,
		PaidAt:         inv.PaidAt,
		CancelledAt:    inv.CancelledAt,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Version:        inv.Version,
	}
}

// ToInvoiceListResponse converts invoices to list responses, items omitted
func ToInvoiceListResponse(invoices []billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		responses[i] = InvoiceResponse{
			ID:             inv.ID,
			InvoiceNumber:  inv.InvoiceNumber,
			CustomerID:     inv.CustomerID,
			Date:           inv.Date,
			Status:         inv.Status.String(),
			SubTotal:       inv.SubTotal,
			DiscountAmount: inv.DiscountAmount,
			TaxAmount:      inv.TaxAmount,
			TotalAmount:    inv.TotalAmount,
			TotalDisplay:   valueobject.NewMoneyINR(inv.TotalAmount).Display(),
			CreatedAt:      inv.CreatedAt,
			UpdatedAt:      inv.UpdatedAt,
			Version:        inv.Version,
		}
	}
	return responses
}
