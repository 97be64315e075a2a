package billing

import (
	"github.com/billfold/backend/internal/domain/shared"
)

// Event types for the billing context
const (
	EventTypeInvoiceCreated   = "billing.invoice.created"
	EventTypeInvoicePaid      = "billing.invoice.paid"
	EventTypeInvoiceCancelled = "billing.invoice.cancelled"
)

// InvoiceCreatedEvent is emitted when a new invoice aggregate is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, inv.ID, "Invoice"),
		InvoiceNumber:   inv.InvoiceNumber,
		Status:          inv.Status.String(),
	}
}

// InvoicePaidEvent is emitted when an invoice transitions to PAID
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	TotalAmount   string `json:"total_amount"`
	ItemCount     int    `json:"item_count"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, inv.ID, "Invoice"),
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount.String(),
		ItemCount:       len(inv.Items),
	}
}

// InvoiceCancelledEvent is emitted when an invoice transitions to CANCELLED
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	WasPaid       bool   `json:"was_paid"` // true when stock was restored
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice, wasPaid bool) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, inv.ID, "Invoice"),
		InvoiceNumber:   inv.InvoiceNumber,
		WasPaid:         wasPaid,
	}
}
