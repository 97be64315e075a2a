package billing

import (
	"fmt"
	"time"

	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// PENDING may stay PENDING (pre-settlement edits), become PAID, or become
// CANCELLED. PAID may only become CANCELLED. CANCELLED is terminal.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusPending:
		return target == InvoiceStatusPending || target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid:
		return target == InvoiceStatusCancelled
	case InvoiceStatusCancelled:
		return false
	}
	return false
}

// InvoiceItem is a line item on an invoice. The unit price is a snapshot
// taken at invoice-creation time and does not follow later product price
// changes.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new invoice item
func NewInvoiceItem(invoiceID, productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Subtotal returns quantity times the snapshot unit price
func (i *InvoiceItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Invoice is the aggregate root for settlement. It owns its line items and
// the computed totals; the stock effects of settlement are orchestrated by
// the application layer through the stock adjustment service.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string          `gorm:"type:varchar(30);uniqueIndex"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	Date           time.Time       `gorm:"type:timestamptz;not null;index"`
	Status         InvoiceStatus   `gorm:"type:varchar(20);not null;index"`
	SubTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID"`
	CreatedByID    *uuid.UUID      `gorm:"type:uuid"`
	CancelledAt    *time.Time      `gorm:"type:timestamptz"`
	PaidAt         *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in PENDING status with no items
func NewInvoice(customerID *uuid.UUID, date time.Time) *Invoice {
	if date.IsZero() {
		date = time.Now()
	}
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Date:              date,
		Status:            InvoiceStatusPending,
		SubTotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		TotalAmount:       decimal.Zero,
		Items:             make([]InvoiceItem, 0),
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv
}

// EnsureNumber assigns an invoice number if one is not set yet. Calling it
// again is a no-op - the number is generated once at first save and never
// regenerated.
func (inv *Invoice) EnsureNumber(now time.Time) {
	if inv.InvoiceNumber != "" {
		return
	}
	inv.InvoiceNumber = GenerateInvoiceNumber(now)
	inv.Touch()
}

// AddItem adds a line item. Only allowed while the invoice is PENDING.
func (inv *Invoice) AddItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if inv.Status != InvoiceStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a settled invoice")
	}
	for _, item := range inv.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already on invoice, update quantity instead")
		}
	}

	item, err := NewInvoiceItem(inv.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.Touch()
	return item, nil
}

// UpdateItemQuantity changes the quantity of an existing line item. Only
// allowed while the invoice is PENDING.
func (inv *Invoice) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if inv.Status != InvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a settled invoice")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			inv.Items[idx].Quantity = quantity
			inv.Items[idx].UpdatedAt = time.Now()
			inv.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// RemoveItem removes a line item. Only allowed while the invoice is PENDING.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != InvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a settled invoice")
	}
	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// ApplyTotals writes computed totals onto the invoice. Only allowed while the
// invoice is PENDING - totals of settled invoices are frozen.
func (inv *Invoice) ApplyTotals(t Totals) error {
	if inv.Status != InvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot recompute totals of a settled invoice")
	}
	inv.SubTotal = t.Subtotal
	inv.DiscountAmount = t.Discount
	inv.TaxAmount = t.Tax
	inv.TotalAmount = t.Total
	inv.Touch()
	return nil
}

// MarkPaid transitions the invoice to PAID. The caller is responsible for
// performing the SALE stock deductions in the same transaction.
func (inv *Invoice) MarkPaid() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot settle an invoice without items")
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	return nil
}

// MarkCancelled transitions the invoice to CANCELLED. The caller is
// responsible for the RETURN stock restorations when cancelling a PAID
// invoice, in the same transaction.
func (inv *Invoice) MarkCancelled() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}

	wasPaid := inv.Status == InvoiceStatusPaid
	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, wasPaid))
	return nil
}

// SetCreatedBy records the creating user
func (inv *Invoice) SetCreatedBy(userID uuid.UUID) {
	inv.CreatedByID = &userID
}

// IsPending returns true if the invoice is awaiting settlement
func (inv *Invoice) IsPending() bool {
	return inv.Status == InvoiceStatusPending
}

// IsPaid returns true if the invoice has been settled
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsCancelled returns true if the invoice has been cancelled
func (inv *Invoice) IsCancelled() bool {
	return inv.Status == InvoiceStatusCancelled
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// GetItemByProduct returns the line item for a product, or nil
func (inv *Invoice) GetItemByProduct(productID uuid.UUID) *InvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ProductID == productID {
			return &inv.Items[idx]
		}
	}
	return nil
}
