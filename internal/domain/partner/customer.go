package partner

import (
	"github.com/billfold/backend/internal/domain/shared"
)

// Customer is the party an invoice may be issued to. Invoices keep a
// nullable reference; walk-in sales carry none.
type Customer struct {
	shared.BaseEntity
	FullName string `gorm:"type:varchar(255);not null;index"`
	Phone    string `gorm:"type:varchar(30)"`
	Email    string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(fullName, phone, email string) (*Customer, error) {
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		FullName:   fullName,
		Phone:      phone,
		Email:      email,
	}, nil
}

// UpdateContact updates the customer's contact details
func (c *Customer) UpdateContact(phone, email string) {
	c.Phone = phone
	c.Email = email
	c.Touch()
}
