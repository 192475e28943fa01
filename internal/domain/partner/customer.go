package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	phoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Customer is a buyer known to the shop.
// TotalPurchases and TotalTransactions are running totals maintained by the
// sale engines; they are a cache over the sales table, not a source of truth.
type Customer struct {
	shared.TenantAggregateRoot
	Name              string
	Phone             string
	Email             string
	Address           string
	TotalPurchases    decimal.Decimal
	TotalTransactions int
	LastPurchaseAt    *time.Time
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		TotalPurchases:      decimal.Zero,
	}, nil
}

// Update updates the customer name
func (c *Customer) Update(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetContact sets phone, email and address
func (c *Customer) SetContact(phone, email, address string) error {
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Phone = phone
	c.Email = strings.ToLower(email)
	c.Address = address
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RecordPurchase adds a completed sale to the running totals
func (c *Customer) RecordPurchase(amount decimal.Decimal, at time.Time) {
	c.TotalPurchases = c.TotalPurchases.Add(amount)
	c.TotalTransactions++
	c.LastPurchaseAt = &at
	c.UpdatedAt = time.Now().UTC()
}

// ReversePurchase removes a deleted sale from the running totals.
// No floor is applied: totals may go negative if they were edited elsewhere.
// LastPurchaseAt is left unchanged.
func (c *Customer) ReversePurchase(amount decimal.Decimal) {
	c.TotalPurchases = c.TotalPurchases.Sub(amount)
	c.TotalTransactions--
	c.UpdatedAt = time.Now().UTC()
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("INVALID_NAME", "Customer name cannot exceed 255 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 20 {
		return shared.NewValidationError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
	}
	if !phoneRegex.MatchString(phone) {
		return shared.NewValidationError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 255 {
		return shared.NewValidationError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
