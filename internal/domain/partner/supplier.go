package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
)

// Supplier is a vendor the shop buys products from
type Supplier struct {
	shared.TenantAggregateRoot
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Notes         string
	IsActive      bool
}

// NewSupplier creates a new supplier
func NewSupplier(tenantID uuid.UUID, name string) (*Supplier, error) {
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		IsActive:            true,
	}, nil
}

// Update updates the supplier name and notes
func (s *Supplier) Update(name, notes string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Notes = notes
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetContact sets the contact person, phone, email and address
func (s *Supplier) SetContact(contactPerson, phone, email, address string) error {
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

	s.ContactPerson = contactPerson
	s.Phone = phone
	s.Email = strings.ToLower(email)
	s.Address = address
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Activate enables the supplier
func (s *Supplier) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now().UTC()
}

// Deactivate disables the supplier
func (s *Supplier) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now().UTC()
}

func validateSupplierName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("INVALID_NAME", "Supplier name cannot exceed 255 characters")
	}
	return nil
}
