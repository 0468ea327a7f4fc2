package domain

import "time"

const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

type Supplier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       Address   `json:"address"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	TaxID         string    `json:"taxId,omitempty"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
