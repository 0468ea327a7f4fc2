package dto

import (
	"time"

	"mortar/internal/domain"
)

type CustomerRequest struct {
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Phone       string               `json:"phone"`
	Address     domain.Address       `json:"address"`
	HealthInfo  domain.HealthInfo    `json:"healthInfo"`
	DateOfBirth *time.Time           `json:"dateOfBirth"`
	Gender      string               `json:"gender"`
	Insurance   domain.InsuranceInfo `json:"insuranceInfo"`
}

type SupplierRequest struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       domain.Address `json:"address"`
	ContactPerson string         `json:"contactPerson"`
	TaxID         string         `json:"taxId"`
	Status        string         `json:"status"`
	Notes         string         `json:"notes"`
}
