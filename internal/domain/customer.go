package domain

import "github.com/shopspring/decimal"

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

type Customer struct {
	ID           string          `json:"id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Phone        string          `json:"phone,omitempty"`
	Email        string          `json:"email,omitempty" validate:"omitempty,email"`
	Address      string          `json:"address,omitempty"`
	GSTIN        string          `json:"gstin,omitempty"`
	CreditLimit  decimal.Decimal `json:"creditLimit"`
	PaymentTerms string          `json:"paymentTerms,omitempty"`
	Status       CustomerStatus  `json:"status" validate:"required,oneof=active inactive"`
	Category     string          `json:"category,omitempty"`
}

func (c Customer) GetID() string { return c.ID }

func (c Customer) Clone() Customer { return c }

type CustomerPatch struct {
	Name         *string          `json:"name,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Address      *string          `json:"address,omitempty"`
	GSTIN        *string          `json:"gstin,omitempty"`
	CreditLimit  *decimal.Decimal `json:"creditLimit,omitempty"`
	PaymentTerms *string          `json:"paymentTerms,omitempty"`
	Status       *CustomerStatus  `json:"status,omitempty"`
	Category     *string          `json:"category,omitempty"`
}

func (p CustomerPatch) Apply(c *Customer) {
	setIf(&c.Name, p.Name)
	setIf(&c.Phone, p.Phone)
	setIf(&c.Email, p.Email)
	setIf(&c.Address, p.Address)
	setIf(&c.GSTIN, p.GSTIN)
	setIf(&c.CreditLimit, p.CreditLimit)
	setIf(&c.PaymentTerms, p.PaymentTerms)
	setIf(&c.Status, p.Status)
	setIf(&c.Category, p.Category)
}
