package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Currency is an ISO 4217 code supported for billing.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyDKK Currency = "DKK"
	CurrencySEK Currency = "SEK"
	CurrencyGBP Currency = "GBP"
)

// Currencies lists every supported currency.
var Currencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyDKK, CurrencySEK, CurrencyGBP}

// Money is an immutable amount in minor units of a currency.
type Money struct {
	Value    int64    `json:"value"`
	Currency Currency `json:"currency"`
}

// InvoiceStatus tracks collection progress for an invoice.
type InvoiceStatus string

const (
	// InvoiceStatusPending marks an invoice awaiting its first charge.
	InvoiceStatusPending InvoiceStatus = "PENDING"
	// InvoiceStatusPaid is terminal.
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusRetryableFailed marks an invoice the next retry sweep
	// picks up again.
	InvoiceStatusRetryableFailed InvoiceStatus = "RETRYABLE_FAILED"
	// InvoiceStatusFailed is terminal and requires operator action.
	InvoiceStatusFailed InvoiceStatus = "FAILED"
)

// IsTerminal reports whether no further transition is allowed.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusFailed
}

// IsChargeable reports whether a charge may be submitted for this status.
func (s InvoiceStatus) IsChargeable() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusRetryableFailed
}

// Valid reports whether the status is a known value.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusRetryableFailed, InvoiceStatusFailed:
		return true
	}
	return false
}

// Invoice is a billable unit owned by a customer.
type Invoice struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	AmountCents int64         `gorm:"not null" json:"amount_cents"`
	Currency    Currency      `gorm:"type:text;not null" json:"currency"`
	Status      InvoiceStatus `gorm:"type:text;not null;index;default:'PENDING'" json:"status"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Amount returns the invoice total as Money.
func (i Invoice) Amount() Money {
	return Money{Value: i.AmountCents, Currency: i.Currency}
}
