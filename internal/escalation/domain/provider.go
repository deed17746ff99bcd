package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ReasonCode identifies why an operator ticket was opened.
type ReasonCode string

const (
	ReasonCustomerNotFound ReasonCode = "CUSTOMER_NOT_FOUND"
)

// TicketingProvider opens an operator-facing ticket and returns its id.
type TicketingProvider interface {
	OpenTicket(ctx context.Context, invoiceID snowflake.ID, reason ReasonCode) (snowflake.ID, error)
}
