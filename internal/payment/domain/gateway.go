package domain

import (
	"context"

	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
)

// Gateway submits a charge against the customer's account.
//
// The boolean result is the gateway's acceptance decision: false with a nil
// error means the charge went through the provider and was declined. Failures
// are reported as typed errors so callers can classify them.
type Gateway interface {
	Charge(ctx context.Context, invoice invoicedomain.Invoice) (bool, error)
}
