package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// FailureKind classifies a charge failure for recovery decisions.
type FailureKind string

const (
	// FailureKindNone means the charge call completed, accepted or declined.
	FailureKindNone FailureKind = "none"
	// FailureKindTransient is an infrastructure failure worth retrying.
	FailureKindTransient FailureKind = "transient"
	// FailureKindCurrencyMismatch is customer-fixable, never retried.
	FailureKindCurrencyMismatch FailureKind = "currency_mismatch"
	// FailureKindCustomerNotFound is operator-fixable, never retried.
	FailureKindCustomerNotFound FailureKind = "customer_not_found"
	// FailureKindUnknown covers anything the gateway did not classify.
	FailureKindUnknown FailureKind = "unknown"
)

// TransientError wraps a network or infrastructure failure.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	if e.Cause == nil {
		return "transient gateway failure"
	}
	return fmt.Sprintf("transient gateway failure: %v", e.Cause)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// CurrencyMismatchError signals the invoice currency differs from the
// customer's billing currency.
type CurrencyMismatchError struct {
	InvoiceID  snowflake.ID
	CustomerID snowflake.ID
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch on invoice %s for customer %s", e.InvoiceID, e.CustomerID)
}

// CustomerNotFoundError signals the charge target no longer resolves to a
// valid customer.
type CustomerNotFoundError struct {
	CustomerID snowflake.ID
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %s not found", e.CustomerID)
}

// Classify maps a charge error onto its failure kind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureKindNone
	}
	var transient *TransientError
	if errors.As(err, &transient) {
		return FailureKindTransient
	}
	var mismatch *CurrencyMismatchError
	if errors.As(err, &mismatch) {
		return FailureKindCurrencyMismatch
	}
	var notFound *CustomerNotFoundError
	if errors.As(err, &notFound) {
		return FailureKindCustomerNotFound
	}
	return FailureKindUnknown
}

// IsTransient reports whether a failure should be retried.
func IsTransient(err error) bool {
	return Classify(err) == FailureKindTransient
}
