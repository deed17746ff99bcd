package domain

import "errors"

var (
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvalidStatus    = errors.New("invalid_invoice_status")
	ErrTerminalStatus   = errors.New("invoice_status_terminal")
)
