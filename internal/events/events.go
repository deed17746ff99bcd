package events

// Billing event types emitted by collection runs.
const (
	EventInvoicePaid           = "invoice.paid"
	EventInvoiceRetryScheduled = "invoice.retry_scheduled"
	EventInvoiceFailed         = "invoice.failed"
	EventInvoiceEscalated      = "invoice.escalated"
)

// InvoiceOutcomePayload captures the result of one invoice's processing.
type InvoiceOutcomePayload struct {
	InvoiceID  string `json:"invoice_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	TicketID   string `json:"ticket_id,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p InvoiceOutcomePayload) ToMap() map[string]any {
	payload := map[string]any{
		"invoice_id":  p.InvoiceID,
		"customer_id": p.CustomerID,
		"status":      p.Status,
	}
	if p.Reason != "" {
		payload["reason"] = p.Reason
	}
	if p.TicketID != "" {
		payload["ticket_id"] = p.TicketID
	}
	return payload
}
