package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	escalationdomain "github.com/Markinhos/antaeus/internal/escalation/domain"
	"github.com/Markinhos/antaeus/internal/observability/tracing"
	"github.com/bwmarrin/snowflake"
)

// WebhookProvider posts tickets to an external ticketing endpoint.
type WebhookProvider struct {
	url    string
	client *http.Client
	genID  *snowflake.Node
}

func NewWebhookProvider(url string, genID *snowflake.Node) *WebhookProvider {
	client := tracing.WrapHTTPClient(&http.Client{Timeout: 10 * time.Second})
	return &WebhookProvider{url: url, client: client, genID: genID}
}

type ticketPayload struct {
	TicketID  string `json:"ticket_id"`
	InvoiceID string `json:"invoice_id"`
	Reason    string `json:"reason"`
	OpenedAt  string `json:"opened_at"`
}

func (p *WebhookProvider) OpenTicket(ctx context.Context, invoiceID snowflake.ID, reason escalationdomain.ReasonCode) (snowflake.ID, error) {
	ticketID := p.genID.Generate()
	body, err := json.Marshal(ticketPayload{
		TicketID:  ticketID.String(),
		InvoiceID: invoiceID.String(),
		Reason:    string(reason),
		OpenedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("ticketing endpoint returned %d", resp.StatusCode)
	}
	return ticketID, nil
}
