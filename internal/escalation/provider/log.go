package provider

import (
	"context"

	escalationdomain "github.com/Markinhos/antaeus/internal/escalation/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// LogProvider records tickets in the log instead of a ticketing system.
// Used outside production.
type LogProvider struct {
	log   *zap.Logger
	genID *snowflake.Node
}

func NewLogProvider(log *zap.Logger, genID *snowflake.Node) *LogProvider {
	return &LogProvider{log: log.Named("escalation.provider"), genID: genID}
}

func (p *LogProvider) OpenTicket(_ context.Context, invoiceID snowflake.ID, reason escalationdomain.ReasonCode) (snowflake.ID, error) {
	ticketID := p.genID.Generate()
	p.log.Info("ticket opened",
		zap.String("ticket_id", ticketID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("reason", string(reason)),
	)
	return ticketID, nil
}

var _ escalationdomain.TicketingProvider = (*LogProvider)(nil)
