package service

import (
	"context"
	"fmt"

	escalationdomain "github.com/Markinhos/antaeus/internal/escalation/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// OperationsService raises operator tickets for failures retrying cannot fix.
type OperationsService struct {
	log      *zap.Logger
	provider escalationdomain.TicketingProvider
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Provider escalationdomain.TicketingProvider
}

func NewOperationsService(p Params) *OperationsService {
	return &OperationsService{
		log:      p.Log.Named("escalation.service"),
		provider: p.Provider,
	}
}

// EscalateCustomerNotFound opens a ticket referencing the invoice whose
// customer no longer resolves.
func (s *OperationsService) EscalateCustomerNotFound(ctx context.Context, invoiceID snowflake.ID) (snowflake.ID, error) {
	ticketID, err := s.provider.OpenTicket(ctx, invoiceID, escalationdomain.ReasonCustomerNotFound)
	if err != nil {
		return 0, fmt.Errorf("open ticket for invoice %s: %w", invoiceID, err)
	}
	s.log.Info("operations ticket opened",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("ticket_id", ticketID.String()),
		zap.String("reason", string(escalationdomain.ReasonCustomerNotFound)),
	)
	return ticketID, nil
}
