package service

import (
	"context"
	"fmt"

	customerdomain "github.com/Markinhos/antaeus/internal/customer/domain"
	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	notificationdomain "github.com/Markinhos/antaeus/internal/notification/domain"
	"github.com/Markinhos/antaeus/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const currencyMismatchTemplate = `Dear %s,

We are sorry to report that invoice %s could not be processed because it does
not match your billing currency (invoice currency: %s, customer currency: %s).
Please update your currency and the payment will be retried on the next day.

Sincerely,
The billing team`

// EmailService notifies customers about billing problems.
type EmailService struct {
	log       *zap.Logger
	customers customerdomain.Repository
	provider  notificationdomain.Provider
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Customers customerdomain.Repository
	Provider  notificationdomain.Provider
}

func NewEmailService(p Params) *EmailService {
	return &EmailService{
		log:       p.Log.Named("notification.service"),
		customers: p.Customers,
		provider:  p.Provider,
	}
}

// NotifyCurrencyMismatch emails the invoice's customer about a currency
// mismatch. The address is resolved by customer id at send time, never
// cached, so a fixed address takes effect on the next failure.
func (s *EmailService) NotifyCurrencyMismatch(ctx context.Context, invoice invoicedomain.Invoice) error {
	customer, err := s.customers.FetchByID(ctx, invoice.CustomerID)
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", invoice.CustomerID, err)
	}

	content := fmt.Sprintf(currencyMismatchTemplate,
		customer.Name,
		invoice.ID,
		invoice.Currency,
		customer.Currency,
	)
	if err := s.provider.Notify(ctx, customer.Email, content); err != nil {
		return fmt.Errorf("notify %s: %w", logger.MaskEmail(customer.Email), err)
	}

	s.log.Info("currency mismatch notification sent",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("email", logger.MaskEmail(customer.Email)),
	)
	return nil
}
