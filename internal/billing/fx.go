package billing

import (
	billingdomain "github.com/Markinhos/antaeus/internal/billing/domain"
	"github.com/Markinhos/antaeus/internal/billing/service"
	escalationservice "github.com/Markinhos/antaeus/internal/escalation/service"
	notificationservice "github.com/Markinhos/antaeus/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(func(svc *notificationservice.EmailService) billingdomain.Notifier { return svc }),
	fx.Provide(func(svc *escalationservice.OperationsService) billingdomain.Escalator { return svc }),
	fx.Provide(service.NewService),
)
