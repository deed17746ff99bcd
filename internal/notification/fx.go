package notification

import (
	notificationdomain "github.com/Markinhos/antaeus/internal/notification/domain"
	"github.com/Markinhos/antaeus/internal/notification/provider"
	"github.com/Markinhos/antaeus/internal/notification/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notification",
	fx.Provide(func(log *zap.Logger) notificationdomain.Provider {
		return provider.NewLogProvider(log)
	}),
	fx.Provide(service.NewEmailService),
)
