package escalation

import (
	"strings"

	"github.com/Markinhos/antaeus/internal/config"
	escalationdomain "github.com/Markinhos/antaeus/internal/escalation/domain"
	"github.com/Markinhos/antaeus/internal/escalation/provider"
	"github.com/Markinhos/antaeus/internal/escalation/service"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("escalation",
	fx.Provide(func(cfg config.Config, log *zap.Logger, genID *snowflake.Node) escalationdomain.TicketingProvider {
		if url := strings.TrimSpace(cfg.EscalationWebhookURL); url != "" {
			return provider.NewWebhookProvider(url, genID)
		}
		return provider.NewLogProvider(log, genID)
	}),
	fx.Provide(service.NewOperationsService),
)
