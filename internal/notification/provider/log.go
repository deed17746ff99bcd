package provider

import (
	"context"

	notificationdomain "github.com/Markinhos/antaeus/internal/notification/domain"
	"github.com/Markinhos/antaeus/internal/observability/logger"
	"go.uber.org/zap"
)

// LogProvider writes notifications to the log instead of sending email.
// Used outside production.
type LogProvider struct {
	log *zap.Logger
}

func NewLogProvider(log *zap.Logger) *LogProvider {
	return &LogProvider{log: log.Named("notification.provider")}
}

func (p *LogProvider) Notify(_ context.Context, address string, content string) error {
	p.log.Info("email delivered",
		zap.String("to", logger.MaskEmail(address)),
		zap.Int("content_length", len(content)),
	)
	return nil
}

var _ notificationdomain.Provider = (*LogProvider)(nil)
