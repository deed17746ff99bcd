package payment

import (
	"time"

	paymentdomain "github.com/Markinhos/antaeus/internal/payment/domain"
	"github.com/Markinhos/antaeus/internal/payment/gateway"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(func() paymentdomain.Gateway {
		return gateway.NewDevGateway(time.Now().UnixNano())
	}),
)
