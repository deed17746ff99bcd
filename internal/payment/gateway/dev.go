package gateway

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	paymentdomain "github.com/Markinhos/antaeus/internal/payment/domain"
)

// DevGateway produces randomized charge outcomes for local runs. It stands in
// for a real payment service provider adapter.
type DevGateway struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewDevGateway(seed int64) *DevGateway {
	return &DevGateway{rng: rand.New(rand.NewSource(seed))}
}

func (g *DevGateway) Charge(_ context.Context, invoice invoicedomain.Invoice) (bool, error) {
	g.mu.Lock()
	roll := g.rng.Intn(10)
	accept := g.rng.Intn(2) == 0
	g.mu.Unlock()

	switch roll {
	case 0:
		return false, &paymentdomain.TransientError{Cause: errors.New("connection reset")}
	case 1:
		return false, &paymentdomain.CurrencyMismatchError{
			InvoiceID:  invoice.ID,
			CustomerID: invoice.CustomerID,
		}
	case 2:
		return false, &paymentdomain.CustomerNotFoundError{CustomerID: invoice.CustomerID}
	default:
		return accept, nil
	}
}
