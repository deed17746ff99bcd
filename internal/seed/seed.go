package seed

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	customerdomain "github.com/Markinhos/antaeus/internal/customer/domain"
	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	demoCustomerCount    = 100
	demoInvoicesPerOwner = 10
	demoEmailDomain      = "example.com"
)

// EnsureDemoData seeds customers and invoices for local runs. It is a no-op
// when any customer already exists, so restarts keep accumulated state.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&customerdomain.Customer{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		now := time.Now().UTC()

		for i := 0; i < demoCustomerCount; i++ {
			name := randomName(rng)
			customer := customerdomain.Customer{
				ID:        node.Generate(),
				Name:      name,
				Email:     strings.ToLower(name) + "@" + demoEmailDomain,
				Currency:  invoicedomain.Currencies[rng.Intn(len(invoicedomain.Currencies))],
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.WithContext(ctx).Create(&customer).Error; err != nil {
				return err
			}

			for j := 0; j < demoInvoicesPerOwner; j++ {
				status := invoicedomain.InvoiceStatusPaid
				if j == 0 {
					status = invoicedomain.InvoiceStatusPending
				}
				inv := invoicedomain.Invoice{
					ID:          node.Generate(),
					CustomerID:  customer.ID,
					AmountCents: int64(rng.Intn(49000) + 1000),
					Currency:    customer.Currency,
					Status:      status,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if err := tx.WithContext(ctx).Create(&inv).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func randomName(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteByte(letters[rng.Intn(len(letters))])
	}
	return b.String()
}
