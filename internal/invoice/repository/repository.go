package repository

import (
	"context"
	"time"

	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) invoicedomain.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchByStatus(
	ctx context.Context,
	status invoicedomain.InvoiceStatus,
	afterID snowflake.ID,
	limit int,
) ([]invoicedomain.Invoice, error) {
	if !status.Valid() {
		return nil, invoicedomain.ErrInvalidStatus
	}
	var invoices []invoicedomain.Invoice
	query := r.db.WithContext(ctx).
		Where("status = ? AND id > ?", status, afterID).
		Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *Repository) FetchByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	if id == 0 {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}
	var invoice invoicedomain.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invoicedomain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *Repository) List(ctx context.Context) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := r.db.WithContext(ctx).Order("id").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// Update rewrites amount, customer id and status for one invoice in a single
// statement. Terminal invoices are never rewritten; a zero row count after a
// successful statement distinguishes a missing id from a terminal one.
func (r *Repository) Update(
	ctx context.Context,
	id snowflake.ID,
	amount invoicedomain.Money,
	customerID snowflake.ID,
	status invoicedomain.InvoiceStatus,
) (*invoicedomain.Invoice, error) {
	if id == 0 {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}
	if !status.Valid() {
		return nil, invoicedomain.ErrInvalidStatus
	}

	var updated *invoicedomain.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		result := tx.WithContext(ctx).Exec(
			`UPDATE invoices
			 SET amount_cents = ?, currency = ?, customer_id = ?, status = ?, updated_at = ?
			 WHERE id = ? AND status NOT IN (?, ?)`,
			amount.Value,
			amount.Currency,
			customerID,
			status,
			now,
			id,
			invoicedomain.InvoiceStatusPaid,
			invoicedomain.InvoiceStatusFailed,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.WithContext(ctx).Raw(
				`SELECT COUNT(1) FROM invoices WHERE id = ?`, id,
			).Scan(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return invoicedomain.ErrInvoiceNotFound
			}
			return invoicedomain.ErrTerminalStatus
		}

		var invoice invoicedomain.Invoice
		if err := tx.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
			return err
		}
		updated = &invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
