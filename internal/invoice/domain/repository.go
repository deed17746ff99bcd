package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the durable invoice store. Update is a conditional rewrite
// keyed on invoice id and treated as atomic by callers.
type Repository interface {
	// FetchByStatus returns invoices in the given status ordered by id,
	// starting after afterID. A positive limit caps the page size; zero
	// values return the whole set.
	FetchByStatus(ctx context.Context, status InvoiceStatus, afterID snowflake.ID, limit int) ([]Invoice, error)
	FetchByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	Update(ctx context.Context, id snowflake.ID, amount Money, customerID snowflake.ID, status InvoiceStatus) (*Invoice, error)
}
