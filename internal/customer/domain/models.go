package domain

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
)

// Customer is owned by the customer directory; billing reads it only.
type Customer struct {
	ID        snowflake.ID            `gorm:"primaryKey" json:"id"`
	Name      string                  `gorm:"type:text;not null" json:"name"`
	Email     string                  `gorm:"type:text;not null" json:"email"`
	Currency  invoicedomain.Currency  `gorm:"type:text;not null" json:"currency"`
	CreatedAt time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

type Repository interface {
	FetchByID(ctx context.Context, id snowflake.ID) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
}

var (
	ErrInvalidCustomerID = errors.New("invalid_customer_id")
	ErrCustomerNotFound  = errors.New("customer_not_found")
)
