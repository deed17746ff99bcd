package repository

import (
	"context"

	customerdomain "github.com/Markinhos/antaeus/internal/customer/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) customerdomain.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchByID(ctx context.Context, id snowflake.ID) (*customerdomain.Customer, error) {
	if id == 0 {
		return nil, customerdomain.ErrInvalidCustomerID
	}
	var customer customerdomain.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, customerdomain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) List(ctx context.Context) ([]customerdomain.Customer, error) {
	var customers []customerdomain.Customer
	err := r.db.WithContext(ctx).Order("id").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
