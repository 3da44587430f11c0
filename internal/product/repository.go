package product

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type Repository interface {
	// FindAll returns every row, or only rows of category when it is not empty.
	FindAll(ctx context.Context, category string) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	DeleteByName(ctx context.Context, category, name string) (int64, error)
}
