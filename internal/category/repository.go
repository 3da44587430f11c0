package category

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	Exists(ctx context.Context, name string) (bool, error)
	CreatePlaceholder(ctx context.Context, name string) (*model.Product, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
}
