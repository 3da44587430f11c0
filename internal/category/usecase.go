package category

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

type UseCase interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Product, error)
	// DeleteCategory removes every product carrying the label and reports how many went.
	DeleteCategory(ctx context.Context, name string) (int64, error)
}
