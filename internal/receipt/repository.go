package receipt

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/receipt/dto"
)

type Repository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	FindAll(ctx context.Context, filters *dto.ReceiptFilters) ([]model.Receipt, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
