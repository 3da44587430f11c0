package receipt

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/receipt/dto"
)

type UseCase interface {
	// Checkout renders the line items, stores the PDF and records it. The
	// rendered file stays downloadable even when storing or recording fails.
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*dto.CheckoutResult, error)
	ListReceipts(ctx context.Context, filters *dto.ReceiptFilters) ([]model.Receipt, error)
	DeleteReceipt(ctx context.Context, id int64) error
}
