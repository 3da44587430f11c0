package dto

import "github.com/fekuna/omnipos-storefront/internal/model"

type CheckoutInput struct {
	Customer  string
	Mobile    string
	Category  string
	CreatedBy string
	Items     []model.LineItem
}
