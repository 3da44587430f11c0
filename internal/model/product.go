package model

import "github.com/shopspring/decimal"

// Product is one row of the "Products" collection.
type Product struct {
	ID       int64               `db:"id" json:"id"`
	Name     string              `db:"product_name" json:"name"`
	Category string              `db:"product_type" json:"category"`
	Price    decimal.NullDecimal `db:"price" json:"price"`
}

// PlaceholderProductName marks the row that keeps an otherwise empty category alive.
const PlaceholderProductName = "Category Placeholder"

func (p *Product) IsPlaceholder() bool {
	return p.Name == PlaceholderProductName
}
