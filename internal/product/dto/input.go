package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Category string
	Name     string
	Price    decimal.NullDecimal
}

type DeleteProductInput struct {
	Category string
	Name     string
}
