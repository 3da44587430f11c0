package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is one row of the "Receipts" collection.
type Receipt struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Customer  string    `db:"Customer" json:"customer"`
	CreatedBy string    `db:"Createdby" json:"created_by"`
	URL       string    `db:"url" json:"url"`
}

// LineItem is a cart entry projected for printing.
type LineItem struct {
	ID          int64               `json:"id"`
	Description string              `json:"description"`
	Quantity    int                 `json:"quantity"`
	Price       decimal.NullDecimal `json:"price"`
}
