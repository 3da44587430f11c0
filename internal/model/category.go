package model

// Category is a distinct product_type label with the number of rows carrying it.
type Category struct {
	Name     string `db:"product_type" json:"name"`
	Products int    `db:"products" json:"products"`
}
