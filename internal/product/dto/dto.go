package dto

import "github.com/fekuna/omnipos-storefront/internal/model"

type ProductFilters struct {
	Category    string
	SearchQuery string // case-insensitive substring of the product name
	Page        int
	PageSize    int
}

// ProductPage is one page of the filtered catalog. From and To are the
// 1-based positions of the first and last row shown, 0 when empty.
type ProductPage struct {
	Products   []model.Product `json:"products"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`
	From       int             `json:"from"`
	To         int             `json:"to"`
}
