package dto

import "github.com/fekuna/omnipos-storefront/internal/model"

type CategoryList struct {
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
}

type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}
