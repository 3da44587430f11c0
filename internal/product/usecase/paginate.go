package usecase

import (
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
)

// filterByName keeps rows whose name contains term, ignoring case.
func filterByName(rows []model.Product, term string) []model.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	out := make([]model.Product, 0, len(rows))
	for _, p := range rows {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// paginate slices rows[(page-1)*size : page*size]. Pages outside the valid
// range are clamped to the first or last page.
func paginate(rows []model.Product, page, size int) *dto.ProductPage {
	if size < 1 {
		size = 1
	}
	total := len(rows)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	res := &dto.ProductPage{
		Products:   append([]model.Product{}, rows[start:end]...),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      total,
	}
	if end > start {
		res.From = start + 1
		res.To = end
	}
	return res
}
