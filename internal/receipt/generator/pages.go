package generator

import "github.com/fekuna/omnipos-storefront/internal/model"

// PagePolicy is how many line items fit on the first page and on every
// page after it.
type PagePolicy struct {
	First int
	Rest  int
}

// UniformPolicy puts n items on every page.
func UniformPolicy(n int) PagePolicy {
	return PagePolicy{First: n, Rest: n}
}

func (p PagePolicy) normalized() PagePolicy {
	if p.First < 1 {
		p.First = p.Rest
	}
	if p.Rest < 1 {
		p.Rest = p.First
	}
	return p
}

// Split cuts items into pages without copying, dropping or reordering any
// item. A policy with no positive capacity keeps everything on one page.
func (p PagePolicy) Split(items []model.LineItem) [][]model.LineItem {
	if len(items) == 0 {
		return nil
	}
	p = p.normalized()
	if p.First < 1 {
		return [][]model.LineItem{items}
	}

	first := p.First
	if first > len(items) {
		first = len(items)
	}
	pages := [][]model.LineItem{items[:first]}
	for rest := items[first:]; len(rest) > 0; {
		n := p.Rest
		if n > len(rest) {
			n = len(rest)
		}
		pages = append(pages, rest[:n])
		rest = rest[n:]
	}
	return pages
}
