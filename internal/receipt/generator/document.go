package generator

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

//go:embed templates/*
var templateFS embed.FS

var receiptTemplate = template.Must(
	template.New("receipt.gohtml").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/receipt.gohtml"),
)

const dateLayout = "02/01/2006"

type row struct {
	Index       int
	Description string
	Quantity    int
	Price       string
}

type page struct {
	First bool
	Rows  []row
}

type document struct {
	Title    string
	Customer string
	Mobile   string
	Date     string
	Branding config.Branding
	Pages    []page
}

// Title picks the document heading for a service category.
func Title(category string) string {
	switch category {
	case "":
		return "Receipt"
	case "Plumber":
		return "Plumbing"
	default:
		return category
	}
}

// renderHTML lays the pages out as one printable document. Header, customer
// block and footer appear on the first page only; rows are numbered across
// pages.
func renderHTML(req Request, branding config.Branding, pages [][]model.LineItem, at time.Time) (string, error) {
	doc := document{
		Title:    Title(req.Category),
		Customer: req.Customer,
		Mobile:   req.Mobile,
		Date:     at.Format(dateLayout),
		Branding: branding,
	}

	index := 0
	for i, items := range pages {
		p := page{First: i == 0, Rows: make([]row, 0, len(items))}
		for _, it := range items {
			index++
			price := ""
			if it.Price.Valid {
				price = it.Price.Decimal.StringFixed(2)
			}
			p.Rows = append(p.Rows, row{
				Index:       index,
				Description: it.Description,
				Quantity:    it.Quantity,
				Price:       price,
			})
		}
		doc.Pages = append(doc.Pages, p)
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}
