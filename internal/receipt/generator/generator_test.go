package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func testBranding() config.Branding {
	return config.Branding{
		Title:    "Receipt",
		Phones:   []string{"8000000001", "8000000002"},
		WhatsApp: "8000000003",
		Address:  []string{"1st floor, Market Road"},
		Email:    "hello@example.com",
		Website:  "https://example.com",
	}
}

func fixedGenerator(r Renderer, policy PagePolicy) *Generator {
	g := NewGenerator(policy, testBranding(), r)
	g.now = func() time.Time { return time.UnixMilli(1700000000123).UTC() }
	return g
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Plumbing", Title("Plumber"))
	assert.Equal(t, "Electrician", Title("Electrician"))
	assert.Equal(t, "Receipt", Title(""))
}

func TestGenerate(t *testing.T) {
	r := &fakeRenderer{}
	g := fixedGenerator(r, UniformPolicy(10))

	items := lineItems(23)
	items[0].Price = decimal.NewNullDecimal(decimal.RequireFromString("12.5"))
	art, err := g.Generate(context.Background(), Request{Customer: "Asha Rao", Category: "Plumber", Items: items})
	require.NoError(t, err)

	assert.Equal(t, "receipt-Asha Rao.pdf", art.FileName)
	assert.Equal(t, "Asha Rao-1700000000123.pdf", art.ObjectPath)
	assert.Equal(t, 3, art.Pages)
	assert.Equal(t, []byte("%PDF-1.4 fake"), art.PDF)

	html := r.html
	assert.Equal(t, 3, strings.Count(html, `<div class="page">`))
	assert.Equal(t, 1, strings.Count(html, "Customer: Asha Rao"), "customer block on the first page only")
	assert.Equal(t, 1, strings.Count(html, `class="footer"`), "footer on the first page only")
	assert.Equal(t, 3, strings.Count(html, "<table>"), "table on every page")
	assert.Contains(t, html, `<h1 class="title">Plumbing</h1>`)
	assert.Contains(t, html, "<td>23</td><td>item 23</td>", "rows are numbered across pages")
	assert.Contains(t, html, "<td>12.50</td>")
	assert.Contains(t, html, "Call: 8000000001, 8000000002")
	assert.Contains(t, html, "Date: 14/11/2023")
}

func TestGenerateEscapesInput(t *testing.T) {
	r := &fakeRenderer{}
	g := fixedGenerator(r, UniformPolicy(10))

	_, err := g.Generate(context.Background(), Request{
		Customer: "<script>x</script>",
		Items:    []model.LineItem{{ID: 1, Description: "a & b", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotContains(t, r.html, "<script>x</script>")
	assert.Contains(t, r.html, "a &amp; b")
}

func TestGenerateValidates(t *testing.T) {
	g := fixedGenerator(&fakeRenderer{}, UniformPolicy(10))

	_, err := g.Generate(context.Background(), Request{Items: lineItems(1)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = g.Generate(context.Background(), Request{Customer: "Asha"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGenerateRendererFailure(t *testing.T) {
	g := fixedGenerator(&fakeRenderer{err: errors.New("chrome crashed")}, UniformPolicy(10))

	_, err := g.Generate(context.Background(), Request{Customer: "Asha", Items: lineItems(2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome crashed")
}

func TestHTMLPageCount(t *testing.T) {
	g := fixedGenerator(&fakeRenderer{}, PagePolicy{First: 15, Rest: 30})
	_, pages, err := g.HTML(Request{Customer: "Asha", Items: lineItems(46)})
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}
