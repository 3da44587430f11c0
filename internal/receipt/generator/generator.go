package generator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Renderer prints an HTML document to PDF bytes.
type Renderer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

type Request struct {
	Customer string
	Mobile   string
	Category string
	Items    []model.LineItem
}

// Artifact is a rendered receipt, not yet stored anywhere.
type Artifact struct {
	FileName   string
	ObjectPath string
	PDF        []byte
	Pages      int
	CreatedAt  time.Time
}

type Generator struct {
	policy   PagePolicy
	branding config.Branding
	renderer Renderer
	now      func() time.Time
}

func NewGenerator(policy PagePolicy, branding config.Branding, renderer Renderer) *Generator {
	return &Generator{
		policy:   policy,
		branding: branding,
		renderer: renderer,
		now:      time.Now,
	}
}

// HTML renders the printable document without printing it.
func (g *Generator) HTML(req Request) (string, int, error) {
	if err := validate(req); err != nil {
		return "", 0, err
	}
	pages := g.policy.Split(req.Items)
	html, err := renderHTML(req, g.branding, pages, g.now())
	if err != nil {
		return "", 0, err
	}
	return html, len(pages), nil
}

// Generate renders req to a PDF artifact.
func (g *Generator) Generate(ctx context.Context, req Request) (*Artifact, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	at := g.now()
	pages := g.policy.Split(req.Items)
	html, err := renderHTML(req, g.branding, pages, at)
	if err != nil {
		return nil, err
	}

	pdf, err := g.renderer.PrintPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("print receipt: %w", err)
	}

	return &Artifact{
		FileName:   "receipt-" + req.Customer + ".pdf",
		ObjectPath: req.Customer + "-" + strconv.FormatInt(at.UnixMilli(), 10) + ".pdf",
		PDF:        pdf,
		Pages:      len(pages),
		CreatedAt:  at,
	}, nil
}

func validate(req Request) error {
	if req.Customer == "" {
		return status.Error(codes.InvalidArgument, "customer name is required")
	}
	if len(req.Items) == 0 {
		return status.Error(codes.InvalidArgument, "cart is empty")
	}
	return nil
}
