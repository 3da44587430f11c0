package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.ProductFilters{
		Category:    q.Get("category"),
		SearchQuery: q.Get("q"),
	}

	var err error
	if filters.Page, err = intParam(q.Get("page"), 1); err != nil {
		httpjson.Error(w, err)
		return
	}
	if filters.PageSize, err = intParam(q.Get("page_size"), 0); err != nil {
		httpjson.Error(w, err)
		return
	}

	if sess := session.FromContext(r.Context()); sess != nil {
		filters.Page = sess.CatalogPage(filters.Category, filters.SearchQuery, filters.Page)
	}

	page, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, page)
}

type createProductRequest struct {
	Category string              `json:"category"`
	Name     string              `json:"name"`
	Price    decimal.NullDecimal `json:"price"`
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &dto.CreateProductInput{
		Category: req.Category,
		Name:     req.Name,
		Price:    req.Price,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.logger.Info("product added", zap.Int64("id", p.ID), zap.String("category", p.Category))
	httpjson.Write(w, http.StatusCreated, p)
}

type deleteResult struct {
	Deleted int64 `json:"deleted"`
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := h.uc.DeleteProduct(r.Context(), &dto.DeleteProductInput{
		Category: q.Get("category"),
		Name:     q.Get("name"),
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, deleteResult{Deleted: n})
}

func intParam(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid number %q", v)
	}
	return n, nil
}
