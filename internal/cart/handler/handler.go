package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProductFinder resolves product ids to catalog rows.
type ProductFinder interface {
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
}

type CartHandler struct {
	products ProductFinder
	logger   logger.ZapLogger
}

func NewCartHandler(products ProductFinder, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		products: products,
		logger:   log,
	}
}

type cartResponse struct {
	Items []cart.Item `json:"items"`
	Total int         `json:"total"`
}

func (h *CartHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httpjson.Write(w, http.StatusOK, snapshot(sess))
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		httpjson.Error(w, status.Error(codes.InvalidArgument, "quantity must be at least 1"))
		return
	}

	p, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	sess.WithCart(func(c *cart.Cart) { c.Add(*p, qty) })
	httpjson.Write(w, http.StatusOK, snapshot(sess))
}

type adjustItemRequest struct {
	Delta int `json:"delta"`
}

func (h *CartHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := productID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req adjustItemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	sess.WithCart(func(c *cart.Cart) { c.AdjustQuantity(id, req.Delta) })
	httpjson.Write(w, http.StatusOK, snapshot(sess))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := productID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	sess.WithCart(func(c *cart.Cart) { c.Remove(id) })
	httpjson.Write(w, http.StatusOK, snapshot(sess))
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httpjson.Error(w, status.Error(codes.Internal, "missing session"))
		return nil, false
	}
	return sess, true
}

func snapshot(sess *session.Session) cartResponse {
	var resp cartResponse
	sess.WithCart(func(c *cart.Cart) {
		resp.Items = c.Items()
		resp.Total = c.Total()
	})
	return resp
}

func productID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid product id %q", raw)
	}
	return id, nil
}
