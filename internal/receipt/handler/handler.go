package handler

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/receipt"
	"github.com/fekuna/omnipos-storefront/internal/receipt/download"
	"github.com/fekuna/omnipos-storefront/internal/receipt/dto"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ReceiptHandler struct {
	uc        receipt.UseCase
	downloads *download.Cache
	logger    logger.ZapLogger
}

func NewReceiptHandler(uc receipt.UseCase, downloads *download.Cache, log logger.ZapLogger) *ReceiptHandler {
	return &ReceiptHandler{
		uc:        uc,
		downloads: downloads,
		logger:    log,
	}
}

type checkoutRequest struct {
	Customer string `json:"customer"`
	Mobile   string `json:"mobile"`
	Category string `json:"category"`
}

// Checkout turns the session cart into a receipt. Body fields override the
// customer recorded on the session. Once the PDF exists the printed items
// leave the cart; items added meanwhile stay.
func (h *ReceiptHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httpjson.Error(w, status.Error(codes.Internal, "missing session"))
		return
	}

	var req checkoutRequest
	if r.ContentLength != 0 {
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, err)
			return
		}
	}

	st := sess.State()
	input := &dto.CheckoutInput{
		Customer:  firstNonEmpty(req.Customer, st.CustomerName),
		Mobile:    firstNonEmpty(req.Mobile, st.CustomerMobile),
		Category:  firstNonEmpty(req.Category, st.Category),
		CreatedBy: auth.GetCreator(r.Context()),
	}
	var items []model.LineItem
	sess.WithCart(func(c *cart.Cart) { items = c.LineItems() })
	input.Items = items

	res, err := h.uc.Checkout(r.Context(), input)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	sess.WithCart(func(c *cart.Cart) { c.Consume(items) })
	h.logger.Debug("cart checked out", zap.String("session", sess.ID), zap.Int("items", len(items)))
	httpjson.Write(w, http.StatusOK, res)
}

// Download serves a rendered receipt while its token is live.
func (h *ReceiptHandler) Download(w http.ResponseWriter, r *http.Request) {
	file, ok := h.downloads.Get(mux.Vars(r)["token"])
	if !ok {
		httpjson.Error(w, status.Error(codes.NotFound, "download expired or unknown"))
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.Warn("failed to write download", zap.String("file", file.Name), zap.Error(err))
	}
}

type receiptList struct {
	Receipts []model.Receipt `json:"receipts"`
	Total    int             `json:"total"`
}

func (h *ReceiptHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	receipts, err := h.uc.ListReceipts(r.Context(), &dto.ReceiptFilters{
		Customer: strings.TrimSpace(q.Get("q")),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if receipts == nil {
		receipts = []model.Receipt{}
	}
	httpjson.Write(w, http.StatusOK, receiptList{Receipts: receipts, Total: len(receipts)})
}

func (h *ReceiptHandler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httpjson.Error(w, status.Error(codes.InvalidArgument, "invalid receipt id"))
		return
	}
	if err := h.uc.DeleteReceipt(r.Context(), id); err != nil {
		httpjson.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
