package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type SessionHandler struct {
	logger logger.ZapLogger
}

func NewSessionHandler(log logger.ZapLogger) *SessionHandler {
	return &SessionHandler{logger: log}
}

type sessionResponse struct {
	session.State
	CartTotal int `json:"cart_total"`
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httpjson.Error(w, status.Error(codes.Internal, "missing session"))
		return
	}
	httpjson.Write(w, http.StatusOK, describe(sess))
}

type customerRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
}

// SetCustomer records who the order is for before the catalog opens.
func (h *SessionHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httpjson.Error(w, status.Error(codes.Internal, "missing session"))
		return
	}

	var req customerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if req.Category == "" || req.Name == "" || req.Mobile == "" {
		httpjson.Error(w, status.Error(codes.InvalidArgument, "Please fill out all fields"))
		return
	}

	sess.SetCustomer(req.Name, req.Mobile, req.Category)
	h.logger.Debug("customer selected", zap.String("session", sess.ID), zap.String("category", req.Category))
	httpjson.Write(w, http.StatusOK, describe(sess))
}

func describe(sess *session.Session) sessionResponse {
	resp := sessionResponse{State: sess.State()}
	sess.WithCart(func(c *cart.Cart) { resp.CartTotal = c.Total() })
	return resp
}
