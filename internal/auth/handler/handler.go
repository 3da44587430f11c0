package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SessionRenewer reissues the request's session under a new id.
// *session.Manager satisfies it.
type SessionRenewer interface {
	Renew(w http.ResponseWriter, r *http.Request) (*session.Session, error)
}

type AuthHandler struct {
	uc       auth.UseCase
	sessions SessionRenewer
	logger   logger.ZapLogger
}

func NewAuthHandler(uc auth.UseCase, sessions SessionRenewer, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		uc:       uc,
		sessions: sessions,
		logger:   log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httpjson.Error(w, status.Error(codes.Internal, "missing session"))
		return
	}

	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	name, err := h.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	sess, err = h.sessions.Renew(w, r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	sess.Login(name)
	httpjson.Write(w, http.StatusOK, sess.State())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httpjson.Error(w, status.Error(codes.Internal, "missing session"))
		return
	}
	sess.Logout()
	httpjson.Write(w, http.StatusOK, sess.State())
}
