package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(sess *session.Session, h http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/session", strings.NewReader(body))
	req = req.WithContext(session.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSetCustomerRequiresAllFields(t *testing.T) {
	sess := session.NewStore(time.Hour).New()
	h := NewSessionHandler(logger.NewNop())

	rec := call(sess, h.SetCustomer, http.MethodPost, `{"category":"Plumber","name":"Asha","mobile":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill out all fields")
	assert.Empty(t, sess.State().CustomerName)
}

func TestSetCustomerAndGet(t *testing.T) {
	sess := session.NewStore(time.Hour).New()
	sess.WithCart(func(c *cart.Cart) { c.Add(model.Product{ID: 1}, 3) })
	h := NewSessionHandler(logger.NewNop())

	rec := call(sess, h.SetCustomer, http.MethodPost, `{"category":"Plumber","name":" Asha ","mobile":"98000"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(sess, h.Get, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		session.State
		CartTotal int `json:"cart_total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Asha", body.CustomerName)
	assert.Equal(t, "98000", body.CustomerMobile)
	assert.Equal(t, "Plumber", body.Category)
	assert.Equal(t, 3, body.CartTotal)
}
