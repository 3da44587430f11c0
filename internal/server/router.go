package server

import (
	"net/http"

	authH "github.com/fekuna/omnipos-storefront/internal/auth/handler"
	cartH "github.com/fekuna/omnipos-storefront/internal/cart/handler"
	catH "github.com/fekuna/omnipos-storefront/internal/category/handler"
	prodH "github.com/fekuna/omnipos-storefront/internal/product/handler"
	rcptH "github.com/fekuna/omnipos-storefront/internal/receipt/handler"
	"github.com/fekuna/omnipos-storefront/internal/session"
	sessH "github.com/fekuna/omnipos-storefront/internal/session/handler"
	teamH "github.com/fekuna/omnipos-storefront/internal/team/handler"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Handlers struct {
	Auth     *authH.AuthHandler
	Session  *sessH.SessionHandler
	Category *catH.CategoryHandler
	Product  *prodH.ProductHandler
	Cart     *cartH.CartHandler
	Receipt  *rcptH.ReceiptHandler
	Team     *teamH.TeamHandler
}

// NewRouter mounts the JSON API. Everything under /api is bound to a
// session. The storefront routes need a signed-in user and /api/admin is
// reserved for the adminEmail account.
func NewRouter(h *Handlers, sessions *session.Manager, adminEmail string, health *Health, log logger.ZapLogger) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.Use(requestLogger(log))
	r.HandleFunc("/healthz", health.ServeHTTP).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(sessions.Middleware)

	api.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/session", h.Session.Get).Methods(http.MethodGet)

	// The storefront is operated by signed-in staff.
	staff := func(f http.HandlerFunc) http.Handler { return session.RequireLogin(f) }

	api.Handle("/customer", staff(h.Session.SetCustomer)).Methods(http.MethodPost)

	api.Handle("/categories", staff(h.Category.ListCategories)).Methods(http.MethodGet)
	api.Handle("/products", staff(h.Product.ListProducts)).Methods(http.MethodGet)

	api.Handle("/cart/items", staff(h.Cart.ListItems)).Methods(http.MethodGet)
	api.Handle("/cart/items", staff(h.Cart.AddItem)).Methods(http.MethodPost)
	api.Handle("/cart/items/{id}", staff(h.Cart.AdjustItem)).Methods(http.MethodPatch)
	api.Handle("/cart/items/{id}", staff(h.Cart.RemoveItem)).Methods(http.MethodDelete)

	api.Handle("/checkout", staff(h.Receipt.Checkout)).Methods(http.MethodPost)
	api.Handle("/downloads/{token}", staff(h.Receipt.Download)).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(session.RequireAdmin(adminEmail))

	admin.HandleFunc("/categories", h.Category.CreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{name}", h.Category.DeleteCategory).Methods(http.MethodDelete)
	admin.HandleFunc("/products", h.Product.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products", h.Product.DeleteProduct).Methods(http.MethodDelete)

	admin.HandleFunc("/team", h.Team.ListMembers).Methods(http.MethodGet)
	admin.HandleFunc("/team", h.Team.CreateMember).Methods(http.MethodPost)
	admin.HandleFunc("/team/{id}", h.Team.DeleteMember).Methods(http.MethodDelete)
	admin.HandleFunc("/team/{id}/password", h.Team.UpdatePassword).Methods(http.MethodPut)

	admin.HandleFunc("/receipts", h.Receipt.ListReceipts).Methods(http.MethodGet)
	admin.HandleFunc("/receipts/{id}", h.Receipt.DeleteReceipt).Methods(http.MethodDelete)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpjson.Error(w, status.Errorf(codes.NotFound, "no route for %s %s", r.Method, r.URL.Path))
}
