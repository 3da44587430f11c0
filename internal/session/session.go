package session

import (
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/cart"
)

// State is the client-visible part of a session.
type State struct {
	Logged         bool   `json:"logged"`
	UserName       string `json:"user_name"`
	CustomerName   string `json:"customer_name"`
	CustomerMobile string `json:"customer_mobile"`
	Category       string `json:"category"`
}

type catalogView struct {
	category string
	search   string
}

// Session is one browser's state. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	cart     *cart.Cart
	catalog  catalogView
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, cart: cart.New(), lastSeen: now}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Login(userName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Logged = true
	s.state.UserName = userName
}

// Logout clears the signed-in user. Customer selection and cart survive.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Logged = false
	s.state.UserName = ""
}

func (s *Session) SetCustomer(name, mobile, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CustomerName = name
	s.state.CustomerMobile = mobile
	s.state.Category = category
}

// CatalogPage returns the page to show for a catalog request. A change of
// category or search term sends the view back to page 1.
func (s *Session) CatalogPage(category, search string, page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := catalogView{category: category, search: search}
	if v != s.catalog {
		s.catalog = v
		return 1
	}
	if page < 1 {
		return 1
	}
	return page
}

// WithCart runs fn while holding the session lock.
func (s *Session) WithCart(fn func(c *cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
