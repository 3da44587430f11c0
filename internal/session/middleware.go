package session

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sessionIDKey = "sid"

// Manager binds browsers to sessions through a signed cookie carrying only
// the session id.
type Manager struct {
	store   *Store
	cookies sessions.Store
	name    string
	logger  logger.ZapLogger
}

func NewManager(store *Store, cookies sessions.Store, cookieName string, log logger.ZapLogger) *Manager {
	return &Manager{
		store:   store,
		cookies: cookies,
		name:    cookieName,
		logger:  log,
	}
}

// NewCookieStore builds the signed cookie store used by the Manager.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs, err := m.cookies.Get(r, m.name)
		if err != nil {
			m.logger.Debug("discarding unreadable session cookie", zap.Error(err))
		}

		id, _ := cs.Values[sessionIDKey].(string)
		sess, ok := m.store.Get(id)
		if !ok {
			sess = m.store.New()
			cs.Values[sessionIDKey] = sess.ID
			if err := cs.Save(r, w); err != nil {
				m.logger.Error("failed to save session cookie", zap.Error(err))
			}
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// Renew issues a fresh session id for the request's session, carrying its
// state over, and points the cookie at it. Call it when privilege changes.
func (m *Manager) Renew(w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess := FromContext(r.Context())
	if sess == nil {
		return nil, status.Error(codes.Internal, "missing session")
	}
	cs, err := m.cookies.Get(r, m.name)
	if err != nil {
		m.logger.Debug("discarding unreadable session cookie", zap.Error(err))
	}

	ns := m.store.Rotate(sess)
	cs.Values[sessionIDKey] = ns.ID
	if err := cs.Save(r, w); err != nil {
		m.logger.Error("failed to save session cookie", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to save session")
	}
	return ns, nil
}

// RequireLogin rejects requests whose session is not logged in.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromContext(r.Context())
		if sess == nil || !sess.State().Logged {
			httpjson.Error(w, status.Error(codes.Unauthenticated, "login required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin only lets through the signed-in user whose name matches
// adminEmail. An empty adminEmail admits nobody.
func RequireAdmin(adminEmail string) func(http.Handler) http.Handler {
	adminEmail = strings.TrimSpace(adminEmail)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := FromContext(r.Context())
			if sess == nil || !sess.State().Logged {
				httpjson.Error(w, status.Error(codes.Unauthenticated, "login required"))
				return
			}
			if adminEmail == "" || !strings.EqualFold(sess.State().UserName, adminEmail) {
				httpjson.Error(w, status.Error(codes.PermissionDenied, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
