package auth

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/session"
)

// DefaultCreator is recorded on receipts when nobody is signed in.
const DefaultCreator = "Admin"

// GetUserName returns the signed-in user's name from the request session.
func GetUserName(ctx context.Context) string {
	if s := session.FromContext(ctx); s != nil {
		if st := s.State(); st.Logged {
			return st.UserName
		}
	}
	return ""
}

// GetCreator is GetUserName with the DefaultCreator fallback.
func GetCreator(ctx context.Context) string {
	if name := GetUserName(ctx); name != "" {
		return name
	}
	return DefaultCreator
}
