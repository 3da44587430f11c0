package auth

import (
	"context"

	"github.com/fekuna/omnipos-storefront/pkg/supabase"
)

// Gateway is the sign-in surface of the hosted backend.
type Gateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
}

type UseCase interface {
	// Login verifies credentials and returns the display name to keep in the session.
	Login(ctx context.Context, email, password string) (string, error)
}
