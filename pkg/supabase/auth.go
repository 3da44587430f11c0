package supabase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// User is the subset of the auth user object the storefront reads.
type User struct {
	ID           string
	Aud          string
	Email        string
	UserMetadata map[string]interface{}
	CreatedAt    time.Time
}

// Name returns user_metadata.name when present.
func (u *User) Name() string {
	if u.UserMetadata == nil {
		return ""
	}
	name, _ := u.UserMetadata["name"].(string)
	return name
}

type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         User
}

func toUser(u types.User) User {
	return User{
		ID:           u.ID.String(),
		Aud:          u.Aud,
		Email:        u.Email,
		UserMetadata: u.UserMetadata,
		CreatedAt:    u.CreatedAt,
	}
}

func parseUserID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid user id %q", id)
	}
	return uid, nil
}

// SignInWithPassword exchanges email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if err := ctxError(ctx); err != nil {
		return nil, err
	}
	resp, err := c.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, authError(err)
	}
	if resp.User.Aud != "authenticated" {
		return nil, status.Error(codes.Unauthenticated, "user is not authenticated")
	}
	return &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         toUser(resp.User),
	}, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	if err := ctxError(ctx); err != nil {
		return nil, err
	}
	resp, err := c.admin.AdminListUsers()
	if err != nil {
		return nil, authError(err)
	}
	users := make([]User, 0, len(resp.Users))
	for _, u := range resp.Users {
		users = append(users, toUser(u))
	}
	return users, nil
}

// CreateUser creates a confirmed user carrying its display name in metadata.
func (c *Client) CreateUser(ctx context.Context, name, email, password string) (*User, error) {
	if err := ctxError(ctx); err != nil {
		return nil, err
	}
	resp, err := c.admin.AdminCreateUser(types.AdminCreateUserRequest{
		Email:        email,
		Password:     &password,
		EmailConfirm: true,
		UserMetadata: map[string]interface{}{"name": name},
	})
	if err != nil {
		return nil, authError(err)
	}
	u := toUser(resp.User)
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	uid, err := parseUserID(id)
	if err != nil {
		return err
	}
	if err := ctxError(ctx); err != nil {
		return err
	}
	return authError(c.admin.AdminDeleteUser(types.AdminDeleteUserRequest{UserID: uid}))
}

func (c *Client) UpdateUserPassword(ctx context.Context, id, password string) error {
	uid, err := parseUserID(id)
	if err != nil {
		return err
	}
	if err := ctxError(ctx); err != nil {
		return err
	}
	_, err = c.admin.AdminUpdateUser(types.AdminUpdateUserRequest{UserID: uid, Password: password})
	return authError(err)
}
