package team

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/team/dto"
	"github.com/fekuna/omnipos-storefront/pkg/supabase"
)

// Gateway is the auth admin API. *supabase.Client satisfies it.
type Gateway interface {
	ListUsers(ctx context.Context) ([]supabase.User, error)
	CreateUser(ctx context.Context, name, email, password string) (*supabase.User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUserPassword(ctx context.Context, id, password string) error
}

type UseCase interface {
	ListMembers(ctx context.Context) ([]model.TeamMember, error)
	CreateMember(ctx context.Context, input *dto.CreateMemberInput) (*model.TeamMember, error)
	DeleteMember(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, input *dto.UpdatePasswordInput) error
}
