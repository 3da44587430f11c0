package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/team"
	"github.com/fekuna/omnipos-storefront/internal/team/dto"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/fekuna/omnipos-storefront/pkg/supabase"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type teamUseCase struct {
	gateway     team.Gateway
	hiddenEmail string
	logger      logger.ZapLogger
}

// NewTeamUseCase manages staff accounts. The account with hiddenEmail is
// never listed.
func NewTeamUseCase(gateway team.Gateway, hiddenEmail string, log logger.ZapLogger) team.UseCase {
	return &teamUseCase{
		gateway:     gateway,
		hiddenEmail: strings.ToLower(strings.TrimSpace(hiddenEmail)),
		logger:      log,
	}
}

func (uc *teamUseCase) ListMembers(ctx context.Context) ([]model.TeamMember, error) {
	users, err := uc.gateway.ListUsers(ctx)
	if err != nil {
		uc.logger.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	members := make([]model.TeamMember, 0, len(users))
	for i := range users {
		if uc.hiddenEmail != "" && strings.EqualFold(users[i].Email, uc.hiddenEmail) {
			continue
		}
		members = append(members, toMember(&users[i]))
	}
	return members, nil
}

func (uc *teamUseCase) CreateMember(ctx context.Context, input *dto.CreateMemberInput) (*model.TeamMember, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "Please fill in all fields")
	}
	if !emailPattern.MatchString(email) {
		return nil, status.Error(codes.InvalidArgument, "Please enter a valid email address")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	u, err := uc.gateway.CreateUser(ctx, name, email, input.Password)
	if err != nil {
		uc.logger.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	m := toMember(u)
	if m.Name == "" {
		m.Name = name
	}
	uc.logger.Info("team member added", zap.String("id", m.ID))
	return &m, nil
}

func (uc *teamUseCase) DeleteMember(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return status.Error(codes.InvalidArgument, "user id is required")
	}
	if err := uc.gateway.DeleteUser(ctx, id); err != nil {
		uc.logger.Error("failed to delete user", zap.String("id", id), zap.Error(err))
		return err
	}
	uc.logger.Info("team member removed", zap.String("id", id))
	return nil
}

func (uc *teamUseCase) UpdatePassword(ctx context.Context, input *dto.UpdatePasswordInput) error {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return status.Error(codes.InvalidArgument, "user id is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return err
	}
	if err := uc.gateway.UpdateUserPassword(ctx, id, input.Password); err != nil {
		uc.logger.Error("failed to update password", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func validatePassword(p string) error {
	if len(p) < minPasswordLength {
		return status.Error(codes.InvalidArgument, "Password must be at least 6 characters")
	}
	return nil
}

func toMember(u *supabase.User) model.TeamMember {
	return model.TeamMember{
		ID:        u.ID,
		Name:      u.Name(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
