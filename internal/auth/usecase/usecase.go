package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type authUseCase struct {
	gateway auth.Gateway
	logger  logger.ZapLogger
}

func NewAuthUseCase(gateway auth.Gateway, log logger.ZapLogger) auth.UseCase {
	return &authUseCase{
		gateway: gateway,
		logger:  log,
	}
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", status.Error(codes.InvalidArgument, "email and password are required")
	}

	sess, err := uc.gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		uc.logger.Warn("sign in failed", zap.String("email", email), zap.Error(err))
		return "", err
	}

	name := sess.User.Email
	if name == "" {
		name = email
	}
	uc.logger.Info("user signed in", zap.String("email", name))
	return name, nil
}
