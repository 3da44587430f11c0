package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	categoriesCacheKey  = "catalog:categories"
	catalogCachePattern = "catalog:*"
)

type categoryUseCase struct {
	repo   category.Repository
	cache  *cache.RedisClient
	ttl    time.Duration
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, cache *cache.RedisClient, ttl time.Duration, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	hit, err := uc.cache.GetJSON(ctx, categoriesCacheKey, &cached)
	if err != nil {
		uc.logger.Warn("category cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Error("failed to list categories", zap.Error(err))
		return nil, status.Error(codes.Unavailable, "failed to fetch categories")
	}

	if err := uc.cache.SetJSON(ctx, categoriesCacheKey, categories, uc.ttl); err != nil {
		uc.logger.Warn("category cache write failed", zap.Error(err))
	}
	return categories, nil
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "Category name cannot be empty")
	}

	exists, err := uc.repo.Exists(ctx, name)
	if err != nil {
		uc.logger.Error("failed to check category", zap.String("category", name), zap.Error(err))
		return nil, status.Error(codes.Unavailable, "Failed to add new category")
	}
	if exists {
		return nil, status.Errorf(codes.AlreadyExists, "category %q already exists", name)
	}

	p, err := uc.repo.CreatePlaceholder(ctx, name)
	if err != nil {
		uc.logger.Error("failed to add category", zap.String("category", name), zap.Error(err))
		return nil, status.Error(codes.Unavailable, "Failed to add new category")
	}

	uc.invalidateCatalogCache(ctx)
	return p, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, status.Error(codes.InvalidArgument, "category is required")
	}

	n, err := uc.repo.DeleteByName(ctx, name)
	if err != nil {
		uc.logger.Error("failed to delete category", zap.String("category", name), zap.Error(err))
		return 0, status.Error(codes.Unavailable, "Failed to delete category")
	}

	uc.logger.Info("category deleted", zap.String("category", name), zap.Int64("rows", n))
	uc.invalidateCatalogCache(ctx)
	return n, nil
}

func (uc *categoryUseCase) invalidateCatalogCache(ctx context.Context) {
	if err := uc.cache.DeletePattern(ctx, catalogCachePattern); err != nil {
		uc.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
