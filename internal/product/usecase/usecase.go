package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	productsCachePrefix = "catalog:products:"
	catalogCachePattern = "catalog:*"
)

type productUseCase struct {
	repo     product.Repository
	cache    *cache.RedisClient
	ttl      time.Duration
	pageSize int
	logger   logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, ttl time.Duration, pageSize int, log logger.ZapLogger) product.UseCase {
	if pageSize < 1 {
		pageSize = 12
	}
	return &productUseCase{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		pageSize: pageSize,
		logger:   log,
	}
}

// ListProducts fetches every row of the category, then filters by name and
// slices out the requested page.
func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) (*dto.ProductPage, error) {
	rows, err := uc.fetch(ctx, filters.Category)
	if err != nil {
		return nil, err
	}

	size := filters.PageSize
	if size < 1 {
		size = uc.pageSize
	}
	return paginate(filterByName(rows, filters.SearchQuery), filters.Page, size), nil
}

func (uc *productUseCase) fetch(ctx context.Context, category string) ([]model.Product, error) {
	cacheKey, err := cache.HashKey(productsCachePrefix, category)
	if err == nil {
		var cached []model.Product
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	rows, err := uc.repo.FindAll(ctx, category)
	if err != nil {
		uc.logger.Error("failed to fetch products", zap.String("category", category), zap.Error(err))
		return nil, status.Error(codes.Unavailable, "Failed to fetch products")
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, rows, uc.ttl); err != nil {
			uc.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return rows, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logger.Error("failed to fetch product", zap.Int64("id", id), zap.Error(err))
		return nil, status.Error(codes.Unavailable, "Failed to fetch product")
	}
	if p == nil {
		return nil, status.Errorf(codes.NotFound, "product %d not found", id)
	}
	return p, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	category := strings.TrimSpace(input.Category)
	name := strings.TrimSpace(input.Name)
	if category == "" || name == "" {
		return nil, status.Error(codes.InvalidArgument, "Both category and product name are required")
	}
	if input.Price.Valid && input.Price.Decimal.IsNegative() {
		return nil, status.Error(codes.InvalidArgument, "price cannot be negative")
	}

	p := &model.Product{Name: name, Category: category, Price: input.Price}
	if err := uc.repo.Create(ctx, p); err != nil {
		uc.logger.Error("failed to add product", zap.String("category", category), zap.Error(err))
		return nil, status.Error(codes.Unavailable, "Failed to add product")
	}

	uc.invalidateCatalogCache(ctx)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, input *dto.DeleteProductInput) (int64, error) {
	if input.Category == "" || input.Name == "" {
		return 0, status.Error(codes.InvalidArgument, "Both category and product name are required")
	}

	n, err := uc.repo.DeleteByName(ctx, input.Category, input.Name)
	if err != nil {
		uc.logger.Error("failed to delete product", zap.String("category", input.Category), zap.Error(err))
		return 0, status.Error(codes.Unavailable, "Failed to delete product")
	}

	uc.invalidateCatalogCache(ctx)
	return n, nil
}

func (uc *productUseCase) invalidateCatalogCache(ctx context.Context) {
	if err := uc.cache.DeletePattern(ctx, catalogCachePattern); err != nil {
		uc.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
