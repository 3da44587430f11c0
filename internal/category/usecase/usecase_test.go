package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeRepo struct {
	labels      map[string]int
	findCalls   int
	err         error
	deletedWith []string
}

func newFakeRepo(labels map[string]int) *fakeRepo {
	return &fakeRepo{labels: labels}
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	f.findCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Category{}
	for _, name := range []string{"Electrician", "Plumber", "Carpenter"} {
		if n, ok := f.labels[name]; ok {
			out = append(out, model.Category{Name: name, Products: n})
		}
	}
	return out, nil
}

func (f *fakeRepo) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := f.labels[name]
	return ok, f.err
}

func (f *fakeRepo) CreatePlaceholder(ctx context.Context, name string) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.labels[name]++
	return &model.Product{ID: 99, Name: model.PlaceholderProductName, Category: name}, nil
}

func (f *fakeRepo) DeleteByName(ctx context.Context, name string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.deletedWith = append(f.deletedWith, name)
	n := f.labels[name]
	delete(f.labels, name)
	return int64(n), nil
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, &cache.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func TestListCategoriesIsCached(t *testing.T) {
	mr, rc := newRedis(t)
	repo := newFakeRepo(map[string]int{"Plumber": 2, "Electrician": 1})
	uc := NewCategoryUseCase(repo, rc, time.Minute, logger.NewNop())
	ctx := context.Background()

	first, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	second, err := uc.ListCategories(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.findCalls)
	assert.True(t, mr.Exists(categoriesCacheKey))
}

func TestListCategoriesWithoutCache(t *testing.T) {
	repo := newFakeRepo(map[string]int{"Plumber": 2})
	uc := NewCategoryUseCase(repo, nil, time.Minute, logger.NewNop())

	_, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	_, err = uc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.findCalls)
}

func TestListCategoriesGatewayError(t *testing.T) {
	repo := newFakeRepo(nil)
	repo.err = errors.New("connection refused")
	uc := NewCategoryUseCase(repo, nil, time.Minute, logger.NewNop())

	_, err := uc.ListCategories(context.Background())
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestCreateCategory(t *testing.T) {
	mr, rc := newRedis(t)
	repo := newFakeRepo(map[string]int{"Plumber": 2})
	uc := NewCategoryUseCase(repo, rc, time.Minute, logger.NewNop())
	ctx := context.Background()

	_, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(categoriesCacheKey))

	p, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "  Carpenter "})
	require.NoError(t, err)
	assert.Equal(t, "Carpenter", p.Category)
	assert.Equal(t, model.PlaceholderProductName, p.Name)
	assert.False(t, mr.Exists(categoriesCacheKey), "writes invalidate the catalog cache")

	got, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, model.Category{Name: "Carpenter", Products: 1})
}

func TestCreateCategoryValidation(t *testing.T) {
	repo := newFakeRepo(map[string]int{"Plumber": 2})
	uc := NewCategoryUseCase(repo, nil, time.Minute, logger.NewNop())

	_, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "   "})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "Category name cannot be empty", st.Message())

	_, err = uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "Plumber"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestDeleteCategory(t *testing.T) {
	repo := newFakeRepo(map[string]int{"Plumber": 2, "Electrician": 1})
	uc := NewCategoryUseCase(repo, nil, time.Minute, logger.NewNop())
	ctx := context.Background()

	n, err := uc.DeleteCategory(ctx, "Plumber")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = uc.DeleteCategory(ctx, "Plumber")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = uc.DeleteCategory(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, []string{"Plumber", "Plumber"}, repo.deletedWith)
}
