package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/receipt/download"
	"github.com/fekuna/omnipos-storefront/internal/receipt/dto"
	"github.com/fekuna/omnipos-storefront/internal/receipt/generator"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/fekuna/omnipos-storefront/pkg/supabase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var createdAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	req generator.Request
	err error
}

func (f *fakeGenerator) Generate(ctx context.Context, req generator.Request) (*generator.Artifact, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &generator.Artifact{
		FileName:   "receipt-" + req.Customer + ".pdf",
		ObjectPath: req.Customer + "-1714557600000.pdf",
		PDF:        []byte("%PDF"),
		Pages:      1,
		CreatedAt:  createdAt,
	}, nil
}

type fakeStorage struct {
	uploaded map[string]supabase.UploadOptions
	ctxErr   error
	deadline bool
	err      error
}

func (f *fakeStorage) Upload(ctx context.Context, objectPath string, data []byte, opts supabase.UploadOptions) error {
	f.ctxErr = ctx.Err()
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	if f.uploaded == nil {
		f.uploaded = map[string]supabase.UploadOptions{}
	}
	f.uploaded[objectPath] = opts
	return nil
}

func (f *fakeStorage) PublicURL(objectPath string) string {
	return "https://cdn.example.com/reciepts/" + objectPath
}

type fakeRepo struct {
	receipts []model.Receipt
	err      error
	ctxErr   error
	filters  *dto.ReceiptFilters
}

func (f *fakeRepo) Create(ctx context.Context, r *model.Receipt) error {
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return f.err
	}
	r.ID = int64(len(f.receipts) + 1)
	f.receipts = append(f.receipts, *r)
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context, filters *dto.ReceiptFilters) ([]model.Receipt, error) {
	f.filters = filters
	return f.receipts, f.err
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) (int64, error) {
	return 0, f.err
}

type fakeEvents struct {
	published []int64
}

func (f *fakeEvents) PublishCreated(ctx context.Context, r *model.Receipt, items, pages int) error {
	f.published = append(f.published, r.ID)
	return nil
}

type fixture struct {
	gen       *fakeGenerator
	storage   *fakeStorage
	repo      *fakeRepo
	events    *fakeEvents
	downloads *download.Cache
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		gen:       &fakeGenerator{},
		storage:   &fakeStorage{},
		repo:      &fakeRepo{},
		events:    &fakeEvents{},
		downloads: download.NewCache(time.Minute),
	}
	t.Cleanup(f.downloads.Close)
	return f
}

func (f *fixture) useCase() *receiptUseCase {
	return NewReceiptUseCase(f.repo, f.gen, f.storage, f.downloads, f.events, Options{CacheControl: 3600}, logger.NewNop()).(*receiptUseCase)
}

func checkoutInput() *dto.CheckoutInput {
	return &dto.CheckoutInput{
		Customer: " Asha ",
		Category: "Plumber",
		Items:    []model.LineItem{{ID: 1, Description: "Tap", Quantity: 2}},
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture(t)
	res, err := f.useCase().Checkout(context.Background(), checkoutInput())
	require.NoError(t, err)

	assert.True(t, res.Uploaded)
	assert.True(t, res.Recorded)
	assert.Equal(t, "receipt-Asha.pdf", res.FileName)
	assert.Equal(t, "Asha", f.gen.req.Customer)

	assert.Equal(t, supabase.UploadOptions{ContentType: "application/pdf", CacheControl: 3600}, f.storage.uploaded["Asha-1714557600000.pdf"])

	require.Len(t, f.repo.receipts, 1)
	rc := f.repo.receipts[0]
	assert.Equal(t, "Asha", rc.Customer)
	assert.Equal(t, "Admin", rc.CreatedBy)
	assert.Equal(t, "https://cdn.example.com/reciepts/Asha-1714557600000.pdf", rc.URL)
	assert.Equal(t, createdAt, rc.CreatedAt)
	assert.Equal(t, []int64{1}, f.events.published)

	file, ok := f.downloads.Get(res.DownloadToken)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF"), file.Data)
	assert.Equal(t, "application/pdf", file.ContentType)
}

func TestCheckoutUploadFailureKeepsDownload(t *testing.T) {
	f := newFixture(t)
	f.storage.err = errors.New("bucket not found")

	res, err := f.useCase().Checkout(context.Background(), checkoutInput())
	require.NoError(t, err)
	assert.False(t, res.Uploaded)
	assert.False(t, res.Recorded)
	assert.Empty(t, f.repo.receipts)
	assert.Empty(t, f.events.published)

	_, ok := f.downloads.Get(res.DownloadToken)
	assert.True(t, ok)
}

func TestCheckoutInsertFailureKeepsDownload(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("insert failed")

	in := checkoutInput()
	in.CreatedBy = "staff@example.com"
	res, err := f.useCase().Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.Uploaded)
	assert.False(t, res.Recorded)
	assert.Nil(t, res.Receipt)

	_, ok := f.downloads.Get(res.DownloadToken)
	assert.True(t, ok)
}

func TestCheckoutOutlivesCancelledRequest(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.useCase().Checkout(ctx, checkoutInput())
	require.NoError(t, err)
	assert.True(t, res.Uploaded)
	assert.True(t, res.Recorded)
	assert.NoError(t, f.storage.ctxErr)
	assert.True(t, f.storage.deadline, "upload is bounded by the persist timeout")
	assert.NoError(t, f.repo.ctxErr)
}

func TestCheckoutClosedDownloadCache(t *testing.T) {
	f := newFixture(t)
	f.downloads.Close()

	res, err := f.useCase().Checkout(context.Background(), checkoutInput())
	assert.Nil(t, res)
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Empty(t, f.storage.uploaded)
	assert.Empty(t, f.repo.receipts)
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase()

	_, err := uc.Checkout(context.Background(), &dto.CheckoutInput{Customer: "  ", Items: checkoutInput().Items})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = uc.Checkout(context.Background(), &dto.CheckoutInput{Customer: "Asha"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Zero(t, f.downloads.Len())
}

func TestCheckoutGeneratorFailure(t *testing.T) {
	f := newFixture(t)
	f.gen.err = errors.New("chrome crashed")

	_, err := f.useCase().Checkout(context.Background(), checkoutInput())
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Zero(t, f.downloads.Len())
	assert.Empty(t, f.storage.uploaded)
}

func TestListReceipts(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase()

	_, err := uc.ListReceipts(context.Background(), &dto.ReceiptFilters{Customer: "asha", Sort: dto.SortOldest})
	require.NoError(t, err)
	assert.Equal(t, "asha", f.repo.filters.Customer)

	_, err = uc.ListReceipts(context.Background(), &dto.ReceiptFilters{Sort: "alphabetical"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	f.repo.err = errors.New("down")
	_, err = uc.ListReceipts(context.Background(), &dto.ReceiptFilters{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestDeleteReceipt(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase()

	assert.NoError(t, uc.DeleteReceipt(context.Background(), 5))
	assert.Equal(t, codes.InvalidArgument, status.Code(uc.DeleteReceipt(context.Background(), 0)))
}
