package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/receipt"
	"github.com/fekuna/omnipos-storefront/internal/receipt/download"
	"github.com/fekuna/omnipos-storefront/internal/receipt/dto"
	"github.com/fekuna/omnipos-storefront/internal/receipt/generator"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/fekuna/omnipos-storefront/pkg/supabase"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	pdfContentType        = "application/pdf"
	defaultPersistTimeout = 30 * time.Second
)

type Generator interface {
	Generate(ctx context.Context, req generator.Request) (*generator.Artifact, error)
}

// Storage is the blob bucket receipts are uploaded to.
type Storage interface {
	Upload(ctx context.Context, objectPath string, data []byte, opts supabase.UploadOptions) error
	PublicURL(objectPath string) string
}

type EventPublisher interface {
	PublishCreated(ctx context.Context, r *model.Receipt, items, pages int) error
}

type Options struct {
	CacheControl int
	// PersistTimeout bounds the upload, insert and publish steps. They run
	// detached from the request, so a caller that goes away does not abort them.
	PersistTimeout time.Duration
}

type receiptUseCase struct {
	repo      receipt.Repository
	gen       Generator
	storage   Storage
	downloads *download.Cache
	events    EventPublisher
	opts      Options
	logger    logger.ZapLogger
}

func NewReceiptUseCase(
	repo receipt.Repository,
	gen Generator,
	storage Storage,
	downloads *download.Cache,
	events EventPublisher,
	opts Options,
	log logger.ZapLogger,
) receipt.UseCase {
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = defaultPersistTimeout
	}
	return &receiptUseCase{
		repo:      repo,
		gen:       gen,
		storage:   storage,
		downloads: downloads,
		events:    events,
		opts:      opts,
		logger:    log,
	}
}

func (uc *receiptUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*dto.CheckoutResult, error) {
	customer := strings.TrimSpace(input.Customer)
	if customer == "" {
		return nil, status.Error(codes.InvalidArgument, "customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, status.Error(codes.InvalidArgument, "cart is empty")
	}
	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = auth.DefaultCreator
	}
	log := uc.logger.With(zap.String("customer", customer))

	art, err := uc.gen.Generate(ctx, generator.Request{
		Customer: customer,
		Mobile:   input.Mobile,
		Category: input.Category,
		Items:    input.Items,
	})
	if err != nil {
		log.Error("failed to generate receipt", zap.Error(err))
		if _, ok := status.FromError(err); ok {
			return nil, err
		}
		return nil, status.Error(codes.Internal, "failed to generate receipt")
	}

	token, expires, err := uc.downloads.Put(art.FileName, pdfContentType, art.PDF)
	if err != nil {
		log.Error("failed to stage receipt download", zap.Error(err))
		return nil, status.Error(codes.Unavailable, "receipt download is unavailable")
	}
	res := &dto.CheckoutResult{
		DownloadToken: token,
		FileName:      art.FileName,
		ExpiresAt:     expires,
		Pages:         art.Pages,
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.PersistTimeout)
	defer cancel()

	// Later failures are logged only; the rendered file stays downloadable.
	if err := uc.storage.Upload(persistCtx, art.ObjectPath, art.PDF, supabase.UploadOptions{
		ContentType:  pdfContentType,
		CacheControl: uc.opts.CacheControl,
		Upsert:       false,
	}); err != nil {
		log.Error("failed to upload receipt", zap.String("path", art.ObjectPath), zap.Error(err))
		return res, nil
	}
	res.Uploaded = true

	rc := &model.Receipt{
		CreatedAt: art.CreatedAt,
		Customer:  customer,
		CreatedBy: createdBy,
		URL:       uc.storage.PublicURL(art.ObjectPath),
	}
	if err := uc.repo.Create(persistCtx, rc); err != nil {
		log.Error("failed to record receipt", zap.String("url", rc.URL), zap.Error(err))
		return res, nil
	}
	res.Recorded = true
	res.Receipt = rc

	if uc.events != nil {
		if err := uc.events.PublishCreated(persistCtx, rc, len(input.Items), art.Pages); err != nil {
			log.Warn("failed to publish receipt event", zap.Int64("receipt_id", rc.ID), zap.Error(err))
		}
	}

	log.Info("receipt generated", zap.Int64("receipt_id", rc.ID), zap.Int("pages", art.Pages))
	return res, nil
}

func (uc *receiptUseCase) ListReceipts(ctx context.Context, filters *dto.ReceiptFilters) ([]model.Receipt, error) {
	switch filters.Sort {
	case "", dto.SortNewest, dto.SortOldest:
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown sort %q", filters.Sort)
	}

	receipts, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list receipts", zap.Error(err))
		return nil, status.Error(codes.Unavailable, "Failed to fetch receipts")
	}
	return receipts, nil
}

func (uc *receiptUseCase) DeleteReceipt(ctx context.Context, id int64) error {
	if id < 1 {
		return status.Errorf(codes.InvalidArgument, "invalid receipt id %d", id)
	}

	n, err := uc.repo.Delete(ctx, id)
	if err != nil {
		uc.logger.Error("failed to delete receipt", zap.Int64("id", id), zap.Error(err))
		return status.Error(codes.Unavailable, "Failed to delete receipt")
	}
	if n == 0 {
		uc.logger.Debug("receipt already gone", zap.Int64("id", id))
	}
	return nil
}
