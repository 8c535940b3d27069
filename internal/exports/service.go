package exports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quotation_backend/internal/adapters/storage"
	"quotation_backend/internal/events"
	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/apperr"
	"quotation_backend/platform/config"
	"quotation_backend/platform/logger"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFolder    = "quotations"
)

// QuotationReader is the slice of the quotation service the exporter needs.
type QuotationReader interface {
	GetQuotation(ctx context.Context, id uuid.UUID) (transport.QuotationResponse, error)
}

// Config aggregates the settings the exports module reads.
type Config interface {
	config.QuotationHeaderConfig
	GetMinioBucketQuotationExports() string
}

// ExportResult describes a rendered workbook placed in object storage.
type ExportResult struct {
	QuotationID uuid.UUID `json:"quotationId"`
	FileKey     string    `json:"fileKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
	SizeBytes   int64     `json:"sizeBytes"`
}

// Service renders quotation snapshots to xlsx and stores them.
type Service struct {
	quotations QuotationReader
	storage    storage.StorageService
	cfg        Config
	log        *logger.Logger
	eventBus   events.Bus
	now        func() time.Time
}

// NewService creates the export service. storageService may be nil when
// object storage is disabled; Export then fails with a configuration error.
func NewService(quotations QuotationReader, storageService storage.StorageService, cfg Config, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		quotations: quotations,
		storage:    storageService,
		cfg:        cfg,
		log:        log,
		eventBus:   eventBus,
		now:        time.Now,
	}
}

// Export renders the quotation identified by id into an xlsx workbook,
// uploads it and returns a presigned download URL.
func (s *Service) Export(ctx context.Context, id uuid.UUID) (ExportResult, error) {
	if s.storage == nil {
		return ExportResult{}, apperr.Configuration("object storage is not configured; exports are unavailable")
	}

	quotation, err := s.quotations.GetQuotation(ctx, id)
	if err != nil {
		return ExportResult{}, err
	}

	now := s.now()
	form := BuildForm(quotation, s.cfg, now)

	reader, size, err := renderToReader(form)
	if err != nil {
		return ExportResult{}, apperr.Wrap(apperr.KindInternal, "failed to render quotation workbook", err)
	}

	bucket := s.cfg.GetMinioBucketQuotationExports()
	fileName := fmt.Sprintf("bao-gia-%s-%s.xlsx", now.Format("20060102"), shortID(id))
	fileKey, err := s.storage.UploadFile(ctx, bucket, exportFolder, fileName, xlsxContentType, reader, size)
	if err != nil {
		return ExportResult{}, apperr.Wrap(apperr.KindInternal, "failed to store quotation workbook", err)
	}

	presigned, err := s.storage.GenerateDownloadURL(ctx, bucket, fileKey)
	if err != nil {
		return ExportResult{}, apperr.Wrap(apperr.KindInternal, "failed to presign download URL", err)
	}

	if s.log != nil {
		s.log.QuotationExported(id.String(), fileKey, size)
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.QuotationExported{
			BaseEvent:   events.NewBaseEvent(),
			QuotationID: id,
			FileKey:     fileKey,
			SizeBytes:   size,
		})
	}

	return ExportResult{
		QuotationID: id,
		FileKey:     fileKey,
		DownloadURL: presigned.URL,
		ExpiresAt:   presigned.ExpiresAt,
		SizeBytes:   size,
	}, nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
