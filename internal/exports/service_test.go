package exports

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"quotation_backend/internal/adapters/storage"
	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/apperr"
)

type fakeQuotations struct {
	quotation transport.QuotationResponse
}

func (f *fakeQuotations) GetQuotation(_ context.Context, id uuid.UUID) (transport.QuotationResponse, error) {
	if f.quotation.ID != id {
		return transport.QuotationResponse{}, apperr.NotFound("quotation not found")
	}
	return f.quotation, nil
}

type fakeStorage struct {
	bucket      string
	folder      string
	fileName    string
	contentType string
	size        int64
	uploads     int
}

func (f *fakeStorage) UploadFile(_ context.Context, bucket, folder, fileName, contentType string, _ io.Reader, size int64) (string, error) {
	f.uploads++
	f.bucket = bucket
	f.folder = folder
	f.fileName = fileName
	f.contentType = contentType
	f.size = size
	return folder + "/" + fileName, nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{
		URL:       "https://minio.local/" + bucket + "/" + fileKey,
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *fakeStorage) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return nil, nil
}
func (f *fakeStorage) DeleteObject(context.Context, string, string) error { return nil }
func (f *fakeStorage) EnsureBucketExists(context.Context, string) error   { return nil }
func (f *fakeStorage) ValidateContentType(string) error                   { return nil }
func (f *fakeStorage) ValidateFileSize(int64) error                       { return nil }

func TestExport_RendersUploadsAndPresigns(t *testing.T) {
	quotation := fixtureQuotation()
	store := &fakeStorage{}
	svc := NewService(&fakeQuotations{quotation: quotation}, store, fakeConfig{}, nil, nil)

	result, err := svc.Export(context.Background(), quotation.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if store.uploads != 1 {
		t.Fatalf("expected 1 upload, got %d", store.uploads)
	}
	if store.bucket != "quotation-exports" {
		t.Fatalf("expected exports bucket, got %q", store.bucket)
	}
	if store.contentType != xlsxContentType {
		t.Fatalf("expected xlsx content type, got %q", store.contentType)
	}
	if store.size <= 0 {
		t.Fatalf("expected positive upload size, got %d", store.size)
	}
	if result.FileKey == "" || result.DownloadURL == "" {
		t.Fatalf("expected file key and URL in result, got %+v", result)
	}
	if result.QuotationID != quotation.ID {
		t.Fatalf("expected quotation ID %s, got %s", quotation.ID, result.QuotationID)
	}
}

func TestExport_UnknownQuotationIsNotFound(t *testing.T) {
	svc := NewService(&fakeQuotations{quotation: fixtureQuotation()}, &fakeStorage{}, fakeConfig{}, nil, nil)

	_, err := svc.Export(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestExport_DisabledStorageIsConfigurationError(t *testing.T) {
	svc := NewService(&fakeQuotations{quotation: fixtureQuotation()}, nil, fakeConfig{}, nil, nil)

	_, err := svc.Export(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Fatalf("expected KindConfiguration, got %v", err)
	}
}
