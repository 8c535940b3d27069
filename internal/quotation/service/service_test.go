package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"quotation_backend/internal/catalog/repository"
	quotrepo "quotation_backend/internal/quotation/repository"
	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/apperr"
)

// fakeSnapshotRepo stores snapshots in memory and counts writes.
type fakeSnapshotRepo struct {
	snapshots []quotrepo.Snapshot
	creates   int
}

func (f *fakeSnapshotRepo) Create(_ context.Context, snapshot quotrepo.Snapshot) (quotrepo.Snapshot, error) {
	f.creates++
	snapshot.ID = uuid.New()
	snapshot.CreatedAt = "2026-01-02T03:04:05Z"
	f.snapshots = append(f.snapshots, snapshot)
	return snapshot, nil
}

func (f *fakeSnapshotRepo) GetByID(_ context.Context, id uuid.UUID) (quotrepo.Snapshot, error) {
	for _, snapshot := range f.snapshots {
		if snapshot.ID == id {
			return snapshot, nil
		}
	}
	return quotrepo.Snapshot{}, apperr.NotFound("quotation not found")
}

func (f *fakeSnapshotRepo) List(context.Context, int, int) ([]quotrepo.Snapshot, int, error) {
	return f.snapshots, len(f.snapshots), nil
}

func standardCatalogFixture() *fakeCatalog {
	catalog := newFakeCatalog()
	server := testServer(1_000_000, 8)
	catalog.servers = []repository.CostServer{server}
	catalog.devices = []repository.DeviceWithDetail{testDevice("IP Camera", 1_000_000)}
	catalog.licenses = []repository.LicenseWithDetail{linkLicense(withUserRange(testLicense(2_000_000, 10), 1, 500), server)}
	return catalog
}

func TestComputeQuotation_PersistsSnapshotAndReturnsTotals(t *testing.T) {
	catalog := standardCatalogFixture()
	repo := &fakeSnapshotRepo{}
	svc := NewService(catalog, repo, DefaultPolicy(), nil, nil)

	req := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		CategoryID:     catalog.category.ID,
		IconKey:        "camera",
		UserCount:      intPtr(50),
		PointCount:     intPtr(10),
	}

	result, err := svc.ComputeQuotation(context.Background(), req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if repo.creates != 1 {
		t.Fatalf("expected 1 snapshot write, got %d", repo.creates)
	}
	if !almostEqual(result.Summary.DeviceTotal, 10_000_000) {
		t.Fatalf("expected deviceTotal 10000000, got %v", result.Summary.DeviceTotal)
	}
	if !almostEqual(result.Summary.DeploymentCost, 50_000_000) {
		t.Fatalf("expected deploymentCost 50000000, got %v", result.Summary.DeploymentCost)
	}
	wantGrand := result.Summary.DeviceTotal + result.Summary.LicenseTotal + result.Summary.DeploymentCost
	if result.Summary.GrandTotal != wantGrand {
		t.Fatalf("expected grandTotal %v, got %v", wantGrand, result.Summary.GrandTotal)
	}
	if result.CategoryName != catalog.category.Name {
		t.Fatalf("expected category name %q, got %q", catalog.category.Name, result.CategoryName)
	}

	// The snapshot must be readable back through the history endpoint.
	stored, err := svc.GetQuotation(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if stored.Summary.GrandTotal != result.Summary.GrandTotal {
		t.Fatalf("stored grandTotal %v differs from computed %v", stored.Summary.GrandTotal, result.Summary.GrandTotal)
	}
}

func TestComputeQuotation_IdenticalInputYieldsIdenticalTotals(t *testing.T) {
	catalog := standardCatalogFixture()
	repo := &fakeSnapshotRepo{}
	svc := NewService(catalog, repo, DefaultPolicy(), nil, nil)

	req := transport.ComputeQuotationRequest{
		DeploymentType: "Cloud",
		CategoryID:     catalog.category.ID,
		IconKey:        "camera",
		UserCount:      intPtr(400),
		PointCount:     intPtr(5),
	}

	first, err := svc.ComputeQuotation(context.Background(), req)
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	second, err := svc.ComputeQuotation(context.Background(), req)
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}

	if first.Summary != second.Summary {
		t.Fatalf("summaries diverged for identical input: %+v vs %+v", first.Summary, second.Summary)
	}
}

func TestComputeQuotation_ValidationFailureWritesNothing(t *testing.T) {
	catalog := standardCatalogFixture()
	repo := &fakeSnapshotRepo{}
	svc := NewService(catalog, repo, DefaultPolicy(), nil, nil)

	// Standard service without a pointCount.
	req := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		CategoryID:     catalog.category.ID,
		IconKey:        "camera",
		UserCount:      intPtr(50),
	}

	_, err := svc.ComputeQuotation(context.Background(), req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected KindValidation, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatalf("expected no snapshot writes after validation failure, got %d", repo.creates)
	}
}

func TestComputeQuotation_SummaryDecomposition(t *testing.T) {
	catalog := standardCatalogFixture()
	repo := &fakeSnapshotRepo{}
	svc := NewService(catalog, repo, DefaultPolicy(), nil, nil)

	req := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		CategoryID:     catalog.category.ID,
		IconKey:        "camera",
		UserCount:      intPtr(50),
		PointCount:     intPtr(10),
	}

	result, err := svc.ComputeQuotation(context.Background(), req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	s := result.Summary
	wantPreTax := s.DeviceTotal/1.08 + s.LicenseTotal - (s.CostServerTotal/1.08)*0.08 + s.DeploymentCost
	if !almostEqual(s.PreTaxSubtotal, wantPreTax) {
		t.Fatalf("expected preTaxSubtotal %v, got %v", wantPreTax, s.PreTaxSubtotal)
	}
	wantVAT := (s.DeviceTotal/1.08 + s.CostServerTotal/1.08) * 0.08
	if !almostEqual(s.VATAmount, wantVAT) {
		t.Fatalf("expected vatAmount %v, got %v", wantVAT, s.VATAmount)
	}
}

func TestListQuotations_PagesHistory(t *testing.T) {
	catalog := standardCatalogFixture()
	repo := &fakeSnapshotRepo{}
	svc := NewService(catalog, repo, DefaultPolicy(), nil, nil)

	req := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		CategoryID:     catalog.category.ID,
		IconKey:        "camera",
		UserCount:      intPtr(50),
		PointCount:     intPtr(10),
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.ComputeQuotation(context.Background(), req); err != nil {
			t.Fatalf("compute %d: %v", i, err)
		}
	}

	list, err := svc.ListQuotations(context.Background(), transport.ListQuotationsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 3 || len(list.Quotations) != 3 {
		t.Fatalf("expected 3 snapshots, got total %d with %d items", list.Total, len(list.Quotations))
	}
	if list.Quotations[0].CategoryName != catalog.category.Name {
		t.Fatalf("expected category name %q in listing, got %q", catalog.category.Name, list.Quotations[0].CategoryName)
	}
}
