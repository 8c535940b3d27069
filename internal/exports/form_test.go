package exports

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"quotation_backend/internal/quotation/transport"
)

type fakeConfig struct{}

func (fakeConfig) GetCompanyName() string    { return "TỔNG CÔNG TY CÔNG NGHỆ & GIẢI PHÁP CMC" }
func (fakeConfig) GetCompanyAddress() string { return "Tòa CMC Tower, Hà Nội" }
func (fakeConfig) GetContactName() string    { return "Đào Huy Đức" }
func (fakeConfig) GetContactPhone() string   { return "0347104609" }
func (fakeConfig) GetContactEmail() string   { return "dhduc4@cmc.com.vn" }

func (fakeConfig) GetMinioBucketQuotationExports() string { return "quotation-exports" }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func intPtr(v int) *int { return &v }

func fixtureQuotation() transport.QuotationResponse {
	return transport.QuotationResponse{
		ID:             uuid.New(),
		DeploymentType: "OnPremise",
		CategoryName:   "Giám sát thông thường",
		IconKey:        "camera",
		UserCount:      intPtr(50),
		PointCount:     intPtr(10),
		Devices: []transport.LineItem{{
			Name:        "IP Camera 4MP",
			Vendor:      "Hikvision",
			Origin:      "Trung Quốc",
			Quantity:    10,
			UnitPrice:   1_080_000,
			VATRate:     8,
			TotalAmount: 10_800_000,
		}},
		Licenses: []transport.LineItem{{
			Name:        "VMS Base License",
			Quantity:    10,
			UnitPrice:   3_080_000,
			VATRate:     8,
			TotalAmount: 30_800_000,
		}},
		CostServers: []transport.LineItem{{
			Name:        "Server Dell R750",
			Quantity:    1,
			UnitPrice:   54_000_000,
			VATRate:     8,
			TotalAmount: 54_000_000,
		}},
		Summary: transport.Summary{
			DeviceTotal:     10_800_000,
			LicenseTotal:    30_800_000,
			CostServerTotal: 54_000_000,
			DeploymentCost:  50_000_000,
			GrandTotal:      91_600_000,
		},
	}
}

func TestBuildForm_HeaderAndSections(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	form := BuildForm(fixtureQuotation(), fakeConfig{}, now)

	if form.Info.CompanyName != "TỔNG CÔNG TY CÔNG NGHỆ & GIẢI PHÁP CMC" {
		t.Fatalf("unexpected company name %q", form.Info.CompanyName)
	}
	if form.Info.QuotationType != "C-CAM On-premise" {
		t.Fatalf("expected on-premise quotation type, got %q", form.Info.QuotationType)
	}
	if form.Info.QuotationDate != "28/08/2026" {
		t.Fatalf("expected date 28/08/2026, got %q", form.Info.QuotationDate)
	}

	// Devices, licenses, servers and deployment each get a section.
	if len(form.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(form.Sections))
	}
	if form.Sections[0].Name != sectionDevices || form.Sections[3].Name != sectionDeployment {
		t.Fatalf("unexpected section order: %q ... %q", form.Sections[0].Name, form.Sections[3].Name)
	}
}

func TestBuildForm_BacksVATOutPerRow(t *testing.T) {
	form := BuildForm(fixtureQuotation(), fakeConfig{}, time.Now())

	devices := form.Sections[0]
	wantBefore := 10_800_000 / 1.08
	if !almostEqual(devices.Items[0].TotalBeforeVAT, wantBefore) {
		t.Fatalf("expected device before-VAT %v, got %v", wantBefore, devices.Items[0].TotalBeforeVAT)
	}
	if !almostEqual(devices.SubtotalVAT, 10_800_000-wantBefore) {
		t.Fatalf("expected device VAT %v, got %v", 10_800_000-wantBefore, devices.SubtotalVAT)
	}
	if !almostEqual(devices.SubtotalAfterVAT, 10_800_000) {
		t.Fatalf("expected device after-VAT 10800000, got %v", devices.SubtotalAfterVAT)
	}
}

func TestBuildForm_SummaryAfterVATIsGrandTotal(t *testing.T) {
	quotation := fixtureQuotation()
	form := BuildForm(quotation, fakeConfig{}, time.Now())

	if form.Summary.TotalAfterVAT != quotation.Summary.GrandTotal {
		t.Fatalf("expected summary after-VAT %v, got %v",
			quotation.Summary.GrandTotal, form.Summary.TotalAfterVAT)
	}
	if form.Summary.Note == "" {
		t.Fatal("expected summary note to be set")
	}
}

func TestBuildForm_DeploymentQuantityFollowsServiceKind(t *testing.T) {
	quotation := fixtureQuotation()
	form := BuildForm(quotation, fakeConfig{}, time.Now())

	deployment := form.Sections[3]
	if deployment.Items[0].Quantity != 10 {
		t.Fatalf("expected point count 10 as deployment quantity, got %d", deployment.Items[0].Quantity)
	}
	if !almostEqual(deployment.Items[0].UnitPrice, 5_000_000) {
		t.Fatalf("expected per-point fee 5000000, got %v", deployment.Items[0].UnitPrice)
	}

	// Feature-driven quotations count cameras instead.
	quotation.CameraCount = intPtr(4)
	quotation.SelectedFeatures = []transport.SelectedFeature{{Feature: "Cháy, khói", PointCount: 2}}
	quotation.Summary.DeploymentCost = 4_000_000
	form = BuildForm(quotation, fakeConfig{}, time.Now())

	deployment = form.Sections[3]
	if deployment.Items[0].Quantity != 4 || deployment.Items[0].Unit != "Camera" {
		t.Fatalf("expected 4 cameras, got %d %q", deployment.Items[0].Quantity, deployment.Items[0].Unit)
	}
}

func TestBuildForm_SkipsEmptySections(t *testing.T) {
	quotation := fixtureQuotation()
	quotation.CostServers = nil
	form := BuildForm(quotation, fakeConfig{}, time.Now())

	for _, section := range form.Sections {
		if section.Name == sectionServers {
			t.Fatal("expected server section to be omitted when no server lines exist")
		}
	}
}
