package service

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"quotation_backend/internal/catalog/repository"
	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/apperr"
)

func intPtr(v int) *int { return &v }

func testDevice(deviceType string, totalAmount float64, features ...string) repository.DeviceWithDetail {
	return repository.DeviceWithDetail{
		Device: repository.Device{
			ID:          uuid.New(),
			DeviceType:  deviceType,
			Features:    features,
			TotalAmount: totalAmount,
		},
		Detail: repository.ItemDetail{
			ID:      uuid.New(),
			Name:    deviceType,
			Vendor:  "Hikvision",
			Origin:  "Vietnam",
			VATRate: 8,
		},
	}
}

func testLicense(unitPrice, vatRate float64, features ...string) repository.LicenseWithDetail {
	return repository.LicenseWithDetail{
		License: repository.License{
			ID:       uuid.New(),
			Features: features,
		},
		Detail: repository.ItemDetail{
			ID:        uuid.New(),
			Name:      "VMS License",
			Vendor:    "CMC",
			UnitPrice: unitPrice,
			VATRate:   vatRate,
		},
	}
}

func testServer(unitPrice, vatRate float64) repository.CostServer {
	return repository.CostServer{
		ID:        uuid.New(),
		Name:      "Cloud Server",
		UnitPrice: unitPrice,
		VATRate:   vatRate,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestComputePricing_AIBoxQuantityHalvesRoundingUp(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		cameraCount  int
		wantQuantity int
	}{
		{5, 3},
		{4, 2},
		{1, 1},
	}

	for _, tc := range cases {
		selection := Selection{
			Devices: []repository.DeviceWithDetail{testDevice("AI Box", 2_000_000)},
		}
		req := transport.ComputeQuotationRequest{
			DeploymentType:   "Cloud",
			IconKey:          "securityAlert",
			CameraCount:      intPtr(tc.cameraCount),
			SelectedFeatures: []transport.SelectedFeature{{Feature: "Cháy, khói", PointCount: 1}},
		}

		result, err := ComputePricing(policy, selection, req)
		if err != nil {
			t.Fatalf("cameraCount %d: %v", tc.cameraCount, err)
		}
		if len(result.Devices) != 1 {
			t.Fatalf("cameraCount %d: expected 1 device line, got %d", tc.cameraCount, len(result.Devices))
		}
		if result.Devices[0].Quantity != tc.wantQuantity {
			t.Fatalf("cameraCount %d: expected AI Box quantity %d, got %d",
				tc.cameraCount, tc.wantQuantity, result.Devices[0].Quantity)
		}
	}
}

func TestComputePricing_FeatureDrivenTotals(t *testing.T) {
	policy := DefaultPolicy()
	server := testServer(1_000_000, 8)

	selection := Selection{
		Devices: []repository.DeviceWithDetail{
			testDevice("Fire Camera", 3_000_000, "Cháy, khói"),
			testDevice("AI Box", 2_000_000),
		},
		Licenses:        []repository.LicenseWithDetail{testLicense(500_000, 10, "Cháy, khói")},
		CostServers:     []repository.CostServer{server},
		ReferenceServer: &server,
	}
	req := transport.ComputeQuotationRequest{
		DeploymentType:   "Cloud",
		IconKey:          "securityAlert",
		CameraCount:      intPtr(5),
		SelectedFeatures: []transport.SelectedFeature{{Feature: "Cháy, khói", PointCount: 3}},
	}

	result, err := ComputePricing(policy, selection, req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	// Camera ×5 plus AI Box ×ceil(5/2)=3.
	wantDeviceTotal := 3_000_000.0*5 + 2_000_000.0*3
	if !almostEqual(result.DeviceTotal, wantDeviceTotal) {
		t.Fatalf("expected deviceTotal %v, got %v", wantDeviceTotal, result.DeviceTotal)
	}

	// Per unit = 500000 + 1000000×1.10, times 3 points.
	wantLicenseTotal := (500_000.0 + 1_000_000.0*1.10) * 3
	if !almostEqual(result.LicenseTotal, wantLicenseTotal) {
		t.Fatalf("expected licenseTotal %v, got %v", wantLicenseTotal, result.LicenseTotal)
	}

	wantDeployment := 1_000_000.0 * 5
	if !almostEqual(result.DeploymentCost, wantDeployment) {
		t.Fatalf("expected deploymentCost %v, got %v", wantDeployment, result.DeploymentCost)
	}

	wantGrand := wantDeviceTotal + wantLicenseTotal + wantDeployment
	if result.GrandTotal != result.DeviceTotal+result.LicenseTotal+result.DeploymentCost {
		t.Fatalf("grandTotal %v is not the exact sum of its parts", result.GrandTotal)
	}
	if !almostEqual(result.GrandTotal, wantGrand) {
		t.Fatalf("expected grandTotal %v, got %v", wantGrand, result.GrandTotal)
	}
}

func TestComputePricing_FeatureDrivenSkipsUnmatchedLicenses(t *testing.T) {
	policy := DefaultPolicy()
	server := testServer(1_000_000, 8)

	selection := Selection{
		Licenses: []repository.LicenseWithDetail{
			testLicense(500_000, 10, "Cháy, khói"),
			testLicense(700_000, 10, "Xâm nhập"),
		},
		CostServers:     []repository.CostServer{server},
		ReferenceServer: &server,
	}
	req := transport.ComputeQuotationRequest{
		DeploymentType:   "Cloud",
		IconKey:          "securityAlert",
		CameraCount:      intPtr(2),
		SelectedFeatures: []transport.SelectedFeature{{Feature: "Cháy, khói", PointCount: 4}},
	}

	result, err := ComputePricing(policy, selection, req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(result.Licenses) != 1 {
		t.Fatalf("expected 1 license line, got %d", len(result.Licenses))
	}
	want := (500_000.0 + 1_000_000.0*1.10) * 4
	if !almostEqual(result.LicenseTotal, want) {
		t.Fatalf("expected licenseTotal %v, got %v", want, result.LicenseTotal)
	}
}

func TestComputePricing_StandardOnPremise(t *testing.T) {
	policy := DefaultPolicy()
	server := testServer(1_000_000, 8)

	selection := Selection{
		Devices:         []repository.DeviceWithDetail{testDevice("IP Camera", 1_000_000)},
		Licenses:        []repository.LicenseWithDetail{testLicense(2_000_000, 10)},
		CostServers:     []repository.CostServer{server},
		ReferenceServer: &server,
	}
	req := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		IconKey:        "camera",
		UserCount:      intPtr(50),
		PointCount:     intPtr(10),
	}

	result, err := ComputePricing(policy, selection, req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if !almostEqual(result.DeviceTotal, 10_000_000) {
		t.Fatalf("expected deviceTotal 10000000, got %v", result.DeviceTotal)
	}
	if !almostEqual(result.DeploymentCost, 50_000_000) {
		t.Fatalf("expected deploymentCost 50000000, got %v", result.DeploymentCost)
	}

	// On-premise prices the server share at the server's own VAT rate and
	// applies no per-user multiplier.
	wantLicense := 2_000_000.0 + 1_000_000.0*1.08
	if !almostEqual(result.LicenseTotal, wantLicense) {
		t.Fatalf("expected licenseTotal %v, got %v", wantLicense, result.LicenseTotal)
	}
	if result.Licenses[0].Quantity != 1 {
		t.Fatalf("expected on-premise license quantity 1, got %d", result.Licenses[0].Quantity)
	}

	if result.GrandTotal != result.DeviceTotal+result.LicenseTotal+result.DeploymentCost {
		t.Fatalf("grandTotal %v is not the exact sum of its parts", result.GrandTotal)
	}
}

func TestComputePricing_StandardCloudMultipliesByUserCount(t *testing.T) {
	policy := DefaultPolicy()
	server := testServer(1_000_000, 8)

	selection := Selection{
		Licenses:        []repository.LicenseWithDetail{testLicense(2_000_000, 10)},
		CostServers:     []repository.CostServer{server},
		ReferenceServer: &server,
	}
	req := transport.ComputeQuotationRequest{
		DeploymentType: "Cloud",
		IconKey:        "camera",
		UserCount:      intPtr(400),
		PointCount:     intPtr(10),
	}

	result, err := ComputePricing(policy, selection, req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	// Cloud prices the server share at the item detail's VAT rate and
	// multiplies by userCount only; pointCount plays no role here.
	wantPerUnit := 2_000_000.0 + 1_000_000.0*1.10
	want := wantPerUnit * 400
	if !almostEqual(result.LicenseTotal, want) {
		t.Fatalf("expected licenseTotal %v, got %v", want, result.LicenseTotal)
	}
	if result.Licenses[0].Quantity != 400 {
		t.Fatalf("expected cloud license quantity 400, got %d", result.Licenses[0].Quantity)
	}
}

func TestComputePricing_CostServerTotalIsDisplayOnly(t *testing.T) {
	policy := DefaultPolicy()
	server := testServer(10_000_000, 8)

	selection := Selection{
		Devices:         []repository.DeviceWithDetail{testDevice("IP Camera", 1_000_000)},
		Licenses:        []repository.LicenseWithDetail{testLicense(2_000_000, 10)},
		CostServers:     []repository.CostServer{server},
		ReferenceServer: &server,
	}
	req := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		IconKey:        "camera",
		UserCount:      intPtr(10),
		PointCount:     intPtr(2),
	}

	result, err := ComputePricing(policy, selection, req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if !almostEqual(result.CostServerTotal, 10_000_000*1.08) {
		t.Fatalf("expected costServerTotal %v, got %v", 10_000_000*1.08, result.CostServerTotal)
	}
	// The grand total must not count the server subtotal a second time.
	if result.GrandTotal != result.DeviceTotal+result.LicenseTotal+result.DeploymentCost {
		t.Fatalf("grandTotal %v double-counts the cost server", result.GrandTotal)
	}
}

func TestComputePricing_LicensesWithoutServerFailFast(t *testing.T) {
	policy := DefaultPolicy()

	selection := Selection{
		Licenses: []repository.LicenseWithDetail{testLicense(2_000_000, 10)},
	}
	req := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		IconKey:        "camera",
		UserCount:      intPtr(10),
		PointCount:     intPtr(2),
	}

	_, err := ComputePricing(policy, selection, req)
	if err == nil {
		t.Fatal("expected a configuration error when no cost server resolved")
	}
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Fatalf("expected KindConfiguration, got %v", err)
	}
}

func TestValidateRequest_StandardRequiresPointAndUserCounts(t *testing.T) {
	policy := DefaultPolicy()

	missingPoint := transport.ComputeQuotationRequest{
		DeploymentType: "OnPremise",
		IconKey:        "camera",
		UserCount:      intPtr(10),
	}
	if err := ValidateRequest(policy, missingPoint); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing pointCount, got %v", err)
	}

	missingUser := transport.ComputeQuotationRequest{
		DeploymentType: "Cloud",
		IconKey:        "camera",
		PointCount:     intPtr(10),
	}
	if err := ValidateRequest(policy, missingUser); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing userCount, got %v", err)
	}
}

func TestValidateRequest_FeatureDrivenRequiresCamerasAndFeatures(t *testing.T) {
	policy := DefaultPolicy()

	missingCameras := transport.ComputeQuotationRequest{
		DeploymentType:   "Cloud",
		IconKey:          "securityAlert",
		SelectedFeatures: []transport.SelectedFeature{{Feature: "Cháy, khói", PointCount: 1}},
	}
	if err := ValidateRequest(policy, missingCameras); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing cameraCount, got %v", err)
	}

	missingFeatures := transport.ComputeQuotationRequest{
		DeploymentType: "Cloud",
		IconKey:        "securityAlert",
		CameraCount:    intPtr(3),
	}
	if err := ValidateRequest(policy, missingFeatures); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing selectedFeatures, got %v", err)
	}

	valid := transport.ComputeQuotationRequest{
		DeploymentType:   "Cloud",
		IconKey:          "securityAlert",
		CameraCount:      intPtr(3),
		SelectedFeatures: []transport.SelectedFeature{{Feature: "Cháy, khói", PointCount: 2}},
	}
	if err := ValidateRequest(policy, valid); err != nil {
		t.Fatalf("expected valid feature-driven request, got %v", err)
	}
}
