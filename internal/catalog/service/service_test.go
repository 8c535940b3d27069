package service

import (
	"math"
	"testing"

	"quotation_backend/internal/catalog/repository"
	"quotation_backend/platform/apperr"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func intPtr(v int) *int { return &v }

func TestDeviceTotal_IncludesVAT(t *testing.T) {
	detail := repository.ItemDetail{UnitPrice: 1_000_000, VATRate: 8}
	if got := deviceTotal(detail); !almostEqual(got, 1_080_000) {
		t.Fatalf("expected 1080000, got %v", got)
	}
}

func TestLicenseTotal_ServerPricedAtDetailRate(t *testing.T) {
	detail := repository.ItemDetail{UnitPrice: 500_000, VATRate: 10}
	server := repository.CostServer{UnitPrice: 1_000_000, VATRate: 8}

	// The server contribution uses the license detail's VAT rate, not the
	// server's own.
	want := 500_000 + 1_000_000*1.10
	if got := licenseTotal(detail, server); !almostEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCostServerTotal(t *testing.T) {
	if got := costServerTotal(2_000_000, 8); !almostEqual(got, 2_160_000) {
		t.Fatalf("expected 2160000, got %v", got)
	}
}

func TestValidateUserLimitShape(t *testing.T) {
	cases := []struct {
		name      string
		env       repository.Environment
		userLimit *int
		userMin   *int
		userMax   *int
		wantErr   bool
	}{
		{"on-premise exact limit", repository.EnvironmentOnPremise, intPtr(50), nil, nil, false},
		{"on-premise missing limit", repository.EnvironmentOnPremise, nil, nil, nil, true},
		{"on-premise with range", repository.EnvironmentOnPremise, intPtr(50), intPtr(1), intPtr(100), true},
		{"cloud range", repository.EnvironmentCloud, nil, intPtr(301), intPtr(500), false},
		{"cloud missing max", repository.EnvironmentCloud, nil, intPtr(301), nil, true},
		{"cloud with exact limit", repository.EnvironmentCloud, intPtr(50), intPtr(301), intPtr(500), true},
		{"cloud inverted range", repository.EnvironmentCloud, nil, intPtr(500), intPtr(301), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateUserLimitShape(tc.env, tc.userLimit, tc.userMin, tc.userMax)
			if tc.wantErr && !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected KindValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected valid shape, got %v", err)
			}
		})
	}
}

func TestNormalizeFeatures_DropsEmptyEntries(t *testing.T) {
	got := normalizeFeatures([]string{"Cháy, khói", "", "Xâm nhập"})
	if len(got) != 2 || got[0] != "Cháy, khói" || got[1] != "Xâm nhập" {
		t.Fatalf("unexpected features %v", got)
	}
	if normalizeFeatures(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
	if normalizeFeatures([]string{""}) != nil {
		t.Fatal("expected nil when all entries are empty")
	}
}
