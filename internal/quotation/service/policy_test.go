package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy failed validation: %v", err)
	}
}

func TestLoadPolicy_EmptyPathReturnsDefaults(t *testing.T) {
	policy, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("load with empty path: %v", err)
	}
	if policy.FeatureDrivenIconKey != "securityAlert" {
		t.Fatalf("expected default icon key securityAlert, got %q", policy.FeatureDrivenIconKey)
	}
	if policy.StandardDeploymentFee != 5_000_000 {
		t.Fatalf("expected default standard fee 5000000, got %v", policy.StandardDeploymentFee)
	}
}

func TestLoadPolicy_FileOverridesTiers(t *testing.T) {
	// An earlier revision of the tier table; the file swaps it in wholesale.
	content := `
cloudTiers:
  - {min: 1, max: 100}
  - {min: 101, max: 200}
  - {min: 201, max: 0}
standardDeploymentFee: 4000000
`
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("load policy: %v", err)
	}
	if len(policy.CloudTiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(policy.CloudTiers))
	}
	if policy.CloudTiers[1].Min != 101 || policy.CloudTiers[1].Max != 200 {
		t.Fatalf("expected second tier [101,200], got [%d,%d]", policy.CloudTiers[1].Min, policy.CloudTiers[1].Max)
	}
	if policy.StandardDeploymentFee != 4_000_000 {
		t.Fatalf("expected overridden fee 4000000, got %v", policy.StandardDeploymentFee)
	}
	// Fields the file leaves out keep their defaults.
	if policy.FeatureDeploymentFee != 1_000_000 {
		t.Fatalf("expected default feature fee 1000000, got %v", policy.FeatureDeploymentFee)
	}
	if policy.CloudLicenseVATBasis != VATBasisItemDetail {
		t.Fatalf("expected default cloud VAT basis itemDetail, got %q", policy.CloudLicenseVATBasis)
	}
}

func TestLoadPolicy_RejectsGappedTiers(t *testing.T) {
	content := `
cloudTiers:
  - {min: 1, max: 300}
  - {min: 500, max: 1000}
  - {min: 1001, max: 0}
`
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}

	if _, err := LoadPolicy(path); err == nil {
		t.Fatal("expected gapped tier table to be rejected")
	}
}

func TestPolicyValidate_RejectsClosedTopBucket(t *testing.T) {
	policy := DefaultPolicy()
	policy.CloudTiers[len(policy.CloudTiers)-1].Max = 5000

	if err := policy.Validate(); err == nil {
		t.Fatal("expected closed top bucket to be rejected")
	}
}

func TestPolicyValidate_RejectsUnknownVATBasis(t *testing.T) {
	policy := DefaultPolicy()
	policy.OnPremiseLicenseVATBasis = "supplier"

	if err := policy.Validate(); err == nil {
		t.Fatal("expected unknown VAT basis to be rejected")
	}
}
