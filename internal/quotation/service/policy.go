package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VATBasis selects which party's VAT rate prices the cost-server share of a
// license line.
type VATBasis string

const (
	// VATBasisItemDetail applies the license item detail's own VAT rate.
	VATBasisItemDetail VATBasis = "itemDetail"
	// VATBasisCostServer applies the cost server's VAT rate.
	VATBasisCostServer VATBasis = "costServer"
)

// Tier is one cloud license bucket with an inclusive user-count range.
// Max <= 0 marks the open-ended top bucket.
type Tier struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Policy is the pricing rule table. The business revises tier breakpoints and
// deployment fees between quarters, so everything here is data loaded from a
// YAML file rather than code.
type Policy struct {
	// CloudTiers are the ascending license buckets for cloud deployments.
	CloudTiers []Tier `yaml:"cloudTiers"`

	// FeatureDrivenIconKey marks the category whose pricing runs off
	// selected features and camera count instead of users and points.
	FeatureDrivenIconKey string `yaml:"featureDrivenIconKey"`

	// HalvingDeviceType names the device classification whose quantity is
	// half the camera count, rounded up.
	HalvingDeviceType string `yaml:"halvingDeviceType"`

	// Deployment fees in VND per camera (feature-driven) or per
	// installation point (standard).
	FeatureDeploymentFee  float64 `yaml:"featureDeploymentFee"`
	StandardDeploymentFee float64 `yaml:"standardDeploymentFee"`

	// License VAT basis per branch. The cloud and on-premise standard
	// formulas intentionally price the server share at different rates.
	CloudLicenseVATBasis     VATBasis `yaml:"cloudLicenseVatBasis"`
	OnPremiseLicenseVATBasis VATBasis `yaml:"onPremiseLicenseVatBasis"`

	// VATBackoutPercent is the flat rate used to decompose VAT-inclusive
	// totals for display, independent of per-item VAT rates.
	VATBackoutPercent float64 `yaml:"vatBackoutPercent"`
}

// DefaultPolicy returns the pricing rules in force today.
func DefaultPolicy() Policy {
	return Policy{
		CloudTiers: []Tier{
			{Min: 1, Max: 300},
			{Min: 301, Max: 500},
			{Min: 501, Max: 1000},
			{Min: 1001, Max: 1500},
			{Min: 1501, Max: 2000},
			{Min: 2001, Max: 0},
		},
		FeatureDrivenIconKey:     "securityAlert",
		HalvingDeviceType:        "AI Box",
		FeatureDeploymentFee:     1_000_000,
		StandardDeploymentFee:    5_000_000,
		CloudLicenseVATBasis:     VATBasisItemDetail,
		OnPremiseLicenseVATBasis: VATBasisCostServer,
		VATBackoutPercent:        8,
	}
}

// LoadPolicy reads a policy file, falling back to the defaults for any field
// the file leaves unset. An empty path returns the defaults unchanged.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read pricing policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse pricing policy %s: %w", path, err)
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, fmt.Errorf("pricing policy %s: %w", path, err)
	}
	return policy, nil
}

// Validate checks that the tier table partitions the positive integers:
// ascending, contiguous, starting at 1, with an open-ended top bucket.
func (p Policy) Validate() error {
	if len(p.CloudTiers) == 0 {
		return fmt.Errorf("cloudTiers must not be empty")
	}
	if p.CloudTiers[0].Min != 1 {
		return fmt.Errorf("first cloud tier must start at 1, got %d", p.CloudTiers[0].Min)
	}
	for i, tier := range p.CloudTiers {
		last := i == len(p.CloudTiers)-1
		if last {
			if tier.Max > 0 {
				return fmt.Errorf("last cloud tier must be open-ended (max 0), got max %d", tier.Max)
			}
			continue
		}
		if tier.Max < tier.Min {
			return fmt.Errorf("cloud tier %d has max %d below min %d", i, tier.Max, tier.Min)
		}
		if p.CloudTiers[i+1].Min != tier.Max+1 {
			return fmt.Errorf("cloud tier %d leaves a gap: max %d, next min %d", i, tier.Max, p.CloudTiers[i+1].Min)
		}
	}
	if p.FeatureDeploymentFee < 0 || p.StandardDeploymentFee < 0 {
		return fmt.Errorf("deployment fees must not be negative")
	}
	switch p.CloudLicenseVATBasis {
	case VATBasisItemDetail, VATBasisCostServer:
	default:
		return fmt.Errorf("cloudLicenseVatBasis must be itemDetail or costServer, got %q", p.CloudLicenseVATBasis)
	}
	switch p.OnPremiseLicenseVATBasis {
	case VATBasisItemDetail, VATBasisCostServer:
	default:
		return fmt.Errorf("onPremiseLicenseVatBasis must be itemDetail or costServer, got %q", p.OnPremiseLicenseVATBasis)
	}
	if p.VATBackoutPercent < 0 || p.VATBackoutPercent >= 100 {
		return fmt.Errorf("vatBackoutPercent must be in [0, 100), got %v", p.VATBackoutPercent)
	}
	return nil
}
