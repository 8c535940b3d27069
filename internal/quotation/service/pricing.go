package service

import (
	"fmt"

	"quotation_backend/internal/catalog/repository"
	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/apperr"
)

// ServiceKind selects which pricing formula family applies to a quotation.
type ServiceKind int

const (
	// ServiceStandard prices devices by installation points and licenses
	// by user count.
	ServiceStandard ServiceKind = iota
	// ServiceFeatureDriven prices devices by camera count and licenses by
	// selected feature × points.
	ServiceFeatureDriven
)

// DeviceKind selects the quantity rule for one device line.
type DeviceKind int

const (
	// DeviceStandard uses the full camera or point count.
	DeviceStandard DeviceKind = iota
	// DeviceHalving covers two cameras per unit, so quantity is half the
	// camera count rounded up.
	DeviceHalving
)

// ServiceKindForIcon maps a category icon key onto a service kind.
func (p Policy) ServiceKindForIcon(iconKey string) ServiceKind {
	if iconKey == p.FeatureDrivenIconKey {
		return ServiceFeatureDriven
	}
	return ServiceStandard
}

// DeviceKindForType maps a device classification tag onto a device kind.
func (p Policy) DeviceKindForType(deviceType string) DeviceKind {
	if deviceType == p.HalvingDeviceType {
		return DeviceHalving
	}
	return DeviceStandard
}

// PricingResult is the priced quotation before assembly: every line's
// contribution plus the aggregate totals.
type PricingResult struct {
	Devices     []transport.LineItem
	Licenses    []transport.LineItem
	CostServers []transport.LineItem

	DeviceTotal     float64
	LicenseTotal    float64
	CostServerTotal float64
	DeploymentCost  float64
	GrandTotal      float64
}

// ValidateRequest checks that the request carries the counts its service
// kind requires. Runs before any catalog read or snapshot write.
func ValidateRequest(policy Policy, req transport.ComputeQuotationRequest) error {
	deploymentType := transport.DeploymentType(req.DeploymentType)
	if !deploymentType.Valid() {
		return apperr.Validation("deploymentType must be Cloud or OnPremise")
	}

	switch policy.ServiceKindForIcon(req.IconKey) {
	case ServiceFeatureDriven:
		if req.CameraCount == nil || *req.CameraCount <= 0 {
			return apperr.Validation("cameraCount is required for a feature-driven service")
		}
		if len(req.SelectedFeatures) == 0 {
			return apperr.Validation("selectedFeatures is required for a feature-driven service")
		}
		for _, sf := range req.SelectedFeatures {
			if sf.Feature == "" || sf.PointCount <= 0 {
				return apperr.Validation("each selected feature needs a name and a positive pointCount")
			}
		}
	case ServiceStandard:
		if req.PointCount == nil || *req.PointCount <= 0 {
			return apperr.Validation("pointCount is required and must be positive")
		}
		if req.UserCount == nil || *req.UserCount <= 0 {
			return apperr.Validation("userCount is required for a standard service")
		}
	}
	return nil
}

// halvedQuantity is the unit count for a device covering two cameras:
// half the camera count, odd counts rounding up.
func halvedQuantity(cameraCount int) int {
	return cameraCount/2 + cameraCount%2
}

// ComputePricing prices a resolved selection. Pure function of
// (selection, request, policy); the request must already be validated.
func ComputePricing(policy Policy, selection Selection, req transport.ComputeQuotationRequest) (PricingResult, error) {
	serviceKind := policy.ServiceKindForIcon(req.IconKey)
	deploymentType := transport.DeploymentType(req.DeploymentType)

	var result PricingResult

	// Device lines. The quantity multiplier is the only thing the two
	// service kinds disagree on.
	for _, device := range selection.Devices {
		var quantity int
		switch serviceKind {
		case ServiceFeatureDriven:
			quantity = *req.CameraCount
			if policy.DeviceKindForType(device.DeviceType) == DeviceHalving {
				quantity = halvedQuantity(*req.CameraCount)
			}
		case ServiceStandard:
			quantity = *req.PointCount
		}

		lineTotal := device.TotalAmount * float64(quantity)
		result.Devices = append(result.Devices, transport.LineItem{
			Name:        device.Detail.Name,
			Vendor:      device.Detail.Vendor,
			Origin:      device.Detail.Origin,
			Description: device.Detail.Description,
			Note:        device.Detail.Note,
			Quantity:    quantity,
			UnitPrice:   device.TotalAmount,
			VATRate:     device.Detail.VATRate,
			TotalAmount: lineTotal,
		})
		result.DeviceTotal += lineTotal
	}

	// License lines need a cost server for the per-unit base.
	if len(selection.Licenses) > 0 && selection.ReferenceServer == nil {
		return PricingResult{}, apperr.Configuration("licenses matched but no cost server resolved")
	}

	switch serviceKind {
	case ServiceFeatureDriven:
		// One contribution per (selected feature, matching license) pair.
		for _, sf := range req.SelectedFeatures {
			for _, license := range selection.Licenses {
				if !containsFeature(license.Features, sf.Feature) {
					continue
				}
				perUnit := licensePerUnit(license, *selection.ReferenceServer, VATBasisItemDetail)
				contribution := perUnit * float64(sf.PointCount)
				result.Licenses = append(result.Licenses, transport.LineItem{
					Name:        fmt.Sprintf("%s (%s)", license.Detail.Name, sf.Feature),
					Vendor:      license.Detail.Vendor,
					Origin:      license.Detail.Origin,
					Description: license.Detail.Description,
					Note:        license.Detail.Note,
					Quantity:    sf.PointCount,
					UnitPrice:   perUnit,
					VATRate:     license.Detail.VATRate,
					TotalAmount: contribution,
				})
				result.LicenseTotal += contribution
			}
		}
	case ServiceStandard:
		basis := policy.OnPremiseLicenseVATBasis
		multiplier := 1
		if deploymentType == transport.DeploymentCloud {
			basis = policy.CloudLicenseVATBasis
			multiplier = *req.UserCount
		}
		for _, license := range selection.Licenses {
			perUnit := licensePerUnit(license, *selection.ReferenceServer, basis)
			contribution := perUnit * float64(multiplier)
			result.Licenses = append(result.Licenses, transport.LineItem{
				Name:        license.Detail.Name,
				Vendor:      license.Detail.Vendor,
				Origin:      license.Detail.Origin,
				Description: license.Detail.Description,
				Note:        license.Detail.Note,
				Quantity:    multiplier,
				UnitPrice:   perUnit,
				VATRate:     license.Detail.VATRate,
				TotalAmount: contribution,
			})
			result.LicenseTotal += contribution
		}
	}

	// Deployment fee: flat per-camera or per-point surcharge.
	switch serviceKind {
	case ServiceFeatureDriven:
		result.DeploymentCost = policy.FeatureDeploymentFee * float64(*req.CameraCount)
	case ServiceStandard:
		result.DeploymentCost = policy.StandardDeploymentFee * float64(*req.PointCount)
	}

	// Cost-server lines and the display-only subtotal. Server costs are
	// already folded into license per-unit bases, so none of this feeds
	// the grand total.
	for _, server := range selection.CostServers {
		quantity := 1
		if server.Quantity != nil && *server.Quantity > 0 {
			quantity = *server.Quantity
		}
		result.CostServers = append(result.CostServers, transport.LineItem{
			Name:        server.Name,
			Description: derefOrEmpty(server.Description),
			Quantity:    quantity,
			UnitPrice:   server.UnitPrice,
			VATRate:     server.VATRate,
			TotalAmount: server.UnitPrice * (1 + server.VATRate/100),
		})
	}
	if ref := selection.ReferenceServer; ref != nil {
		result.CostServerTotal = ref.UnitPrice * (1 + ref.VATRate/100)
	}

	result.GrandTotal = result.DeviceTotal + result.LicenseTotal + result.DeploymentCost
	return result, nil
}

// licensePerUnit is the per-unit base of a license line: its own price plus
// the reference server priced at the branch's VAT basis.
func licensePerUnit(license repository.LicenseWithDetail, server repository.CostServer, basis VATBasis) float64 {
	vatRate := license.Detail.VATRate
	if basis == VATBasisCostServer {
		vatRate = server.VATRate
	}
	return license.Detail.UnitPrice + server.UnitPrice*(1+vatRate/100)
}

func containsFeature(features []string, name string) bool {
	for _, f := range features {
		if f == name {
			return true
		}
	}
	return false
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
