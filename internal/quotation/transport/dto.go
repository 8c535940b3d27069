package transport

import (
	"github.com/google/uuid"
)

// DeploymentType is the infrastructure hosting model chosen by the customer.
type DeploymentType string

const (
	DeploymentCloud     DeploymentType = "Cloud"
	DeploymentOnPremise DeploymentType = "OnPremise"
)

// Valid reports whether the deployment type is one of the two known values.
func (d DeploymentType) Valid() bool {
	return d == DeploymentCloud || d == DeploymentOnPremise
}

// ── Requests ──────────────────────────────────────────────────────────────────

// SelectedFeature is one capability the customer picked on the form, with the
// number of installation points it covers.
type SelectedFeature struct {
	Feature    string `json:"feature" validate:"required,min=1,max=200"`
	PointCount int    `json:"pointCount" validate:"required,min=1"`
}

// ComputeQuotationRequest is the request body for computing a quotation.
// Which count fields are required depends on the service kind the category's
// icon key selects; the service validates that, not the struct tags.
type ComputeQuotationRequest struct {
	DeploymentType   string            `json:"deploymentType" validate:"required,oneof=Cloud OnPremise"`
	CategoryID       uuid.UUID         `json:"categoryId" validate:"required"`
	IconKey          string            `json:"iconKey" validate:"required,min=1,max=100"`
	UserCount        *int              `json:"userCount" validate:"omitempty,min=1"`
	PointCount       *int              `json:"pointCount" validate:"omitempty,min=1"`
	CameraCount      *int              `json:"cameraCount" validate:"omitempty,min=1"`
	SelectedFeatures []SelectedFeature `json:"selectedFeatures" validate:"omitempty,dive"`
}

// ListQuotationsRequest defines the query parameters for listing snapshots.
type ListQuotationsRequest struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// LineItem is one priced row of the quotation: a device, a license or a cost
// server entry.
type LineItem struct {
	Name        string  `json:"name"`
	Vendor      string  `json:"vendor,omitempty"`
	Origin      string  `json:"origin,omitempty"`
	Description string  `json:"description,omitempty"`
	Note        *string `json:"note,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	VATRate     float64 `json:"vatRate"`
	TotalAmount float64 `json:"totalAmount"`
}

// Summary carries the aggregate totals. GrandTotal is authoritative;
// PreTaxSubtotal and VATAmount are display decompositions and are not
// guaranteed to reconcile with it exactly.
type Summary struct {
	DeviceTotal     float64 `json:"deviceTotal"`
	LicenseTotal    float64 `json:"licenseTotal"`
	CostServerTotal float64 `json:"costServerTotal"`
	DeploymentCost  float64 `json:"deploymentCost"`
	GrandTotal      float64 `json:"grandTotal"`
	PreTaxSubtotal  float64 `json:"preTaxSubtotal"`
	VATAmount       float64 `json:"vatAmount"`
}

// QuotationResponse is the computed quotation returned to the form and
// consumed by the spreadsheet exporter.
type QuotationResponse struct {
	ID               uuid.UUID         `json:"id"`
	DeploymentType   string            `json:"deploymentType"`
	CategoryID       uuid.UUID         `json:"categoryId"`
	CategoryName     string            `json:"categoryName"`
	IconKey          string            `json:"iconKey"`
	UserCount        *int              `json:"userCount,omitempty"`
	PointCount       *int              `json:"pointCount,omitempty"`
	CameraCount      *int              `json:"cameraCount,omitempty"`
	SelectedFeatures []SelectedFeature `json:"selectedFeatures,omitempty"`
	Devices          []LineItem        `json:"devices"`
	Licenses         []LineItem        `json:"licenses"`
	CostServers      []LineItem        `json:"costServers"`
	Summary          Summary           `json:"summary"`
	CreatedAt        string            `json:"createdAt"`
}

// QuotationListItem is the compact shape for the snapshot history listing.
type QuotationListItem struct {
	ID             uuid.UUID `json:"id"`
	DeploymentType string    `json:"deploymentType"`
	CategoryName   string    `json:"categoryName"`
	GrandTotal     float64   `json:"grandTotal"`
	CreatedAt      string    `json:"createdAt"`
}

// ListQuotationsResponse wraps a page of snapshot history.
type ListQuotationsResponse struct {
	Quotations []QuotationListItem `json:"quotations"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
}
