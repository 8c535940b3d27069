package transport

import (
	"github.com/google/uuid"

	"quotation_backend/internal/catalog/repository"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	IconKey string `json:"iconKey" validate:"required,min=1,max=100"`
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	IconKey *string `json:"iconKey" validate:"omitempty,min=1,max=100"`
}

// CreateItemDetailRequest is the request body for creating an item detail.
type CreateItemDetailRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=500"`
	Vendor      string  `json:"vendor" validate:"required,min=1,max=200"`
	Origin      string  `json:"origin" validate:"required,min=1,max=200"`
	UnitPrice   float64 `json:"unitPrice" validate:"min=0"`
	VATRate     float64 `json:"vatRate" validate:"min=0,max=100"`
	Quantity    int     `json:"quantity" validate:"min=0"`
	Description string  `json:"description"`
	Note        *string `json:"note"`
	Environment string  `json:"environment" validate:"required,oneof=Cloud OnPremise"`
	FileKey     *string `json:"fileKey" validate:"omitempty,max=1000"`
}

// UpdateItemDetailRequest is the request body for updating an item detail.
type UpdateItemDetailRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=500"`
	Vendor      *string  `json:"vendor" validate:"omitempty,min=1,max=200"`
	Origin      *string  `json:"origin" validate:"omitempty,min=1,max=200"`
	UnitPrice   *float64 `json:"unitPrice" validate:"omitempty,min=0"`
	VATRate     *float64 `json:"vatRate" validate:"omitempty,min=0,max=100"`
	Quantity    *int     `json:"quantity" validate:"omitempty,min=0"`
	Description *string  `json:"description"`
	Note        *string  `json:"note"`
	Environment *string  `json:"environment" validate:"omitempty,oneof=Cloud OnPremise"`
	FileKey     *string  `json:"fileKey" validate:"omitempty,max=1000"`
}

// CreateDeviceRequest is the request body for creating a device.
// The stored total is derived from the linked item detail, never accepted here.
type CreateDeviceRequest struct {
	CategoryID   uuid.UUID `json:"categoryId" validate:"required"`
	ItemDetailID uuid.UUID `json:"itemDetailId" validate:"required"`
	DeviceType   string    `json:"deviceType" validate:"required,min=1,max=200"`
	Features     []string  `json:"features" validate:"omitempty,dive,min=1,max=200"`
}

// UpdateDeviceRequest is the request body for updating a device.
type UpdateDeviceRequest struct {
	CategoryID   *uuid.UUID `json:"categoryId"`
	ItemDetailID *uuid.UUID `json:"itemDetailId"`
	DeviceType   *string    `json:"deviceType" validate:"omitempty,min=1,max=200"`
	Features     []string   `json:"features" validate:"omitempty,dive,min=1,max=200"`
}

// CreateLicenseRequest is the request body for creating a license. Exactly one
// user-limit shape must be supplied: userLimit for an on-premise item detail,
// userMin/userMax for a cloud one.
type CreateLicenseRequest struct {
	CategoryID   uuid.UUID `json:"categoryId" validate:"required"`
	ItemDetailID uuid.UUID `json:"itemDetailId" validate:"required"`
	CostServerID uuid.UUID `json:"costServerId" validate:"required"`
	Features     []string  `json:"features" validate:"omitempty,dive,min=1,max=200"`
	UserLimit    *int      `json:"userLimit" validate:"omitempty,min=1"`
	UserMin      *int      `json:"userMin" validate:"omitempty,min=0"`
	UserMax      *int      `json:"userMax" validate:"omitempty,min=1"`
}

// UpdateLicenseRequest is the request body for updating a license.
type UpdateLicenseRequest struct {
	CategoryID   *uuid.UUID `json:"categoryId"`
	ItemDetailID *uuid.UUID `json:"itemDetailId"`
	CostServerID *uuid.UUID `json:"costServerId"`
	Features     []string   `json:"features" validate:"omitempty,dive,min=1,max=200"`
	UserLimit    *int       `json:"userLimit" validate:"omitempty,min=1"`
	UserMin      *int       `json:"userMin" validate:"omitempty,min=0"`
	UserMax      *int       `json:"userMax" validate:"omitempty,min=1"`
}

// CreateCostServerRequest is the request body for creating a cost server.
type CreateCostServerRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=500"`
	UnitPrice   float64 `json:"unitPrice" validate:"min=0"`
	VATRate     float64 `json:"vatRate" validate:"min=0,max=100"`
	Quantity    *int    `json:"quantity" validate:"omitempty,min=0"`
	Description *string `json:"description"`
	FileKey     *string `json:"fileKey" validate:"omitempty,max=1000"`
}

// UpdateCostServerRequest is the request body for updating a cost server.
type UpdateCostServerRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=500"`
	UnitPrice   *float64 `json:"unitPrice" validate:"omitempty,min=0"`
	VATRate     *float64 `json:"vatRate" validate:"omitempty,min=0,max=100"`
	Quantity    *int     `json:"quantity" validate:"omitempty,min=0"`
	Description *string  `json:"description"`
	FileKey     *string  `json:"fileKey" validate:"omitempty,max=1000"`
}

// ListItemDetailsRequest defines the query parameters for listing item details.
type ListItemDetailsRequest struct {
	Environment string `form:"environment" validate:"omitempty,oneof=Cloud OnPremise"`
}

// ListByCategoryRequest defines the query parameters for listing devices or
// licenses scoped to a category.
type ListByCategoryRequest struct {
	CategoryID string `form:"categoryId" validate:"omitempty,uuid"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// CategoryResponse is the response shape for a category.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IconKey   string    `json:"iconKey"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// ItemDetailResponse is the response shape for an item detail.
type ItemDetailResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Vendor      string    `json:"vendor"`
	Origin      string    `json:"origin"`
	UnitPrice   float64   `json:"unitPrice"`
	VATRate     float64   `json:"vatRate"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Note        *string   `json:"note,omitempty"`
	Environment string    `json:"environment"`
	FileKey     *string   `json:"fileKey,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// DeviceResponse is the response shape for a device.
type DeviceResponse struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"categoryId"`
	ItemDetailID uuid.UUID `json:"itemDetailId"`
	DeviceType   string    `json:"deviceType"`
	Features     []string  `json:"features"`
	TotalAmount  float64   `json:"totalAmount"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// LicenseResponse is the response shape for a license.
type LicenseResponse struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"categoryId"`
	ItemDetailID uuid.UUID `json:"itemDetailId"`
	CostServerID uuid.UUID `json:"costServerId"`
	Features     []string  `json:"features"`
	UserLimit    *int      `json:"userLimit,omitempty"`
	UserMin      *int      `json:"userMin,omitempty"`
	UserMax      *int      `json:"userMax,omitempty"`
	TotalAmount  float64   `json:"totalAmount"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// CostServerResponse is the response shape for a cost server.
type CostServerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	UnitPrice   float64   `json:"unitPrice"`
	VATRate     float64   `json:"vatRate"`
	Quantity    *int      `json:"quantity,omitempty"`
	TotalAmount float64   `json:"totalAmount"`
	Description *string   `json:"description,omitempty"`
	FileKey     *string   `json:"fileKey,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ── Mappers ───────────────────────────────────────────────────────────────────

// ToCategoryResponse maps a repository category to its response shape.
func ToCategoryResponse(cat repository.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		IconKey:   cat.IconKey,
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

// ToCategoryResponses maps a slice of categories.
func ToCategoryResponses(cats []repository.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cats))
	for i, cat := range cats {
		out[i] = ToCategoryResponse(cat)
	}
	return out
}

// ToItemDetailResponse maps a repository item detail to its response shape.
func ToItemDetailResponse(detail repository.ItemDetail) ItemDetailResponse {
	return ItemDetailResponse{
		ID:          detail.ID,
		Name:        detail.Name,
		Vendor:      detail.Vendor,
		Origin:      detail.Origin,
		UnitPrice:   detail.UnitPrice,
		VATRate:     detail.VATRate,
		Quantity:    detail.Quantity,
		Description: detail.Description,
		Note:        detail.Note,
		Environment: string(detail.Environment),
		FileKey:     detail.FileKey,
		CreatedAt:   detail.CreatedAt,
		UpdatedAt:   detail.UpdatedAt,
	}
}

// ToItemDetailResponses maps a slice of item details.
func ToItemDetailResponses(details []repository.ItemDetail) []ItemDetailResponse {
	out := make([]ItemDetailResponse, len(details))
	for i, detail := range details {
		out[i] = ToItemDetailResponse(detail)
	}
	return out
}

// ToDeviceResponse maps a repository device to its response shape.
func ToDeviceResponse(device repository.Device) DeviceResponse {
	return DeviceResponse{
		ID:           device.ID,
		CategoryID:   device.CategoryID,
		ItemDetailID: device.ItemDetailID,
		DeviceType:   device.DeviceType,
		Features:     device.Features,
		TotalAmount:  device.TotalAmount,
		CreatedAt:    device.CreatedAt,
		UpdatedAt:    device.UpdatedAt,
	}
}

// ToDeviceResponses maps a slice of devices.
func ToDeviceResponses(devices []repository.Device) []DeviceResponse {
	out := make([]DeviceResponse, len(devices))
	for i, device := range devices {
		out[i] = ToDeviceResponse(device)
	}
	return out
}

// ToLicenseResponse maps a repository license to its response shape.
func ToLicenseResponse(license repository.License) LicenseResponse {
	return LicenseResponse{
		ID:           license.ID,
		CategoryID:   license.CategoryID,
		ItemDetailID: license.ItemDetailID,
		CostServerID: license.CostServerID,
		Features:     license.Features,
		UserLimit:    license.UserLimit,
		UserMin:      license.UserMin,
		UserMax:      license.UserMax,
		TotalAmount:  license.TotalAmount,
		CreatedAt:    license.CreatedAt,
		UpdatedAt:    license.UpdatedAt,
	}
}

// ToLicenseResponses maps a slice of licenses.
func ToLicenseResponses(licenses []repository.License) []LicenseResponse {
	out := make([]LicenseResponse, len(licenses))
	for i, license := range licenses {
		out[i] = ToLicenseResponse(license)
	}
	return out
}

// ToCostServerResponse maps a repository cost server to its response shape.
func ToCostServerResponse(server repository.CostServer) CostServerResponse {
	return CostServerResponse{
		ID:          server.ID,
		Name:        server.Name,
		UnitPrice:   server.UnitPrice,
		VATRate:     server.VATRate,
		Quantity:    server.Quantity,
		TotalAmount: server.TotalAmount,
		Description: server.Description,
		FileKey:     server.FileKey,
		CreatedAt:   server.CreatedAt,
		UpdatedAt:   server.UpdatedAt,
	}
}

// ToCostServerResponses maps a slice of cost servers.
func ToCostServerResponses(servers []repository.CostServer) []CostServerResponse {
	out := make([]CostServerResponse, len(servers))
	for i, server := range servers {
		out[i] = ToCostServerResponse(server)
	}
	return out
}
