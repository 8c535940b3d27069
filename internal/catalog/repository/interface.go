package repository

import (
	"context"

	"github.com/google/uuid"
)

// Environment tags a catalog item with the hosting model it applies to.
type Environment string

const (
	EnvironmentCloud     Environment = "Cloud"
	EnvironmentOnPremise Environment = "OnPremise"
)

// Valid reports whether the environment is one of the two known values.
func (e Environment) Valid() bool {
	return e == EnvironmentCloud || e == EnvironmentOnPremise
}

// Category groups devices and licenses by service type. IconKey selects the
// pricing behavior for the whole category; "securityAlert" marks the
// feature-driven service.
type Category struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	IconKey   string    `db:"icon_key"`
	CreatedAt string    `db:"created_at"`
	UpdatedAt string    `db:"updated_at"`
}

// ItemDetail is a priced product or service entry tagged with the deployment
// environment it is sold for.
type ItemDetail struct {
	ID          uuid.UUID   `db:"id"`
	Name        string      `db:"name"`
	Vendor      string      `db:"vendor"`
	Origin      string      `db:"origin"`
	UnitPrice   float64     `db:"unit_price"`
	VATRate     float64     `db:"vat_rate"`
	Quantity    int         `db:"quantity"`
	Description string      `db:"description"`
	Note        *string     `db:"note"`
	Environment Environment `db:"environment"`
	FileKey     *string     `db:"file_key"`
	CreatedAt   string      `db:"created_at"`
	UpdatedAt   string      `db:"updated_at"`
}

// Device wraps an item detail with a device classification and the features
// it supports. TotalAmount is derived from the linked item detail at write
// time and never entered directly.
type Device struct {
	ID           uuid.UUID `db:"id"`
	CategoryID   uuid.UUID `db:"category_id"`
	ItemDetailID uuid.UUID `db:"item_detail_id"`
	DeviceType   string    `db:"device_type"`
	Features     []string  `db:"features"`
	TotalAmount  float64   `db:"total_amount"`
	CreatedAt    string    `db:"created_at"`
	UpdatedAt    string    `db:"updated_at"`
}

// License wraps an item detail with a cost server, a user-limit shape and the
// features it covers. Exactly one of UserLimit (on-premise) or
// UserMin/UserMax (cloud) is populated, matching the item detail's
// environment. TotalAmount is derived at write time.
type License struct {
	ID           uuid.UUID `db:"id"`
	CategoryID   uuid.UUID `db:"category_id"`
	ItemDetailID uuid.UUID `db:"item_detail_id"`
	CostServerID uuid.UUID `db:"cost_server_id"`
	Features     []string  `db:"features"`
	UserLimit    *int      `db:"user_limit"`
	UserMin      *int      `db:"user_min"`
	UserMax      *int      `db:"user_max"`
	TotalAmount  float64   `db:"total_amount"`
	CreatedAt    string    `db:"created_at"`
	UpdatedAt    string    `db:"updated_at"`
}

// CostServer is an infrastructure line item referenced by licenses.
type CostServer struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	UnitPrice   float64   `db:"unit_price"`
	VATRate     float64   `db:"vat_rate"`
	Quantity    *int      `db:"quantity"`
	TotalAmount float64   `db:"total_amount"`
	Description *string   `db:"description"`
	FileKey     *string   `db:"file_key"`
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
}

// DeviceWithDetail is a device hydrated with its item detail and category
// name, the shape the pricing engine consumes.
type DeviceWithDetail struct {
	Device
	Detail       ItemDetail
	CategoryName string
}

// LicenseWithDetail is a license hydrated with its item detail.
type LicenseWithDetail struct {
	License
	Detail       ItemDetail
	CategoryName string
}

// ── Write params ─────────────────────────────────────────────────────────────

// CreateCategoryParams contains data for creating a category.
type CreateCategoryParams struct {
	Name    string
	IconKey string
}

// UpdateCategoryParams contains data for updating a category.
type UpdateCategoryParams struct {
	ID      uuid.UUID
	Name    *string
	IconKey *string
}

// CreateItemDetailParams contains data for creating an item detail.
type CreateItemDetailParams struct {
	Name        string
	Vendor      string
	Origin      string
	UnitPrice   float64
	VATRate     float64
	Quantity    int
	Description string
	Note        *string
	Environment Environment
	FileKey     *string
}

// UpdateItemDetailParams contains data for updating an item detail.
type UpdateItemDetailParams struct {
	ID          uuid.UUID
	Name        *string
	Vendor      *string
	Origin      *string
	UnitPrice   *float64
	VATRate     *float64
	Quantity    *int
	Description *string
	Note        *string
	Environment *Environment
	FileKey     *string
}

// CreateDeviceParams contains data for creating a device.
// TotalAmount is computed by the service, not accepted from callers.
type CreateDeviceParams struct {
	CategoryID   uuid.UUID
	ItemDetailID uuid.UUID
	DeviceType   string
	Features     []string
	TotalAmount  float64
}

// UpdateDeviceParams contains data for updating a device.
type UpdateDeviceParams struct {
	ID           uuid.UUID
	CategoryID   *uuid.UUID
	ItemDetailID *uuid.UUID
	DeviceType   *string
	Features     []string
	TotalAmount  *float64
}

// CreateLicenseParams contains data for creating a license.
type CreateLicenseParams struct {
	CategoryID   uuid.UUID
	ItemDetailID uuid.UUID
	CostServerID uuid.UUID
	Features     []string
	UserLimit    *int
	UserMin      *int
	UserMax      *int
	TotalAmount  float64
}

// UpdateLicenseParams contains data for updating a license.
type UpdateLicenseParams struct {
	ID           uuid.UUID
	CategoryID   *uuid.UUID
	ItemDetailID *uuid.UUID
	CostServerID *uuid.UUID
	Features     []string
	UserLimit    *int
	UserMin      *int
	UserMax      *int
	TotalAmount  *float64
}

// CreateCostServerParams contains data for creating a cost server.
type CreateCostServerParams struct {
	Name        string
	UnitPrice   float64
	VATRate     float64
	Quantity    *int
	TotalAmount float64
	Description *string
	FileKey     *string
}

// UpdateCostServerParams contains data for updating a cost server.
type UpdateCostServerParams struct {
	ID          uuid.UUID
	Name        *string
	UnitPrice   *float64
	VATRate     *float64
	Quantity    *int
	TotalAmount *float64
	Description *string
	FileKey     *string
}

// Repository defines catalog persistence operations.
type Repository interface {
	// Categories
	CreateCategory(ctx context.Context, params CreateCategoryParams) (Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Item details
	CreateItemDetail(ctx context.Context, params CreateItemDetailParams) (ItemDetail, error)
	GetItemDetailByID(ctx context.Context, id uuid.UUID) (ItemDetail, error)
	ListItemDetails(ctx context.Context, env *Environment) ([]ItemDetail, error)
	UpdateItemDetail(ctx context.Context, params UpdateItemDetailParams) (ItemDetail, error)
	DeleteItemDetail(ctx context.Context, id uuid.UUID) error

	// Devices
	CreateDevice(ctx context.Context, params CreateDeviceParams) (Device, error)
	GetDeviceByID(ctx context.Context, id uuid.UUID) (Device, error)
	ListDevices(ctx context.Context, categoryID *uuid.UUID) ([]Device, error)
	UpdateDevice(ctx context.Context, params UpdateDeviceParams) (Device, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error

	// Licenses
	CreateLicense(ctx context.Context, params CreateLicenseParams) (License, error)
	GetLicenseByID(ctx context.Context, id uuid.UUID) (License, error)
	ListLicenses(ctx context.Context, categoryID *uuid.UUID) ([]License, error)
	UpdateLicense(ctx context.Context, params UpdateLicenseParams) (License, error)
	DeleteLicense(ctx context.Context, id uuid.UUID) error

	// Cost servers
	CreateCostServer(ctx context.Context, params CreateCostServerParams) (CostServer, error)
	GetCostServerByID(ctx context.Context, id uuid.UUID) (CostServer, error)
	ListCostServers(ctx context.Context) ([]CostServer, error)
	UpdateCostServer(ctx context.Context, params UpdateCostServerParams) (CostServer, error)
	DeleteCostServer(ctx context.Context, id uuid.UUID) error

	// Selector reads (consumed by the quotation module)
	ListItemDetailIDsByEnvironment(ctx context.Context, env Environment) ([]uuid.UUID, error)
	ListDevicesForSelection(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID) ([]DeviceWithDetail, error)
	ListLicensesByFeatures(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, featureNames []string) ([]LicenseWithDetail, error)
	ListLicensesByUserCount(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, userCount int) ([]LicenseWithDetail, error)
	ListLicensesByExactLimit(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, userCount int) ([]LicenseWithDetail, error)
	ListCostServersByIDs(ctx context.Context, ids []uuid.UUID) ([]CostServer, error)
}
