// Package service contains catalog business logic: derived totals,
// user-limit shape enforcement and change event publication.
package service

import (
	"context"

	"github.com/google/uuid"

	"quotation_backend/internal/catalog/repository"
	"quotation_backend/internal/catalog/transport"
	"quotation_backend/internal/events"
	"quotation_backend/platform/apperr"
	"quotation_backend/platform/logger"
)

// Service provides catalog operations.
type Service struct {
	repo     repository.Repository
	log      *logger.Logger
	eventBus events.Bus
}

// NewService creates a new catalog service.
func NewService(repo repository.Repository, log *logger.Logger, eventBus events.Bus) *Service {
	return &Service{
		repo:     repo,
		log:      log,
		eventBus: eventBus,
	}
}

func (s *Service) publishChanged(ctx context.Context, entity string, entityID uuid.UUID, action string) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.CatalogChanged{
		BaseEvent: events.NewBaseEvent(),
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
	})
}

// ── Categories ───────────────────────────────────────────────────────────────

// CreateCategory creates a category.
func (s *Service) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (repository.Category, error) {
	cat, err := s.repo.CreateCategory(ctx, repository.CreateCategoryParams{
		Name:    req.Name,
		IconKey: req.IconKey,
	})
	if err != nil {
		return repository.Category{}, err
	}
	s.publishChanged(ctx, "category", cat.ID, "created")
	return cat, nil
}

// GetCategory retrieves a category by ID.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (repository.Category, error) {
	return s.repo.GetCategoryByID(ctx, id)
}

// ListCategories lists all categories.
func (s *Service) ListCategories(ctx context.Context) ([]repository.Category, error) {
	return s.repo.ListCategories(ctx)
}

// UpdateCategory updates a category.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, req transport.UpdateCategoryRequest) (repository.Category, error) {
	cat, err := s.repo.UpdateCategory(ctx, repository.UpdateCategoryParams{
		ID:      id,
		Name:    req.Name,
		IconKey: req.IconKey,
	})
	if err != nil {
		return repository.Category{}, err
	}
	s.publishChanged(ctx, "category", cat.ID, "updated")
	return cat, nil
}

// DeleteCategory deletes a category.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.publishChanged(ctx, "category", id, "deleted")
	return nil
}

// ── Item details ─────────────────────────────────────────────────────────────

// CreateItemDetail creates an item detail.
func (s *Service) CreateItemDetail(ctx context.Context, req transport.CreateItemDetailRequest) (repository.ItemDetail, error) {
	env := repository.Environment(req.Environment)
	if !env.Valid() {
		return repository.ItemDetail{}, apperr.Validation("environment must be Cloud or OnPremise")
	}

	detail, err := s.repo.CreateItemDetail(ctx, repository.CreateItemDetailParams{
		Name:        req.Name,
		Vendor:      req.Vendor,
		Origin:      req.Origin,
		UnitPrice:   req.UnitPrice,
		VATRate:     req.VATRate,
		Quantity:    req.Quantity,
		Description: req.Description,
		Note:        req.Note,
		Environment: env,
		FileKey:     req.FileKey,
	})
	if err != nil {
		return repository.ItemDetail{}, err
	}
	s.publishChanged(ctx, "item_detail", detail.ID, "created")
	return detail, nil
}

// GetItemDetail retrieves an item detail by ID.
func (s *Service) GetItemDetail(ctx context.Context, id uuid.UUID) (repository.ItemDetail, error) {
	return s.repo.GetItemDetailByID(ctx, id)
}

// ListItemDetails lists item details, optionally filtered by environment.
func (s *Service) ListItemDetails(ctx context.Context, environment string) ([]repository.ItemDetail, error) {
	var env *repository.Environment
	if environment != "" {
		e := repository.Environment(environment)
		if !e.Valid() {
			return nil, apperr.Validation("environment must be Cloud or OnPremise")
		}
		env = &e
	}
	return s.repo.ListItemDetails(ctx, env)
}

// UpdateItemDetail updates an item detail.
func (s *Service) UpdateItemDetail(ctx context.Context, id uuid.UUID, req transport.UpdateItemDetailRequest) (repository.ItemDetail, error) {
	var env *repository.Environment
	if req.Environment != nil {
		e := repository.Environment(*req.Environment)
		if !e.Valid() {
			return repository.ItemDetail{}, apperr.Validation("environment must be Cloud or OnPremise")
		}
		env = &e
	}

	detail, err := s.repo.UpdateItemDetail(ctx, repository.UpdateItemDetailParams{
		ID:          id,
		Name:        req.Name,
		Vendor:      req.Vendor,
		Origin:      req.Origin,
		UnitPrice:   req.UnitPrice,
		VATRate:     req.VATRate,
		Quantity:    req.Quantity,
		Description: req.Description,
		Note:        req.Note,
		Environment: env,
		FileKey:     req.FileKey,
	})
	if err != nil {
		return repository.ItemDetail{}, err
	}
	s.publishChanged(ctx, "item_detail", detail.ID, "updated")
	return detail, nil
}

// DeleteItemDetail deletes an item detail.
func (s *Service) DeleteItemDetail(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteItemDetail(ctx, id); err != nil {
		return err
	}
	s.publishChanged(ctx, "item_detail", id, "deleted")
	return nil
}

// ── Devices ──────────────────────────────────────────────────────────────────

// deviceTotal derives the stored device total from its item detail.
func deviceTotal(detail repository.ItemDetail) float64 {
	return detail.UnitPrice * (1 + detail.VATRate/100)
}

// licenseTotal derives the stored license total from its item detail and
// cost server: the license price plus the server priced at the license's
// VAT rate.
func licenseTotal(detail repository.ItemDetail, server repository.CostServer) float64 {
	return detail.UnitPrice + server.UnitPrice*(1+detail.VATRate/100)
}

// costServerTotal derives the stored cost server total.
func costServerTotal(unitPrice, vatRate float64) float64 {
	return unitPrice * (1 + vatRate/100)
}

// CreateDevice creates a device. The total is derived from the linked item
// detail; both referenced rows must exist.
func (s *Service) CreateDevice(ctx context.Context, req transport.CreateDeviceRequest) (repository.Device, error) {
	if _, err := s.repo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return repository.Device{}, err
	}
	detail, err := s.repo.GetItemDetailByID(ctx, req.ItemDetailID)
	if err != nil {
		return repository.Device{}, err
	}

	device, err := s.repo.CreateDevice(ctx, repository.CreateDeviceParams{
		CategoryID:   req.CategoryID,
		ItemDetailID: req.ItemDetailID,
		DeviceType:   req.DeviceType,
		Features:     normalizeFeatures(req.Features),
		TotalAmount:  deviceTotal(detail),
	})
	if err != nil {
		return repository.Device{}, err
	}
	s.publishChanged(ctx, "device", device.ID, "created")
	return device, nil
}

// GetDevice retrieves a device by ID.
func (s *Service) GetDevice(ctx context.Context, id uuid.UUID) (repository.Device, error) {
	return s.repo.GetDeviceByID(ctx, id)
}

// ListDevices lists devices, optionally filtered by category.
func (s *Service) ListDevices(ctx context.Context, categoryID *uuid.UUID) ([]repository.Device, error) {
	return s.repo.ListDevices(ctx, categoryID)
}

// UpdateDevice updates a device. When the item detail link changes the
// total is rederived from the new detail.
func (s *Service) UpdateDevice(ctx context.Context, id uuid.UUID, req transport.UpdateDeviceRequest) (repository.Device, error) {
	existing, err := s.repo.GetDeviceByID(ctx, id)
	if err != nil {
		return repository.Device{}, err
	}

	detailID := existing.ItemDetailID
	if req.ItemDetailID != nil {
		detailID = *req.ItemDetailID
	}
	detail, err := s.repo.GetItemDetailByID(ctx, detailID)
	if err != nil {
		return repository.Device{}, err
	}
	total := deviceTotal(detail)

	device, err := s.repo.UpdateDevice(ctx, repository.UpdateDeviceParams{
		ID:           id,
		CategoryID:   req.CategoryID,
		ItemDetailID: req.ItemDetailID,
		DeviceType:   req.DeviceType,
		Features:     normalizeFeatures(req.Features),
		TotalAmount:  &total,
	})
	if err != nil {
		return repository.Device{}, err
	}
	s.publishChanged(ctx, "device", device.ID, "updated")
	return device, nil
}

// DeleteDevice deletes a device.
func (s *Service) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteDevice(ctx, id); err != nil {
		return err
	}
	s.publishChanged(ctx, "device", id, "deleted")
	return nil
}

// ── Licenses ─────────────────────────────────────────────────────────────────

// validateUserLimitShape enforces the invariant that an on-premise license
// carries an exact user limit and a cloud license carries a [min, max] range.
func validateUserLimitShape(env repository.Environment, userLimit, userMin, userMax *int) error {
	switch env {
	case repository.EnvironmentOnPremise:
		if userLimit == nil {
			return apperr.Validation("userLimit is required for an OnPremise license")
		}
		if userMin != nil || userMax != nil {
			return apperr.Validation("userMin/userMax are not allowed for an OnPremise license")
		}
	case repository.EnvironmentCloud:
		if userMin == nil || userMax == nil {
			return apperr.Validation("userMin and userMax are required for a Cloud license")
		}
		if userLimit != nil {
			return apperr.Validation("userLimit is not allowed for a Cloud license")
		}
		if *userMin > *userMax {
			return apperr.Validation("userMin must not exceed userMax")
		}
	}
	return nil
}

// CreateLicense creates a license. The total is derived from the item detail
// and cost server; the user-limit shape must match the item detail's
// environment.
func (s *Service) CreateLicense(ctx context.Context, req transport.CreateLicenseRequest) (repository.License, error) {
	if _, err := s.repo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return repository.License{}, err
	}
	detail, err := s.repo.GetItemDetailByID(ctx, req.ItemDetailID)
	if err != nil {
		return repository.License{}, err
	}
	server, err := s.repo.GetCostServerByID(ctx, req.CostServerID)
	if err != nil {
		return repository.License{}, err
	}

	if err := validateUserLimitShape(detail.Environment, req.UserLimit, req.UserMin, req.UserMax); err != nil {
		return repository.License{}, err
	}

	license, err := s.repo.CreateLicense(ctx, repository.CreateLicenseParams{
		CategoryID:   req.CategoryID,
		ItemDetailID: req.ItemDetailID,
		CostServerID: req.CostServerID,
		Features:     normalizeFeatures(req.Features),
		UserLimit:    req.UserLimit,
		UserMin:      req.UserMin,
		UserMax:      req.UserMax,
		TotalAmount:  licenseTotal(detail, server),
	})
	if err != nil {
		return repository.License{}, err
	}
	s.publishChanged(ctx, "license", license.ID, "created")
	return license, nil
}

// GetLicense retrieves a license by ID.
func (s *Service) GetLicense(ctx context.Context, id uuid.UUID) (repository.License, error) {
	return s.repo.GetLicenseByID(ctx, id)
}

// ListLicenses lists licenses, optionally filtered by category.
func (s *Service) ListLicenses(ctx context.Context, categoryID *uuid.UUID) ([]repository.License, error) {
	return s.repo.ListLicenses(ctx, categoryID)
}

// UpdateLicense updates a license, rederiving the total and revalidating the
// user-limit shape against the effective item detail.
func (s *Service) UpdateLicense(ctx context.Context, id uuid.UUID, req transport.UpdateLicenseRequest) (repository.License, error) {
	existing, err := s.repo.GetLicenseByID(ctx, id)
	if err != nil {
		return repository.License{}, err
	}

	detailID := existing.ItemDetailID
	if req.ItemDetailID != nil {
		detailID = *req.ItemDetailID
	}
	serverID := existing.CostServerID
	if req.CostServerID != nil {
		serverID = *req.CostServerID
	}

	detail, err := s.repo.GetItemDetailByID(ctx, detailID)
	if err != nil {
		return repository.License{}, err
	}
	server, err := s.repo.GetCostServerByID(ctx, serverID)
	if err != nil {
		return repository.License{}, err
	}

	// An update that leaves all three limit fields empty keeps the stored
	// shape; any populated field replaces the shape wholesale.
	userLimit, userMin, userMax := req.UserLimit, req.UserMin, req.UserMax
	if userLimit == nil && userMin == nil && userMax == nil {
		userLimit, userMin, userMax = existing.UserLimit, existing.UserMin, existing.UserMax
	}
	if err := validateUserLimitShape(detail.Environment, userLimit, userMin, userMax); err != nil {
		return repository.License{}, err
	}

	total := licenseTotal(detail, server)
	license, err := s.repo.UpdateLicense(ctx, repository.UpdateLicenseParams{
		ID:           id,
		CategoryID:   req.CategoryID,
		ItemDetailID: req.ItemDetailID,
		CostServerID: req.CostServerID,
		Features:     normalizeFeatures(req.Features),
		UserLimit:    userLimit,
		UserMin:      userMin,
		UserMax:      userMax,
		TotalAmount:  &total,
	})
	if err != nil {
		return repository.License{}, err
	}
	s.publishChanged(ctx, "license", license.ID, "updated")
	return license, nil
}

// DeleteLicense deletes a license.
func (s *Service) DeleteLicense(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteLicense(ctx, id); err != nil {
		return err
	}
	s.publishChanged(ctx, "license", id, "deleted")
	return nil
}

// ── Cost servers ─────────────────────────────────────────────────────────────

// CreateCostServer creates a cost server with a derived total.
func (s *Service) CreateCostServer(ctx context.Context, req transport.CreateCostServerRequest) (repository.CostServer, error) {
	server, err := s.repo.CreateCostServer(ctx, repository.CreateCostServerParams{
		Name:        req.Name,
		UnitPrice:   req.UnitPrice,
		VATRate:     req.VATRate,
		Quantity:    req.Quantity,
		TotalAmount: costServerTotal(req.UnitPrice, req.VATRate),
		Description: req.Description,
		FileKey:     req.FileKey,
	})
	if err != nil {
		return repository.CostServer{}, err
	}
	s.publishChanged(ctx, "cost_server", server.ID, "created")
	return server, nil
}

// GetCostServer retrieves a cost server by ID.
func (s *Service) GetCostServer(ctx context.Context, id uuid.UUID) (repository.CostServer, error) {
	return s.repo.GetCostServerByID(ctx, id)
}

// ListCostServers lists all cost servers.
func (s *Service) ListCostServers(ctx context.Context) ([]repository.CostServer, error) {
	return s.repo.ListCostServers(ctx)
}

// UpdateCostServer updates a cost server, rederiving the total from the
// effective price and VAT rate.
func (s *Service) UpdateCostServer(ctx context.Context, id uuid.UUID, req transport.UpdateCostServerRequest) (repository.CostServer, error) {
	existing, err := s.repo.GetCostServerByID(ctx, id)
	if err != nil {
		return repository.CostServer{}, err
	}

	unitPrice := existing.UnitPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	vatRate := existing.VATRate
	if req.VATRate != nil {
		vatRate = *req.VATRate
	}
	total := costServerTotal(unitPrice, vatRate)

	server, err := s.repo.UpdateCostServer(ctx, repository.UpdateCostServerParams{
		ID:          id,
		Name:        req.Name,
		UnitPrice:   req.UnitPrice,
		VATRate:     req.VATRate,
		Quantity:    req.Quantity,
		TotalAmount: &total,
		Description: req.Description,
		FileKey:     req.FileKey,
	})
	if err != nil {
		return repository.CostServer{}, err
	}
	s.publishChanged(ctx, "cost_server", server.ID, "updated")
	return server, nil
}

// DeleteCostServer deletes a cost server.
func (s *Service) DeleteCostServer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCostServer(ctx, id); err != nil {
		return err
	}
	s.publishChanged(ctx, "cost_server", id, "deleted")
	return nil
}

// normalizeFeatures trims out empty names and returns nil for an empty set so
// COALESCE-based updates leave the stored array untouched.
func normalizeFeatures(features []string) []string {
	if len(features) == 0 {
		return nil
	}
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
