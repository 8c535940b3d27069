// Package service computes quotations: request validation, catalog
// selection, pricing and snapshot persistence.
package service

import (
	"context"

	"github.com/google/uuid"

	"quotation_backend/internal/events"
	"quotation_backend/internal/quotation/repository"
	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/logger"
)

// Service orchestrates quotation computation.
type Service struct {
	catalog  CatalogReader
	repo     repository.Repository
	policy   Policy
	log      *logger.Logger
	eventBus events.Bus
}

// NewService creates a new quotation service.
func NewService(catalog CatalogReader, repo repository.Repository, policy Policy, log *logger.Logger, eventBus events.Bus) *Service {
	return &Service{
		catalog:  catalog,
		repo:     repo,
		policy:   policy,
		log:      log,
		eventBus: eventBus,
	}
}

// ComputeQuotation validates the request, selects the applicable catalog
// slice, prices it and persists a snapshot. Identical input against an
// unchanged catalog yields identical totals.
func (s *Service) ComputeQuotation(ctx context.Context, req transport.ComputeQuotationRequest) (transport.QuotationResponse, error) {
	if err := ValidateRequest(s.policy, req); err != nil {
		return transport.QuotationResponse{}, err
	}

	selection, err := Select(ctx, s.catalog, s.policy, req)
	if err != nil {
		return transport.QuotationResponse{}, err
	}

	pricing, err := ComputePricing(s.policy, selection, req)
	if err != nil {
		return transport.QuotationResponse{}, err
	}

	summary := s.assembleSummary(pricing)
	snapshot, err := s.repo.Create(ctx, repository.Snapshot{
		DeploymentType:   req.DeploymentType,
		CategoryID:       req.CategoryID,
		CategoryName:     selection.Category.Name,
		IconKey:          req.IconKey,
		UserCount:        req.UserCount,
		PointCount:       req.PointCount,
		CameraCount:      req.CameraCount,
		SelectedFeatures: req.SelectedFeatures,
		Devices:          pricing.Devices,
		Licenses:         pricing.Licenses,
		CostServers:      pricing.CostServers,
		Summary:          summary,
	})
	if err != nil {
		return transport.QuotationResponse{}, err
	}

	if s.log != nil {
		s.log.QuotationComputed(snapshot.ID.String(), req.DeploymentType, summary.GrandTotal)
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.QuotationComputed{
			BaseEvent:      events.NewBaseEvent(),
			QuotationID:    snapshot.ID,
			DeploymentType: req.DeploymentType,
			ServiceName:    selection.Category.Name,
			GrandTotal:     summary.GrandTotal,
		})
	}

	return snapshotToResponse(snapshot), nil
}

// assembleSummary adds the display decomposition to the pricing totals.
// Device and cost-server totals are treated as VAT-inclusive at the flat
// backout rate and split into a pre-tax subtotal and a VAT line. GrandTotal
// stays the authoritative figure from the pricing engine; the decomposition
// is not required to reconcile with it exactly.
func (s *Service) assembleSummary(pricing PricingResult) transport.Summary {
	rate := s.policy.VATBackoutPercent / 100
	divisor := 1 + rate

	devicePreTax := pricing.DeviceTotal / divisor
	serverPreTax := pricing.CostServerTotal / divisor

	return transport.Summary{
		DeviceTotal:     pricing.DeviceTotal,
		LicenseTotal:    pricing.LicenseTotal,
		CostServerTotal: pricing.CostServerTotal,
		DeploymentCost:  pricing.DeploymentCost,
		GrandTotal:      pricing.GrandTotal,
		PreTaxSubtotal:  devicePreTax + pricing.LicenseTotal - serverPreTax*rate + pricing.DeploymentCost,
		VATAmount:       (devicePreTax + serverPreTax) * rate,
	}
}

// GetQuotation retrieves a persisted snapshot by ID.
func (s *Service) GetQuotation(ctx context.Context, id uuid.UUID) (transport.QuotationResponse, error) {
	snapshot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuotationResponse{}, err
	}
	return snapshotToResponse(snapshot), nil
}

// ListQuotations retrieves a page of snapshot history.
func (s *Service) ListQuotations(ctx context.Context, req transport.ListQuotationsRequest) (transport.ListQuotationsResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	snapshots, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return transport.ListQuotationsResponse{}, err
	}

	items := make([]transport.QuotationListItem, len(snapshots))
	for i, snapshot := range snapshots {
		items[i] = transport.QuotationListItem{
			ID:             snapshot.ID,
			DeploymentType: snapshot.DeploymentType,
			CategoryName:   snapshot.CategoryName,
			GrandTotal:     snapshot.Summary.GrandTotal,
			CreatedAt:      snapshot.CreatedAt,
		}
	}

	return transport.ListQuotationsResponse{
		Quotations: items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func snapshotToResponse(snapshot repository.Snapshot) transport.QuotationResponse {
	return transport.QuotationResponse{
		ID:               snapshot.ID,
		DeploymentType:   snapshot.DeploymentType,
		CategoryID:       snapshot.CategoryID,
		CategoryName:     snapshot.CategoryName,
		IconKey:          snapshot.IconKey,
		UserCount:        snapshot.UserCount,
		PointCount:       snapshot.PointCount,
		CameraCount:      snapshot.CameraCount,
		SelectedFeatures: snapshot.SelectedFeatures,
		Devices:          snapshot.Devices,
		Licenses:         snapshot.Licenses,
		CostServers:      snapshot.CostServers,
		Summary:          snapshot.Summary,
		CreatedAt:        snapshot.CreatedAt,
	}
}
