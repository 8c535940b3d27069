package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quotation_backend/internal/catalog/repository"
	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/apperr"
)

// CatalogReader is the slice of the catalog repository the selector needs.
// The catalog module's repository satisfies it.
type CatalogReader interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (repository.Category, error)
	ListItemDetailIDsByEnvironment(ctx context.Context, env repository.Environment) ([]uuid.UUID, error)
	ListDevicesForSelection(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID) ([]repository.DeviceWithDetail, error)
	ListLicensesByFeatures(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, featureNames []string) ([]repository.LicenseWithDetail, error)
	ListLicensesByUserCount(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, userCount int) ([]repository.LicenseWithDetail, error)
	ListLicensesByExactLimit(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, userCount int) ([]repository.LicenseWithDetail, error)
	ListCostServersByIDs(ctx context.Context, ids []uuid.UUID) ([]repository.CostServer, error)
}

// Selection is the resolved catalog slice one quotation prices over.
type Selection struct {
	Category repository.Category
	Devices  []repository.DeviceWithDetail
	Licenses []repository.LicenseWithDetail

	// CostServers are the deduplicated servers referenced by the selected
	// licenses. ReferenceServer is the single server all per-license
	// formulas use; nil when no licenses matched.
	CostServers     []repository.CostServer
	ReferenceServer *repository.CostServer
}

// Select resolves the devices, licenses and cost servers applicable to one
// quotation request. The device and license reads are independent queries and
// run concurrently.
func Select(ctx context.Context, catalog CatalogReader, policy Policy, req transport.ComputeQuotationRequest) (Selection, error) {
	category, err := catalog.GetCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return Selection{}, err
	}

	deploymentType := transport.DeploymentType(req.DeploymentType)
	env := repository.EnvironmentCloud
	if deploymentType == transport.DeploymentOnPremise {
		env = repository.EnvironmentOnPremise
	}

	itemDetailIDs, err := catalog.ListItemDetailIDsByEnvironment(ctx, env)
	if err != nil {
		return Selection{}, err
	}
	if len(itemDetailIDs) == 0 {
		return Selection{}, apperr.Configuration(fmt.Sprintf("no catalog items exist for the %s environment", env))
	}

	selection := Selection{Category: category}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		devices, err := catalog.ListDevicesForSelection(groupCtx, req.CategoryID, itemDetailIDs)
		if err != nil {
			return err
		}
		selection.Devices = devices
		return nil
	})
	group.Go(func() error {
		licenses, err := selectLicenses(groupCtx, catalog, policy, req, itemDetailIDs)
		if err != nil {
			return err
		}
		selection.Licenses = licenses
		return nil
	})
	if err := group.Wait(); err != nil {
		return Selection{}, err
	}

	servers, reference, err := resolveCostServers(ctx, catalog, selection.Licenses)
	if err != nil {
		return Selection{}, err
	}
	selection.CostServers = servers
	selection.ReferenceServer = reference

	return selection, nil
}

func selectLicenses(ctx context.Context, catalog CatalogReader, policy Policy, req transport.ComputeQuotationRequest, itemDetailIDs []uuid.UUID) ([]repository.LicenseWithDetail, error) {
	serviceKind := policy.ServiceKindForIcon(req.IconKey)

	if serviceKind == ServiceFeatureDriven && len(req.SelectedFeatures) > 0 {
		names := make([]string, len(req.SelectedFeatures))
		for i, sf := range req.SelectedFeatures {
			names[i] = sf.Feature
		}
		return catalog.ListLicensesByFeatures(ctx, req.CategoryID, itemDetailIDs, names)
	}

	limit := ResolveUserLimit(policy, transport.DeploymentType(req.DeploymentType), *req.UserCount)
	if limit.Exact != nil {
		return catalog.ListLicensesByExactLimit(ctx, req.CategoryID, itemDetailIDs, *limit.Exact)
	}
	// Cloud licenses carry their own [user_min, user_max] range; matching is
	// by containment of the raw count, not by the resolved tier bounds.
	return catalog.ListLicensesByUserCount(ctx, req.CategoryID, itemDetailIDs, limit.UserCount)
}

// resolveCostServers collects the servers the selected licenses reference,
// deduplicated. All pricing formulas use a single reference server; more than
// one distinct server with differing prices is a catalog misconfiguration,
// not something to pick from silently.
func resolveCostServers(ctx context.Context, catalog CatalogReader, licenses []repository.LicenseWithDetail) ([]repository.CostServer, *repository.CostServer, error) {
	if len(licenses) == 0 {
		return nil, nil, nil
	}

	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(licenses))
	for _, license := range licenses {
		if !seen[license.CostServerID] {
			seen[license.CostServerID] = true
			ids = append(ids, license.CostServerID)
		}
	}

	servers, err := catalog.ListCostServersByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(servers) == 0 {
		return nil, nil, apperr.Configuration("selected licenses reference cost servers that do not exist")
	}

	reference := servers[0]
	for _, server := range servers[1:] {
		if server.UnitPrice != reference.UnitPrice || server.VATRate != reference.VATRate {
			return nil, nil, apperr.Configuration("selected licenses reference cost servers with conflicting prices")
		}
	}
	return servers, &reference, nil
}
