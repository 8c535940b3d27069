package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Selector reads. These queries hydrate devices and licenses with their item
// detail and category name in one round trip, the shape the pricing engine
// consumes. Filtering on item_detail_ids keeps the selection pinned to the
// requested deployment environment.

const deviceSelectionColumns = `
	d.id, d.category_id, d.item_detail_id, d.device_type, d.features, d.total_amount, d.created_at, d.updated_at,
	i.id, i.name, i.vendor, i.origin, i.unit_price, i.vat_rate, i.quantity, i.description, i.note, i.environment, i.file_key, i.created_at, i.updated_at,
	c.name`

const licenseSelectionColumns = `
	l.id, l.category_id, l.item_detail_id, l.cost_server_id, l.features, l.user_limit, l.user_min, l.user_max, l.total_amount, l.created_at, l.updated_at,
	i.id, i.name, i.vendor, i.origin, i.unit_price, i.vat_rate, i.quantity, i.description, i.note, i.environment, i.file_key, i.created_at, i.updated_at,
	c.name`

// ListItemDetailIDsByEnvironment returns the IDs of every item detail tagged
// with the given environment.
func (r *Repo) ListItemDetailIDsByEnvironment(ctx context.Context, env Environment) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM item_details WHERE environment = $1`, env)
	if err != nil {
		return nil, fmt.Errorf("list item detail ids by environment: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item detail id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanDeviceWithDetail(rows pgx.Rows) (DeviceWithDetail, error) {
	var out DeviceWithDetail
	var deviceCreated, deviceUpdated, detailCreated, detailUpdated time.Time
	err := rows.Scan(
		&out.Device.ID, &out.Device.CategoryID, &out.Device.ItemDetailID,
		&out.Device.DeviceType, &out.Device.Features, &out.Device.TotalAmount,
		&deviceCreated, &deviceUpdated,
		&out.Detail.ID, &out.Detail.Name, &out.Detail.Vendor, &out.Detail.Origin,
		&out.Detail.UnitPrice, &out.Detail.VATRate, &out.Detail.Quantity,
		&out.Detail.Description, &out.Detail.Note, &out.Detail.Environment,
		&out.Detail.FileKey, &detailCreated, &detailUpdated,
		&out.CategoryName,
	)
	if err != nil {
		return DeviceWithDetail{}, err
	}
	out.Device.CreatedAt = deviceCreated.Format(time.RFC3339)
	out.Device.UpdatedAt = deviceUpdated.Format(time.RFC3339)
	out.Detail.CreatedAt = detailCreated.Format(time.RFC3339)
	out.Detail.UpdatedAt = detailUpdated.Format(time.RFC3339)
	return out, nil
}

func scanLicenseWithDetail(rows pgx.Rows) (LicenseWithDetail, error) {
	var out LicenseWithDetail
	var licenseCreated, licenseUpdated, detailCreated, detailUpdated time.Time
	err := rows.Scan(
		&out.License.ID, &out.License.CategoryID, &out.License.ItemDetailID,
		&out.License.CostServerID, &out.License.Features,
		&out.License.UserLimit, &out.License.UserMin, &out.License.UserMax,
		&out.License.TotalAmount, &licenseCreated, &licenseUpdated,
		&out.Detail.ID, &out.Detail.Name, &out.Detail.Vendor, &out.Detail.Origin,
		&out.Detail.UnitPrice, &out.Detail.VATRate, &out.Detail.Quantity,
		&out.Detail.Description, &out.Detail.Note, &out.Detail.Environment,
		&out.Detail.FileKey, &detailCreated, &detailUpdated,
		&out.CategoryName,
	)
	if err != nil {
		return LicenseWithDetail{}, err
	}
	out.License.CreatedAt = licenseCreated.Format(time.RFC3339)
	out.License.UpdatedAt = licenseUpdated.Format(time.RFC3339)
	out.Detail.CreatedAt = detailCreated.Format(time.RFC3339)
	out.Detail.UpdatedAt = detailUpdated.Format(time.RFC3339)
	return out, nil
}

// ListDevicesForSelection returns the devices of a category whose item detail
// is in the given environment-scoped ID set, hydrated for pricing.
func (r *Repo) ListDevicesForSelection(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID) ([]DeviceWithDetail, error) {
	query := `
		SELECT ` + deviceSelectionColumns + `
		FROM devices d
		JOIN item_details i ON i.id = d.item_detail_id
		JOIN categories c ON c.id = d.category_id
		WHERE d.category_id = $1 AND d.item_detail_id = ANY($2)
		ORDER BY i.name`

	rows, err := r.pool.Query(ctx, query, categoryID, itemDetailIDs)
	if err != nil {
		return nil, fmt.Errorf("list devices for selection: %w", err)
	}
	defer rows.Close()

	devices := make([]DeviceWithDetail, 0)
	for rows.Next() {
		device, err := scanDeviceWithDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device for selection: %w", err)
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

func (r *Repo) listLicensesWhere(ctx context.Context, condition string, args ...interface{}) ([]LicenseWithDetail, error) {
	query := `
		SELECT ` + licenseSelectionColumns + `
		FROM licenses l
		JOIN item_details i ON i.id = l.item_detail_id
		JOIN categories c ON c.id = l.category_id
		WHERE ` + condition + `
		ORDER BY i.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list licenses for selection: %w", err)
	}
	defer rows.Close()

	licenses := make([]LicenseWithDetail, 0)
	for rows.Next() {
		license, err := scanLicenseWithDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan license for selection: %w", err)
		}
		licenses = append(licenses, license)
	}
	return licenses, rows.Err()
}

// ListLicensesByFeatures returns licenses covering any of the requested
// feature names. The && operator matches on array overlap, mirroring how a
// license that bundles several features satisfies a request for one of them.
func (r *Repo) ListLicensesByFeatures(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, featureNames []string) ([]LicenseWithDetail, error) {
	return r.listLicensesWhere(ctx,
		`l.category_id = $1 AND l.item_detail_id = ANY($2) AND l.features && $3`,
		categoryID, itemDetailIDs, featureNames)
}

// ListLicensesByUserCount returns cloud licenses whose inclusive
// [user_min, user_max] range contains the requested user count.
func (r *Repo) ListLicensesByUserCount(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, userCount int) ([]LicenseWithDetail, error) {
	return r.listLicensesWhere(ctx,
		`l.category_id = $1 AND l.item_detail_id = ANY($2) AND l.user_min <= $3 AND l.user_max >= $3`,
		categoryID, itemDetailIDs, userCount)
}

// ListLicensesByExactLimit returns on-premise licenses whose user_limit
// equals the given user count exactly.
func (r *Repo) ListLicensesByExactLimit(ctx context.Context, categoryID uuid.UUID, itemDetailIDs []uuid.UUID, userCount int) ([]LicenseWithDetail, error) {
	return r.listLicensesWhere(ctx,
		`l.category_id = $1 AND l.item_detail_id = ANY($2) AND l.user_limit = $3`,
		categoryID, itemDetailIDs, userCount)
}

// ListCostServersByIDs returns the cost servers with the given IDs.
func (r *Repo) ListCostServersByIDs(ctx context.Context, ids []uuid.UUID) ([]CostServer, error) {
	query := `SELECT ` + costServerColumns + ` FROM cost_servers WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list cost servers by ids: %w", err)
	}
	defer rows.Close()

	servers := make([]CostServer, 0)
	for rows.Next() {
		server, err := scanCostServer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cost server: %w", err)
		}
		servers = append(servers, server)
	}
	return servers, rows.Err()
}
