package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotation_backend/platform/apperr"
)

// ── Devices ──────────────────────────────────────────────────────────────────

const deviceColumns = `id, category_id, item_detail_id, device_type, features, total_amount, created_at, updated_at`

func scanDevice(row pgx.Row) (Device, error) {
	var device Device
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&device.ID, &device.CategoryID, &device.ItemDetailID,
		&device.DeviceType, &device.Features, &device.TotalAmount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return Device{}, err
	}
	device.CreatedAt = createdAt.Format(time.RFC3339)
	device.UpdatedAt = updatedAt.Format(time.RFC3339)
	return device, nil
}

// CreateDevice creates a device.
func (r *Repo) CreateDevice(ctx context.Context, params CreateDeviceParams) (Device, error) {
	query := `
		INSERT INTO devices (category_id, item_detail_id, device_type, features, total_amount)
		VALUES ($1, $2, $3, COALESCE($4, '{}'::text[]), $5)
		RETURNING ` + deviceColumns

	device, err := scanDevice(r.pool.QueryRow(ctx, query,
		params.CategoryID, params.ItemDetailID, params.DeviceType,
		params.Features, params.TotalAmount,
	))
	if err != nil {
		return Device{}, fmt.Errorf("create device: %w", err)
	}
	return device, nil
}

// GetDeviceByID retrieves a device by ID.
func (r *Repo) GetDeviceByID(ctx context.Context, id uuid.UUID) (Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`

	device, err := scanDevice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Device{}, apperr.NotFound(deviceNotFoundMessage)
		}
		return Device{}, fmt.Errorf("get device by id: %w", err)
	}
	return device, nil
}

// ListDevices lists devices, optionally filtered by category.
func (r *Repo) ListDevices(ctx context.Context, categoryID *uuid.UUID) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices`
	args := []interface{}{}
	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	devices := make([]Device, 0)
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

// UpdateDevice updates a device. Features replace the stored set when
// non-nil; partial merges of the array are not supported.
func (r *Repo) UpdateDevice(ctx context.Context, params UpdateDeviceParams) (Device, error) {
	query := `
		UPDATE devices
		SET category_id = COALESCE($2, category_id),
			item_detail_id = COALESCE($3, item_detail_id),
			device_type = COALESCE($4, device_type),
			features = COALESCE($5, features),
			total_amount = COALESCE($6, total_amount),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + deviceColumns

	device, err := scanDevice(r.pool.QueryRow(ctx, query,
		params.ID, params.CategoryID, params.ItemDetailID,
		params.DeviceType, params.Features, params.TotalAmount,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Device{}, apperr.NotFound(deviceNotFoundMessage)
		}
		return Device{}, fmt.Errorf("update device: %w", err)
	}
	return device, nil
}

// DeleteDevice deletes a device.
func (r *Repo) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(deviceNotFoundMessage)
	}
	return nil
}

// ── Licenses ─────────────────────────────────────────────────────────────────

const licenseColumns = `id, category_id, item_detail_id, cost_server_id, features, user_limit, user_min, user_max, total_amount, created_at, updated_at`

func scanLicense(row pgx.Row) (License, error) {
	var license License
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&license.ID, &license.CategoryID, &license.ItemDetailID,
		&license.CostServerID, &license.Features,
		&license.UserLimit, &license.UserMin, &license.UserMax,
		&license.TotalAmount, &createdAt, &updatedAt,
	)
	if err != nil {
		return License{}, err
	}
	license.CreatedAt = createdAt.Format(time.RFC3339)
	license.UpdatedAt = updatedAt.Format(time.RFC3339)
	return license, nil
}

// CreateLicense creates a license.
func (r *Repo) CreateLicense(ctx context.Context, params CreateLicenseParams) (License, error) {
	query := `
		INSERT INTO licenses (category_id, item_detail_id, cost_server_id, features, user_limit, user_min, user_max, total_amount)
		VALUES ($1, $2, $3, COALESCE($4, '{}'::text[]), $5, $6, $7, $8)
		RETURNING ` + licenseColumns

	license, err := scanLicense(r.pool.QueryRow(ctx, query,
		params.CategoryID, params.ItemDetailID, params.CostServerID,
		params.Features, params.UserLimit, params.UserMin, params.UserMax,
		params.TotalAmount,
	))
	if err != nil {
		return License{}, fmt.Errorf("create license: %w", err)
	}
	return license, nil
}

// GetLicenseByID retrieves a license by ID.
func (r *Repo) GetLicenseByID(ctx context.Context, id uuid.UUID) (License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE id = $1`

	license, err := scanLicense(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return License{}, apperr.NotFound(licenseNotFoundMessage)
		}
		return License{}, fmt.Errorf("get license by id: %w", err)
	}
	return license, nil
}

// ListLicenses lists licenses, optionally filtered by category.
func (r *Repo) ListLicenses(ctx context.Context, categoryID *uuid.UUID) ([]License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses`
	args := []interface{}{}
	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	licenses := make([]License, 0)
	for rows.Next() {
		license, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		licenses = append(licenses, license)
	}
	return licenses, rows.Err()
}

// UpdateLicense updates a license. The user-limit columns are written
// as a group so switching between the exact-limit and range shapes clears
// the fields the new shape does not use.
func (r *Repo) UpdateLicense(ctx context.Context, params UpdateLicenseParams) (License, error) {
	query := `
		UPDATE licenses
		SET category_id = COALESCE($2, category_id),
			item_detail_id = COALESCE($3, item_detail_id),
			cost_server_id = COALESCE($4, cost_server_id),
			features = COALESCE($5, features),
			user_limit = $6,
			user_min = $7,
			user_max = $8,
			total_amount = COALESCE($9, total_amount),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + licenseColumns

	license, err := scanLicense(r.pool.QueryRow(ctx, query,
		params.ID, params.CategoryID, params.ItemDetailID, params.CostServerID,
		params.Features, params.UserLimit, params.UserMin, params.UserMax,
		params.TotalAmount,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return License{}, apperr.NotFound(licenseNotFoundMessage)
		}
		return License{}, fmt.Errorf("update license: %w", err)
	}
	return license, nil
}

// DeleteLicense deletes a license.
func (r *Repo) DeleteLicense(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM licenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete license: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(licenseNotFoundMessage)
	}
	return nil
}

// ── Cost servers ─────────────────────────────────────────────────────────────

const costServerColumns = `id, name, unit_price, vat_rate, quantity, total_amount, description, file_key, created_at, updated_at`

func scanCostServer(row pgx.Row) (CostServer, error) {
	var server CostServer
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&server.ID, &server.Name, &server.UnitPrice, &server.VATRate,
		&server.Quantity, &server.TotalAmount, &server.Description,
		&server.FileKey, &createdAt, &updatedAt,
	)
	if err != nil {
		return CostServer{}, err
	}
	server.CreatedAt = createdAt.Format(time.RFC3339)
	server.UpdatedAt = updatedAt.Format(time.RFC3339)
	return server, nil
}

// CreateCostServer creates a cost server.
func (r *Repo) CreateCostServer(ctx context.Context, params CreateCostServerParams) (CostServer, error) {
	query := `
		INSERT INTO cost_servers (name, unit_price, vat_rate, quantity, total_amount, description, file_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + costServerColumns

	server, err := scanCostServer(r.pool.QueryRow(ctx, query,
		params.Name, params.UnitPrice, params.VATRate, params.Quantity,
		params.TotalAmount, params.Description, params.FileKey,
	))
	if err != nil {
		return CostServer{}, fmt.Errorf("create cost server: %w", err)
	}
	return server, nil
}

// GetCostServerByID retrieves a cost server by ID.
func (r *Repo) GetCostServerByID(ctx context.Context, id uuid.UUID) (CostServer, error) {
	query := `SELECT ` + costServerColumns + ` FROM cost_servers WHERE id = $1`

	server, err := scanCostServer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CostServer{}, apperr.NotFound(costServerNotFoundMessage)
		}
		return CostServer{}, fmt.Errorf("get cost server by id: %w", err)
	}
	return server, nil
}

// ListCostServers lists all cost servers.
func (r *Repo) ListCostServers(ctx context.Context) ([]CostServer, error) {
	query := `SELECT ` + costServerColumns + ` FROM cost_servers ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cost servers: %w", err)
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

// UpdateCostServer updates a cost server.
func (r *Repo) UpdateCostServer(ctx context.Context, params UpdateCostServerParams) (CostServer, error) {
	query := `
		UPDATE cost_servers
		SET name = COALESCE($2, name),
			unit_price = COALESCE($3, unit_price),
			vat_rate = COALESCE($4, vat_rate),
			quantity = COALESCE($5, quantity),
			total_amount = COALESCE($6, total_amount),
			description = COALESCE($7, description),
			file_key = COALESCE($8, file_key),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + costServerColumns

	server, err := scanCostServer(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.UnitPrice, params.VATRate,
		params.Quantity, params.TotalAmount, params.Description, params.FileKey,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CostServer{}, apperr.NotFound(costServerNotFoundMessage)
		}
		return CostServer{}, fmt.Errorf("update cost server: %w", err)
	}
	return server, nil
}

// DeleteCostServer deletes a cost server.
func (r *Repo) DeleteCostServer(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM cost_servers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cost server: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(costServerNotFoundMessage)
	}
	return nil
}
