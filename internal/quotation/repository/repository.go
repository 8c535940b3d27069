// Package repository persists quotation snapshots: write-once audit records
// of every computed quotation. Snapshots are never updated and never re-read
// by the pricing path.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/apperr"
)

const quotationNotFoundMessage = "quotation not found"

// Snapshot is a persisted quotation: the request parameters plus every
// resolved line and total, denormalized so catalog edits never change history.
type Snapshot struct {
	ID               uuid.UUID
	DeploymentType   string
	CategoryID       uuid.UUID
	CategoryName     string
	IconKey          string
	UserCount        *int
	PointCount       *int
	CameraCount      *int
	SelectedFeatures []transport.SelectedFeature
	Devices          []transport.LineItem
	Licenses         []transport.LineItem
	CostServers      []transport.LineItem
	Summary          transport.Summary
	CreatedAt        string
}

// Repository defines quotation snapshot persistence.
type Repository interface {
	Create(ctx context.Context, snapshot Snapshot) (Snapshot, error)
	GetByID(ctx context.Context, id uuid.UUID) (Snapshot, error)
	List(ctx context.Context, page, pageSize int) ([]Snapshot, int, error)
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quotation snapshot repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create persists a snapshot. Write-once: there is no update path.
func (r *Repo) Create(ctx context.Context, snapshot Snapshot) (Snapshot, error) {
	features, err := json.Marshal(snapshot.SelectedFeatures)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal selected features: %w", err)
	}
	devices, err := json.Marshal(snapshot.Devices)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal device lines: %w", err)
	}
	licenses, err := json.Marshal(snapshot.Licenses)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal license lines: %w", err)
	}
	servers, err := json.Marshal(snapshot.CostServers)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal cost server lines: %w", err)
	}

	query := `
		INSERT INTO quotation_snapshots (
			deployment_type, category_id, category_name, icon_key,
			user_count, point_count, camera_count, selected_features,
			devices, licenses, cost_servers,
			device_total, license_total, cost_server_total,
			deployment_cost, grand_total, pre_tax_subtotal, vat_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at`

	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		snapshot.DeploymentType, snapshot.CategoryID, snapshot.CategoryName, snapshot.IconKey,
		snapshot.UserCount, snapshot.PointCount, snapshot.CameraCount, features,
		devices, licenses, servers,
		snapshot.Summary.DeviceTotal, snapshot.Summary.LicenseTotal, snapshot.Summary.CostServerTotal,
		snapshot.Summary.DeploymentCost, snapshot.Summary.GrandTotal,
		snapshot.Summary.PreTaxSubtotal, snapshot.Summary.VATAmount,
	).Scan(&snapshot.ID, &createdAt); err != nil {
		return Snapshot{}, fmt.Errorf("create quotation snapshot: %w", err)
	}

	snapshot.CreatedAt = createdAt.Format(time.RFC3339)
	return snapshot, nil
}

const snapshotColumns = `
	id, deployment_type, category_id, category_name, icon_key,
	user_count, point_count, camera_count, selected_features,
	devices, licenses, cost_servers,
	device_total, license_total, cost_server_total,
	deployment_cost, grand_total, pre_tax_subtotal, vat_amount, created_at`

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var snapshot Snapshot
	var features, devices, licenses, servers []byte
	var createdAt time.Time

	err := row.Scan(
		&snapshot.ID, &snapshot.DeploymentType, &snapshot.CategoryID,
		&snapshot.CategoryName, &snapshot.IconKey,
		&snapshot.UserCount, &snapshot.PointCount, &snapshot.CameraCount, &features,
		&devices, &licenses, &servers,
		&snapshot.Summary.DeviceTotal, &snapshot.Summary.LicenseTotal,
		&snapshot.Summary.CostServerTotal, &snapshot.Summary.DeploymentCost,
		&snapshot.Summary.GrandTotal, &snapshot.Summary.PreTaxSubtotal,
		&snapshot.Summary.VATAmount, &createdAt,
	)
	if err != nil {
		return Snapshot{}, err
	}

	if err := json.Unmarshal(features, &snapshot.SelectedFeatures); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal selected features: %w", err)
	}
	if err := json.Unmarshal(devices, &snapshot.Devices); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal device lines: %w", err)
	}
	if err := json.Unmarshal(licenses, &snapshot.Licenses); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal license lines: %w", err)
	}
	if err := json.Unmarshal(servers, &snapshot.CostServers); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal cost server lines: %w", err)
	}

	snapshot.CreatedAt = createdAt.Format(time.RFC3339)
	return snapshot, nil
}

// GetByID retrieves a snapshot by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM quotation_snapshots WHERE id = $1`

	snapshot, err := scanSnapshot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, apperr.NotFound(quotationNotFoundMessage)
		}
		return Snapshot{}, fmt.Errorf("get quotation snapshot: %w", err)
	}
	return snapshot, nil
}

// List retrieves a page of snapshots, newest first, with the total count.
func (r *Repo) List(ctx context.Context, page, pageSize int) ([]Snapshot, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM quotation_snapshots`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotation snapshots: %w", err)
	}

	query := `SELECT ` + snapshotColumns + `
		FROM quotation_snapshots
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotation snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quotation snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, total, rows.Err()
}
