package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quotation_backend/platform/apperr"
)

const (
	categoryNotFoundMessage   = "category not found"
	itemDetailNotFoundMessage = "item detail not found"
	deviceNotFoundMessage     = "device not found"
	licenseNotFoundMessage    = "license not found"
	costServerNotFoundMessage = "cost server not found"
)

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ── Categories ───────────────────────────────────────────────────────────────

// CreateCategory creates a category.
func (r *Repo) CreateCategory(ctx context.Context, params CreateCategoryParams) (Category, error) {
	query := `
		INSERT INTO categories (name, icon_key)
		VALUES ($1, $2)
		RETURNING id, name, icon_key, created_at, updated_at`

	var cat Category
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, params.Name, params.IconKey).Scan(
		&cat.ID, &cat.Name, &cat.IconKey, &createdAt, &updatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return Category{}, apperr.Conflict("category name already exists")
		}
		return Category{}, fmt.Errorf("create category: %w", err)
	}

	cat.CreatedAt = createdAt.Format(time.RFC3339)
	cat.UpdatedAt = updatedAt.Format(time.RFC3339)
	return cat, nil
}

// GetCategoryByID retrieves a category by ID.
func (r *Repo) GetCategoryByID(ctx context.Context, id uuid.UUID) (Category, error) {
	query := `
		SELECT id, name, icon_key, created_at, updated_at
		FROM categories
		WHERE id = $1`

	var cat Category
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&cat.ID, &cat.Name, &cat.IconKey, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("get category by id: %w", err)
	}

	cat.CreatedAt = createdAt.Format(time.RFC3339)
	cat.UpdatedAt = updatedAt.Format(time.RFC3339)
	return cat, nil
}

// ListCategories lists all categories ordered by name.
func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, icon_key, created_at, updated_at
		FROM categories
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var cat Category
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.IconKey, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.CreatedAt = createdAt.Format(time.RFC3339)
		cat.UpdatedAt = updatedAt.Format(time.RFC3339)
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// UpdateCategory updates a category.
func (r *Repo) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
			icon_key = COALESCE($3, icon_key),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, icon_key, created_at, updated_at`

	var cat Category
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, params.ID, params.Name, params.IconKey).Scan(
		&cat.ID, &cat.Name, &cat.IconKey, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("update category: %w", err)
	}

	cat.CreatedAt = createdAt.Format(time.RFC3339)
	cat.UpdatedAt = updatedAt.Format(time.RFC3339)
	return cat, nil
}

// DeleteCategory deletes a category.
func (r *Repo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(categoryNotFoundMessage)
	}
	return nil
}

// ── Item details ─────────────────────────────────────────────────────────────

const itemDetailColumns = `id, name, vendor, origin, unit_price, vat_rate, quantity, description, note, environment, file_key, created_at, updated_at`

func scanItemDetail(row pgx.Row) (ItemDetail, error) {
	var detail ItemDetail
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&detail.ID, &detail.Name, &detail.Vendor, &detail.Origin,
		&detail.UnitPrice, &detail.VATRate, &detail.Quantity,
		&detail.Description, &detail.Note, &detail.Environment,
		&detail.FileKey, &createdAt, &updatedAt,
	)
	if err != nil {
		return ItemDetail{}, err
	}
	detail.CreatedAt = createdAt.Format(time.RFC3339)
	detail.UpdatedAt = updatedAt.Format(time.RFC3339)
	return detail, nil
}

// CreateItemDetail creates an item detail.
func (r *Repo) CreateItemDetail(ctx context.Context, params CreateItemDetailParams) (ItemDetail, error) {
	query := `
		INSERT INTO item_details (name, vendor, origin, unit_price, vat_rate, quantity, description, note, environment, file_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + itemDetailColumns

	detail, err := scanItemDetail(r.pool.QueryRow(ctx, query,
		params.Name, params.Vendor, params.Origin, params.UnitPrice,
		params.VATRate, params.Quantity, params.Description, params.Note,
		params.Environment, params.FileKey,
	))
	if err != nil {
		return ItemDetail{}, fmt.Errorf("create item detail: %w", err)
	}
	return detail, nil
}

// GetItemDetailByID retrieves an item detail by ID.
func (r *Repo) GetItemDetailByID(ctx context.Context, id uuid.UUID) (ItemDetail, error) {
	query := `SELECT ` + itemDetailColumns + ` FROM item_details WHERE id = $1`

	detail, err := scanItemDetail(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemDetail{}, apperr.NotFound(itemDetailNotFoundMessage)
		}
		return ItemDetail{}, fmt.Errorf("get item detail by id: %w", err)
	}
	return detail, nil
}

// ListItemDetails lists item details, optionally filtered by environment.
func (r *Repo) ListItemDetails(ctx context.Context, env *Environment) ([]ItemDetail, error) {
	query := `SELECT ` + itemDetailColumns + ` FROM item_details`
	args := []interface{}{}
	if env != nil {
		query += ` WHERE environment = $1`
		args = append(args, *env)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item details: %w", err)
	}
	defer rows.Close()

	details := make([]ItemDetail, 0)
	for rows.Next() {
		detail, err := scanItemDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item detail: %w", err)
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}

// UpdateItemDetail updates an item detail.
func (r *Repo) UpdateItemDetail(ctx context.Context, params UpdateItemDetailParams) (ItemDetail, error) {
	query := `
		UPDATE item_details
		SET name = COALESCE($2, name),
			vendor = COALESCE($3, vendor),
			origin = COALESCE($4, origin),
			unit_price = COALESCE($5, unit_price),
			vat_rate = COALESCE($6, vat_rate),
			quantity = COALESCE($7, quantity),
			description = COALESCE($8, description),
			note = COALESCE($9, note),
			environment = COALESCE($10, environment),
			file_key = COALESCE($11, file_key),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + itemDetailColumns

	detail, err := scanItemDetail(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Vendor, params.Origin,
		params.UnitPrice, params.VATRate, params.Quantity,
		params.Description, params.Note, params.Environment, params.FileKey,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemDetail{}, apperr.NotFound(itemDetailNotFoundMessage)
		}
		return ItemDetail{}, fmt.Errorf("update item detail: %w", err)
	}
	return detail, nil
}

// DeleteItemDetail deletes an item detail.
func (r *Repo) DeleteItemDetail(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM item_details WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item detail: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(itemDetailNotFoundMessage)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// 23505 is the Postgres unique_violation code; pgconn errors carry it
	// in their message via SQLSTATE.
	return err != nil && strings.Contains(err.Error(), "23505")
}
