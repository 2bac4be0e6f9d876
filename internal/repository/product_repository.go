package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"kitchen-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductStatusFilter narrows an admin listing to active or inactive items
type ProductStatusFilter string

const (
	ProductStatusAny      ProductStatusFilter = ""
	ProductStatusActive   ProductStatusFilter = "active"
	ProductStatusInactive ProductStatusFilter = "inactive"
)

// ProductFilter describes a normalized product listing query
type ProductFilter struct {
	Search string
	Status ProductStatusFilter
	Limit  int
	Skip   int
}

// ProductUpdate carries a partial update; nil fields are left unchanged
type ProductUpdate struct {
	Name        *string
	Unit        *string
	Price       *float64
	Description *string
	ImageURL    *string
	IsActive    *bool
}

// ProductRepository defines the interface for product data access.
// Every read and mutation except FindByIDAny shares the same
// tombstone-exclusion predicate, so a soft-deleted product is
// indistinguishable from an absent one.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id uuid.UUID, update ProductUpdate) (*domain.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// FindByIDAny bypasses the tombstone filter. Not exposed over HTTP,
	// kept for data integrity checks.
	FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListPublic(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
	ListAdmin(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, unit, price, description, image_url, is_active, is_deleted, deleted_at, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var deletedAt sql.NullTime

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Unit,
		&product.Price,
		&product.Description,
		&product.ImageURL,
		&product.IsActive,
		&product.IsDeleted.Status,
		&deletedAt,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		t := deletedAt.Time
		product.IsDeleted.DeletedAt = &t
	}
	return product, nil
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, unit, price, description, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Unit,
		product.Price,
		product.Description,
		product.ImageURL,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update applies a partial update to a product that is not soft-deleted.
// Only the supplied fields change.
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, update ProductUpdate) (*domain.Product, error) {
	setClauses := []string{}
	args := []any{id}
	argIndex := 2

	addSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Unit != nil {
		addSet("unit", *update.Unit)
	}
	if update.Price != nil {
		addSet("price", *update.Price)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.ImageURL != nil {
		addSet("image_url", *update.ImageURL)
	}
	if update.IsActive != nil {
		addSet("is_active", *update.IsActive)
	}

	if len(setClauses) == 0 {
		// Nothing to change; still verify the product exists
		return r.FindByID(ctx, id)
	}

	addSet("updated_at", time.Now())

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING %s
	`, strings.Join(setClauses, ", "), productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// SoftDelete sets the tombstone on a product. A second call surfaces
// ErrProductNotFound because lookup excludes tombstoned records.
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE products
		SET is_deleted = TRUE, deleted_at = $2, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID, excluding soft-deleted records
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1 AND is_deleted = FALSE
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByIDAny retrieves a product by ID regardless of its tombstone
func (r *productRepository) FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListPublic retrieves active, non-deleted products with search and pagination
func (r *productRepository) ListPublic(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	filter.Status = ProductStatusActive
	return r.list(ctx, filter)
}

// ListAdmin retrieves non-deleted products with an optional active/inactive
// narrowing. Soft-deleted items are not reachable through this listing.
func (r *productRepository) ListAdmin(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	return r.list(ctx, filter)
}

func (r *productRepository) list(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	whereClauses := []string{"is_deleted = FALSE"}
	args := []any{}
	argIndex := 1

	switch filter.Status {
	case ProductStatusActive:
		whereClauses = append(whereClauses, "is_active = TRUE")
	case ProductStatusInactive:
		whereClauses = append(whereClauses, "is_active = FALSE")
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses,
			fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	// Count total matching products
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}
