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
	ErrOrderNotFound = errors.New("order not found")
)

// OrderFilter describes a normalized order listing query. UserID scopes the
// listing to an owning principal; DateFrom/DateTo are inclusive bounds on
// created_at, either end optional.
type OrderFilter struct {
	UserID   *uuid.UUID
	Status   domain.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Limit    int
	Skip     int
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, int, error)
	// SoftDelete is not routed over HTTP; the tombstone is modeled for
	// symmetry with products.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_ref, user_id, customer_name, customer_phone, customer_type,
		customer_address, customer_preferred_time, customer_payment, customer_notes,
		subtotal, message, source, status, is_deleted, deleted_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	order := &domain.Order{}
	var userID uuid.NullUUID
	var deletedAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.OrderRef,
		&userID,
		&order.Customer.Name,
		&order.Customer.Phone,
		&order.Customer.Type,
		&order.Customer.Address,
		&order.Customer.PreferredTime,
		&order.Customer.Payment,
		&order.Customer.Notes,
		&order.Subtotal,
		&order.Message,
		&order.Source,
		&order.Status,
		&order.IsDeleted.Status,
		&deletedAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		id := userID.UUID
		order.UserID = &id
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		order.IsDeleted.DeletedAt = &t
	}
	return order, nil
}

// Create inserts a new order and its line items in a single transaction.
// Line items are stored as the frozen copies the caller supplied.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, order_ref, user_id, customer_name, customer_phone, customer_type,
			customer_address, customer_preferred_time, customer_payment, customer_notes,
			subtotal, message, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.OrderRef,
		order.UserID,
		order.Customer.Name,
		order.Customer.Phone,
		order.Customer.Type,
		order.Customer.Address,
		order.Customer.PreferredTime,
		order.Customer.Payment,
		order.Customer.Notes,
		order.Subtotal,
		order.Message,
		order.Source,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, name, unit, qty, price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i, item := range order.Items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			order.ID,
			i,
			item.ProductID,
			item.Name,
			item.Unit,
			item.Qty,
			item.Price,
			item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// FindByID retrieves an order with its line items, excluding soft-deleted
// records
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE id = $1 AND is_deleted = FALSE
	`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateStatus sets a new status on an order. The transition policy lives in
// the service layer; the repository applies whatever status it is handed.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING %s
	`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, status, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// SoftDelete sets the tombstone on an order
func (r *orderRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE orders
		SET is_deleted = TRUE, deleted_at = $2, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// List retrieves orders matching the filter, newest first, with their line
// items. Search matches order_ref, customer name and customer phone.
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]*domain.Order, int, error) {
	whereClauses := []string{"is_deleted = FALSE"}
	args := []any{}
	argIndex := 1

	addWhere := func(clause string, value any) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filter.UserID != nil {
		addWhere("user_id = $%d", *filter.UserID)
	}
	if filter.Status != "" {
		addWhere("status = $%d", filter.Status)
	}
	if filter.DateFrom != nil {
		addWhere("created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addWhere("created_at <= $%d", *filter.DateTo)
	}
	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(order_ref ILIKE $%d OR customer_name ILIKE $%d OR customer_phone ILIKE $%d)",
			argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	// Count total matching orders
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, 0, err
		}
	}

	return orders, total, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT product_id, name, unit, qty, price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		var productID uuid.NullUUID

		err := rows.Scan(
			&productID,
			&item.Name,
			&item.Unit,
			&item.Qty,
			&item.Price,
			&item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		if productID.Valid {
			id := productID.UUID
			item.ProductID = &id
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	order.Items = items
	return nil
}
