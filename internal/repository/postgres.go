package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL.
type PostgresCustomerRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository.
func NewPostgresCustomerRepository(db *sql.DB, logger *logging.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db, logger: logger}
}

// GetByPhone looks a customer up by exact phone match.
func (r *PostgresCustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	query := `
		SELECT customer_id, name, phone, location, created_at, updated_at
		FROM customers
		WHERE phone = $1
	`

	var c models.Customer
	var location sql.NullString

	err := r.db.QueryRowContext(ctx, query, phone).Scan(
		&c.ID, &c.Name, &c.Phone, &location, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch customer", logging.Fields{
			"phone": phone,
			"error": err.Error(),
		})
		return nil, err
	}

	c.Location = location.String
	return &c, nil
}

// Create inserts a new customer row.
func (r *PostgresCustomerRepository) Create(ctx context.Context, name, phone, location string) (*models.Customer, error) {
	now := time.Now()
	c := &models.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO customers (customer_id, name, phone, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Phone, c.Location, c.CreatedAt, c.UpdatedAt); err != nil {
		r.logger.Error("Failed to create customer", logging.Fields{
			"phone": phone,
			"error": err.Error(),
		})
		return nil, err
	}

	r.logger.Info("Customer created", logging.Fields{"customer_id": c.ID})
	return c, nil
}

// Update refreshes name and location on an existing customer.
func (r *PostgresCustomerRepository) Update(ctx context.Context, id, name, location string) error {
	query := `
		UPDATE customers
		SET name = $2, location = $3, updated_at = $4
		WHERE customer_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, name, location, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *logging.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, logger: logger}
}

// NextOrderNumber draws the next value from the order_numbers sequence.
// The sequence is what makes concurrent checkouts safe; deriving the
// number from a row count would let two submissions collide.
func (r *PostgresOrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('order_numbers')`).Scan(&n); err != nil {
		r.logger.Error("Failed to fetch next order number", logging.Fields{"error": err.Error()})
		return 0, err
	}
	return n, nil
}

// Create inserts a fully-built order. Line items are stored denormalized
// as JSON so order history survives later catalog edits.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			order_number, customer_id, fulfillment_type, payment_method,
			order_items, subtotal, delivery_fee, total_amount,
			delivery_location, payment_status, order_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.OrderNumber,
		order.CustomerID,
		order.FulfillmentType,
		order.PaymentMethod,
		itemsJSON,
		order.Subtotal,
		order.DeliveryFee,
		order.Total,
		order.DeliveryLocation,
		order.PaymentStatus,
		order.OrderStatus,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", logging.Fields{
			"order_number": order.OrderNumber,
			"customer_id":  order.CustomerID,
			"error":        err.Error(),
		})
		return err
	}

	r.logger.Info("Order created", logging.Fields{
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})
	return nil
}

// GetByCustomerID returns a customer's orders newest-first.
func (r *PostgresOrderRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error) {
	query := `
		SELECT order_number, customer_id, fulfillment_type, payment_method,
		       order_items, subtotal, delivery_fee, total_amount,
		       delivery_location, payment_status, order_status, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		var o models.Order
		var itemsJSON []byte
		var location sql.NullString

		err := rows.Scan(
			&o.OrderNumber,
			&o.CustomerID,
			&o.FulfillmentType,
			&o.PaymentMethod,
			&itemsJSON,
			&o.Subtotal,
			&o.DeliveryFee,
			&o.Total,
			&location,
			&o.PaymentStatus,
			&o.OrderStatus,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, err
		}
		o.DeliveryLocation = location.String
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}
