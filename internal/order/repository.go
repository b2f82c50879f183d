package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	ListByPhone(ctx context.Context, phone string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, version int64, status Status, payment PaymentStatus) (*Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const orderColumns = `id, number, full_name, phone, email, address, city, postal_code, notes,
         subtotal, shipping, total, payment_method, transaction_ref, payment_status, order_status,
         version, created_at, updated_at`

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, number, full_name, phone, email, address, city, postal_code, notes,
             subtotal, shipping, total, payment_method, transaction_ref, payment_status, order_status,
             version, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		o.ID, o.Number, o.Customer.FullName, o.Customer.Phone, o.Customer.Email,
		o.Customer.Address, o.Customer.City, o.Customer.PostalCode, o.Customer.Notes,
		o.Subtotal, o.Shipping, o.Total, string(o.PaymentMethod), o.TransactionRef,
		string(o.PaymentStatus), string(o.Status), o.Version, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, l := range o.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, title, unit_price, quantity, image_ref)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), o.ID, l.ProductID, l.Title, l.UnitPrice, l.Quantity, l.ImageRef,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
}

func (r *repo) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE number = $1`, number)
}

func (r *repo) getOne(ctx context.Context, query string, arg any) (*Order, error) {
	var o Order
	err := scanOrder(r.db.QueryRowContext(ctx, query, arg), &o)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repo) loadLines(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, title, unit_price, quantity, image_ref
         FROM order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Title, &l.UnitPrice, &l.Quantity, &l.ImageRef); err != nil {
			return fmt.Errorf("scan order_item: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

func (r *repo) ListByPhone(ctx context.Context, phone string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE phone = $1 ORDER BY created_at DESC`,
		phone,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus applies a compare-and-swap on the version column so two
// administrators editing the same order cannot silently overwrite each other.
func (r *repo) UpdateStatus(ctx context.Context, orderID string, version int64, status Status, payment PaymentStatus) (*Order, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
         SET order_status = $3, payment_status = $4, version = version + 1, updated_at = NOW()
         WHERE id = $1 AND version = $2`,
		orderID, version, string(status), string(payment),
	)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		existing, err := r.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}

	return r.GetByID(ctx, orderID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, o *Order) error {
	var method, payment, status string
	err := row.Scan(
		&o.ID, &o.Number, &o.Customer.FullName, &o.Customer.Phone, &o.Customer.Email,
		&o.Customer.Address, &o.Customer.City, &o.Customer.PostalCode, &o.Customer.Notes,
		&o.Subtotal, &o.Shipping, &o.Total, &method, &o.TransactionRef,
		&payment, &status, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	o.PaymentMethod = PaymentMethod(method)
	o.PaymentStatus = PaymentStatus(payment)
	o.Status = Status(status)
	return nil
}
