// Order model and repository for the pedidos table.  Writes verify that
// the referenced product exists before touching the row.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Order mirrors the 'pedidos' table.
type Order struct {
	ID        uint64    `json:"id"`
	ProductID uint64    `json:"producto_id"`
	Quantity  int       `json:"cantidad"`
	OrderDate time.Time `json:"fecha_pedido"`
}

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// checkProduct verifies the referenced product exists.  A miss yields a
// ValidationError so handlers answer 400, not 404.  Check and write are
// separate round trips, not a transaction.
func (r *OrderRepo) checkProduct(ctx context.Context, productID uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM productos WHERE id = ?", productID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return Invalid("product not found")
	}
	return err
}

// Create inserts a new order after validating its product reference.
// fecha_pedido is set server-side to the current UTC date.
func (r *OrderRepo) Create(ctx context.Context, o Order) (Order, error) {
	if err := r.checkProduct(ctx, o.ProductID); err != nil {
		return Order{}, err
	}
	o.OrderDate = time.Now().UTC().Truncate(24 * time.Hour)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO pedidos (producto_id, cantidad, fecha_pedido) VALUES (?, ?, ?)",
		o.ProductID, o.Quantity, o.OrderDate.Format("2006-01-02"))
	if err != nil {
		return Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Order{}, err
	}
	o.ID = uint64(id)
	return o, nil
}

// List returns all orders, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]Order, error) {
	return r.query(ctx,
		"SELECT id, producto_id, cantidad, fecha_pedido FROM pedidos ORDER BY id DESC")
}

// Latest returns the five most recent orders by order date.
func (r *OrderRepo) Latest(ctx context.Context) ([]Order, error) {
	return r.query(ctx,
		"SELECT id, producto_id, cantidad, fecha_pedido FROM pedidos ORDER BY fecha_pedido DESC, id DESC LIMIT 5")
}

func (r *OrderRepo) query(ctx context.Context, q string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Quantity, &o.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Get fetches an order by id, returning ErrNotFound on a miss.
func (r *OrderRepo) Get(ctx context.Context, id uint64) (Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		"SELECT id, producto_id, cantidad, fecha_pedido FROM pedidos WHERE id = ?", id).
		Scan(&o.ID, &o.ProductID, &o.Quantity, &o.OrderDate)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// Update replaces product reference and quantity after validating the new
// product.  The check precedes any mutation; a bad product id never
// changes the row.  fecha_pedido is immutable after insert.
func (r *OrderRepo) Update(ctx context.Context, id uint64, o Order) (Order, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := r.checkProduct(ctx, o.ProductID); err != nil {
		return Order{}, err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE pedidos SET producto_id = ?, cantidad = ? WHERE id = ?",
		o.ProductID, o.Quantity, id)
	if err != nil {
		return Order{}, err
	}
	o.ID = id
	o.OrderDate = existing.OrderDate
	return o, nil
}

// Delete removes the order and returns the deleted record.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) (Order, error) {
	o, err := r.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM pedidos WHERE id = ?", id)
	if err != nil {
		return Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// DeleteRelation removes the order only when it references the given
// product.  It mirrors the DELETE /api/pedidos/:id/producto/:productId
// route; ErrNotFound covers both a missing order and a mismatched product.
func (r *OrderRepo) DeleteRelation(ctx context.Context, orderID, productID uint64) (Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		"SELECT id, producto_id, cantidad, fecha_pedido FROM pedidos WHERE id = ? AND producto_id = ?",
		orderID, productID).
		Scan(&o.ID, &o.ProductID, &o.Quantity, &o.OrderDate)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM pedidos WHERE id = ? AND producto_id = ?", orderID, productID)
	if err != nil {
		return Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Order{}, ErrNotFound
	}
	return o, nil
}
