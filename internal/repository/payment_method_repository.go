// PaymentMethod model and repository for the metodos_pago table.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PaymentMethod mirrors the 'metodos_pago' table.
type PaymentMethod struct {
	ID   uint64 `json:"id"`
	Name string `json:"nombre"`
}

type PaymentMethodRepo struct {
	db *sql.DB
}

func NewPaymentMethodRepo(db *sql.DB) *PaymentMethodRepo {
	return &PaymentMethodRepo{db: db}
}

// Create inserts a new payment method and returns it with its ID.
func (r *PaymentMethodRepo) Create(ctx context.Context, p PaymentMethod) (PaymentMethod, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO metodos_pago (nombre) VALUES (?)", p.Name)
	if err != nil {
		return PaymentMethod{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return PaymentMethod{}, err
	}
	p.ID = uint64(id)
	return p, nil
}

// List returns all payment methods, newest first.
func (r *PaymentMethodRepo) List(ctx context.Context) ([]PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, nombre FROM metodos_pago ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentMethod
	for rows.Next() {
		var p PaymentMethod
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get fetches a payment method by id, returning ErrNotFound on a miss.
func (r *PaymentMethodRepo) Get(ctx context.Context, id uint64) (PaymentMethod, error) {
	var p PaymentMethod
	err := r.db.QueryRowContext(ctx,
		"SELECT id, nombre FROM metodos_pago WHERE id = ?", id).
		Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return PaymentMethod{}, ErrNotFound
	}
	return p, err
}

// Update replaces the payment method name.
func (r *PaymentMethodRepo) Update(ctx context.Context, id uint64, p PaymentMethod) (PaymentMethod, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return PaymentMethod{}, err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE metodos_pago SET nombre = ? WHERE id = ?", p.Name, id)
	if err != nil {
		return PaymentMethod{}, err
	}
	p.ID = id
	return p, nil
}

// Delete removes the payment method and returns the deleted record.
func (r *PaymentMethodRepo) Delete(ctx context.Context, id uint64) (PaymentMethod, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return PaymentMethod{}, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM metodos_pago WHERE id = ?", id)
	if err != nil {
		return PaymentMethod{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return PaymentMethod{}, ErrNotFound
	}
	return p, nil
}
