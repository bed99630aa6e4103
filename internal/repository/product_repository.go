// Product model and repository for the productos table.  Prices are
// DECIMAL(10,2) in the database and decimal.Decimal in Go so currency never
// travels through binary floating point.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors the 'productos' table.
type Product struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	CreatedDate time.Time       `json:"fecha_creacion"`
}

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// Create inserts a new product.  fecha_creacion is set server-side to the
// current UTC date regardless of what the caller supplied.
func (r *ProductRepo) Create(ctx context.Context, p Product) (Product, error) {
	p.CreatedDate = time.Now().UTC().Truncate(24 * time.Hour)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO productos (nombre, descripcion, precio, stock, fecha_creacion) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.Description, p.Price, p.Stock, p.CreatedDate.Format("2006-01-02"))
	if err != nil {
		return Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Product{}, err
	}
	p.ID = uint64(id)
	return p, nil
}

// List returns all products, newest first.
func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, nombre, descripcion, precio, stock, fecha_creacion FROM productos ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get fetches a product by id, returning ErrNotFound on a miss.
func (r *ProductRepo) Get(ctx context.Context, id uint64) (Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, nombre, descripcion, precio, stock, fecha_creacion FROM productos WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// Update replaces name, description, price and stock.  fecha_creacion is
// immutable after insert.
func (r *ProductRepo) Update(ctx context.Context, id uint64, p Product) (Product, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE productos SET nombre = ?, descripcion = ?, precio = ?, stock = ? WHERE id = ?",
		p.Name, p.Description, p.Price, p.Stock, id)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	p.CreatedDate = existing.CreatedDate
	return p, nil
}

// Delete removes the product and returns the deleted record.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) (Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM productos WHERE id = ?", id)
	if err != nil {
		return Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}
