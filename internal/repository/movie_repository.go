// This file defines the Movie model and repository methods for CRUD
// operations over the peliculas table.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Movie mirrors the 'peliculas' table.  JSON tags keep the wire names the
// clients already use.
type Movie struct {
	ID       uint64 `json:"id"`
	Title    string `json:"titulo"`
	Year     int    `json:"anio"`
	Duration int    `json:"duracion"` // minutes
}

// MovieRepo encapsulates all database queries related to movies.  It
// depends on a sql.DB connection configured elsewhere.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle, allowing
// dependency injection of the database in tests and at startup.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// Create inserts a new movie and returns it with the auto-generated ID.
func (r *MovieRepo) Create(ctx context.Context, m Movie) (Movie, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO peliculas (titulo, anio, duracion) VALUES (?, ?, ?)",
		m.Title, m.Year, m.Duration)
	if err != nil {
		return Movie{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Movie{}, err
	}
	m.ID = uint64(id)
	return m, nil
}

// List returns all movies, newest first.
func (r *MovieRepo) List(ctx context.Context) ([]Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, titulo, anio, duracion FROM peliculas ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movie
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Duration); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get fetches a movie by id.  It returns ErrNotFound if no row matches.
func (r *MovieRepo) Get(ctx context.Context, id uint64) (Movie, error) {
	var m Movie
	err := r.db.QueryRowContext(ctx,
		"SELECT id, titulo, anio, duracion FROM peliculas WHERE id = ?", id).
		Scan(&m.ID, &m.Title, &m.Year, &m.Duration)
	if errors.Is(err, sql.ErrNoRows) {
		return Movie{}, ErrNotFound
	}
	return m, err
}

// Update replaces every column of the movie.  The existence check runs
// first so a no-op update of identical values is not mistaken for a miss.
func (r *MovieRepo) Update(ctx context.Context, id uint64, m Movie) (Movie, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return Movie{}, err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE peliculas SET titulo = ?, anio = ?, duracion = ? WHERE id = ?",
		m.Title, m.Year, m.Duration, id)
	if err != nil {
		return Movie{}, err
	}
	m.ID = id
	return m, nil
}

// Delete removes the movie and returns the deleted record.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (Movie, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM peliculas WHERE id = ?", id)
	if err != nil {
		return Movie{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Movie{}, ErrNotFound
	}
	return m, nil
}
