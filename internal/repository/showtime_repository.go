// Showtime model and repository for the funciones table.  Writes verify
// that the referenced movie and room exist before touching the row.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Showtime mirrors the 'funciones' table.
type Showtime struct {
	ID       uint64    `json:"id"`
	MovieID  uint64    `json:"id_pelicula"`
	RoomID   uint64    `json:"id_sala"`
	StartsAt time.Time `json:"fecha_hora"`
}

type ShowtimeRepo struct {
	db *sql.DB
}

func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// checkRefs verifies the referenced movie and room exist.  A miss yields a
// ValidationError, never ErrNotFound, so callers can tell "your input
// points at nothing" apart from "the showtime itself is gone".  The check
// and the subsequent write are separate round trips; a parent deleted in
// between slips through, which matches the accepted concurrency model.
func (r *ShowtimeRepo) checkRefs(ctx context.Context, movieID, roomID uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM peliculas WHERE id = ?", movieID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return Invalid("movie not found")
	}
	if err != nil {
		return err
	}
	err = r.db.QueryRowContext(ctx,
		"SELECT 1 FROM salas WHERE id = ?", roomID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return Invalid("room not found")
	}
	return err
}

// Create inserts a new showtime after validating its foreign keys.
func (r *ShowtimeRepo) Create(ctx context.Context, f Showtime) (Showtime, error) {
	if err := r.checkRefs(ctx, f.MovieID, f.RoomID); err != nil {
		return Showtime{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO funciones (id_pelicula, id_sala, fecha_hora) VALUES (?, ?, ?)",
		f.MovieID, f.RoomID, f.StartsAt)
	if err != nil {
		return Showtime{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Showtime{}, err
	}
	f.ID = uint64(id)
	return f, nil
}

// List returns all showtimes, newest first.
func (r *ShowtimeRepo) List(ctx context.Context) ([]Showtime, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, id_pelicula, id_sala, fecha_hora FROM funciones ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Showtime
	for rows.Next() {
		var f Showtime
		if err := rows.Scan(&f.ID, &f.MovieID, &f.RoomID, &f.StartsAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Get fetches a showtime by id.  It returns ErrNotFound if no row matches.
func (r *ShowtimeRepo) Get(ctx context.Context, id uint64) (Showtime, error) {
	var f Showtime
	err := r.db.QueryRowContext(ctx,
		"SELECT id, id_pelicula, id_sala, fecha_hora FROM funciones WHERE id = ?", id).
		Scan(&f.ID, &f.MovieID, &f.RoomID, &f.StartsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Showtime{}, ErrNotFound
	}
	return f, err
}

// Update replaces every column after validating the foreign keys.  The
// reference check runs before any mutation so a bad movie or room id never
// leaves a half-written row.
func (r *ShowtimeRepo) Update(ctx context.Context, id uint64, f Showtime) (Showtime, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return Showtime{}, err
	}
	if err := r.checkRefs(ctx, f.MovieID, f.RoomID); err != nil {
		return Showtime{}, err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE funciones SET id_pelicula = ?, id_sala = ?, fecha_hora = ? WHERE id = ?",
		f.MovieID, f.RoomID, f.StartsAt, id)
	if err != nil {
		return Showtime{}, err
	}
	f.ID = id
	return f, nil
}

// Delete removes the showtime and returns the deleted record.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) (Showtime, error) {
	f, err := r.Get(ctx, id)
	if err != nil {
		return Showtime{}, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM funciones WHERE id = ?", id)
	if err != nil {
		return Showtime{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Showtime{}, ErrNotFound
	}
	return f, nil
}
