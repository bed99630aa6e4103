// Room model and repository for the salas table.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Room mirrors the 'salas' table.
type Room struct {
	ID       uint64 `json:"id"`
	Name     string `json:"nombre"`
	Capacity int    `json:"capacidad"`
}

type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a new room and returns it with the auto-generated ID.
func (r *RoomRepo) Create(ctx context.Context, s Room) (Room, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO salas (nombre, capacidad) VALUES (?, ?)", s.Name, s.Capacity)
	if err != nil {
		return Room{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Room{}, err
	}
	s.ID = uint64(id)
	return s, nil
}

// List returns all rooms, newest first.
func (r *RoomRepo) List(ctx context.Context) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, nombre, capacidad FROM salas ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var s Room
		if err := rows.Scan(&s.ID, &s.Name, &s.Capacity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches a room by id.  It returns ErrNotFound if no row matches.
func (r *RoomRepo) Get(ctx context.Context, id uint64) (Room, error) {
	var s Room
	err := r.db.QueryRowContext(ctx,
		"SELECT id, nombre, capacidad FROM salas WHERE id = ?", id).
		Scan(&s.ID, &s.Name, &s.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, ErrNotFound
	}
	return s, err
}

// Update replaces every column of the room.
func (r *RoomRepo) Update(ctx context.Context, id uint64, s Room) (Room, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return Room{}, err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE salas SET nombre = ?, capacidad = ? WHERE id = ?",
		s.Name, s.Capacity, id)
	if err != nil {
		return Room{}, err
	}
	s.ID = id
	return s, nil
}

// Delete removes the room and returns the deleted record.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) (Room, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return Room{}, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM salas WHERE id = ?", id)
	if err != nil {
		return Room{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Room{}, ErrNotFound
	}
	return s, nil
}
