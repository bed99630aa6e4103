// User model and repository for the usuarios table.  Username and email
// are unique; collision checks exclude the row being edited so an update
// that keeps its own values does not read as a conflict.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// User mirrors the 'usuarios' table.  The password hash never serializes.
type User struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"` // guest | user | admin
	Active       bool   `json:"activo"`
}

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = "id, username, email, password_hash, role, activo"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// usernameTaken reports whether another row (id != excludeID) already owns
// the username.  Pass excludeID = 0 for inserts.
func (r *UserRepo) usernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM usuarios WHERE username = ? AND id <> ? LIMIT 1",
		username, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepo) emailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM usuarios WHERE email = ? AND id <> ? LIMIT 1",
		email, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Create inserts a user and returns it with the auto-generated ID.  A
// duplicate username or email yields ErrConflict; the MySQL 1062 fallback
// covers the race between the pre-check and the insert.
func (r *UserRepo) Create(ctx context.Context, u User) (User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if taken, err := r.usernameTaken(ctx, u.Username, 0); err != nil {
		return User{}, err
	} else if taken {
		return User{}, ErrConflict
	}
	if taken, err := r.emailTaken(ctx, u.Email, 0); err != nil {
		return User{}, err
	} else if taken {
		return User{}, ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO usuarios (username, email, password_hash, role, activo) VALUES (?, ?, ?, ?, ?)",
		u.Username, u.Email, u.PasswordHash, u.Role, u.Active)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	u.ID = uint64(id)
	return u, nil
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userCols+" FROM usuarios ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Active); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Get fetches a user by id, returning ErrNotFound on a miss.
func (r *UserRepo) Get(ctx context.Context, id uint64) (User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM usuarios WHERE id = ?", id))
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM usuarios WHERE username = ?", username))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM usuarios WHERE email = ?", email))
}

// Update replaces username, email, role and active flag, and the password
// hash when a non-empty one is supplied.  Uniqueness checks exclude the
// row being edited.
func (r *UserRepo) Update(ctx context.Context, id uint64, u User) (User, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if taken, err := r.usernameTaken(ctx, u.Username, id); err != nil {
		return User{}, err
	} else if taken {
		return User{}, ErrConflict
	}
	if taken, err := r.emailTaken(ctx, u.Email, id); err != nil {
		return User{}, err
	} else if taken {
		return User{}, ErrConflict
	}
	if u.PasswordHash == "" {
		u.PasswordHash = existing.PasswordHash
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE usuarios SET username = ?, email = ?, password_hash = ?, role = ?, activo = ? WHERE id = ?",
		u.Username, u.Email, u.PasswordHash, u.Role, u.Active, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	u.ID = id
	return u, nil
}

// Delete deactivates the user instead of removing the row.  Every other
// entity hard-deletes; users keep their history and merely lose access.
// The asymmetry is inherited from the system this replaces and is kept on
// purpose.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (User, error) {
	return r.SetActive(ctx, id, false)
}

// SetActive flips the activo flag and returns the updated record.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) (User, error) {
	u, err := r.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE usuarios SET activo = ? WHERE id = ?", active, id); err != nil {
		return User{}, err
	}
	u.Active = active
	return u, nil
}
