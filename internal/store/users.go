package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User is a stored account. PasswordHash is the bcrypt hash of the
// user's password and must never leave the server.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

// UserStore provides CRUD access to the users table.
type UserStore struct {
	db      *sql.DB
	dialect string
}

// NewUserStore creates a UserStore on an existing connection.
// Used by tests; normal callers get one from Open.
func NewUserStore(db *sql.DB, dialect string) *UserStore {
	return &UserStore{db: db, dialect: dialect}
}

// Create inserts the user and fills in its ID.
func (s *UserStore) Create(ctx context.Context, u *User) error {
	if s.dialect == "postgres" {
		q := rebind(s.dialect, `INSERT INTO users (name, email, password) VALUES (?, ?, ?) RETURNING id`)
		if err := s.db.QueryRowContext(ctx, q, u.Name, u.Email, u.PasswordHash).Scan(&u.ID); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password) VALUES (?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted user id: %w", err)
	}
	u.ID = id
	return nil
}

// GetByID fetches a user by primary key. Returns ErrNotFound if absent.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	q := rebind(s.dialect, `SELECT id, name, email, password FROM users WHERE id = ?`)
	u := &User{}
	err := s.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

// GetByEmail fetches a user by email. Returns ErrNotFound if absent.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	q := rebind(s.dialect, `SELECT id, name, email, password FROM users WHERE email = ?`)
	u := &User{}
	err := s.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List returns users ordered by id, with offset/limit paging.
func (s *UserStore) List(ctx context.Context, offset, limit int) ([]*User, error) {
	q := rebind(s.dialect, `SELECT id, name, email, password FROM users ORDER BY id LIMIT ? OFFSET ?`)
	rows, err := s.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update writes name, email, and password hash for an existing user.
func (s *UserStore) Update(ctx context.Context, u *User) error {
	q := rebind(s.dialect, `UPDATE users SET name = ?, email = ?, password = ? WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.ID); err != nil {
		return fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	return nil
}

// Delete removes a user. Returns ErrNotFound if no row was deleted.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	q := rebind(s.dialect, `DELETE FROM users WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
