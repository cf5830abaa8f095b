package db

import (
	"database/sql"

	"github.com/google/uuid"
)

// CreateUser inserts a new user record
func (d *DB) CreateUser(username, email, name, passwordHash string) (*User, error) {
	now := NowMs()
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := d.Run(`
		INSERT INTO users (id, username, email, name, password_hash, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.Name, u.PasswordHash, boolToInt(u.IsVerified), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// GetUserByID retrieves a user by id, nil if not found
func (d *DB) GetUserByID(id string) (*User, error) {
	return SelectOne(d, `
		SELECT id, username, email, name, password_hash, is_verified, created_at, updated_at
		FROM users WHERE id = ?
	`, []QueryParam{id}, scanUser)
}

// GetUserByEmail retrieves a user by email, nil if not found
func (d *DB) GetUserByEmail(email string) (*User, error) {
	return SelectOne(d, `
		SELECT id, username, email, name, password_hash, is_verified, created_at, updated_at
		FROM users WHERE email = ?
	`, []QueryParam{email}, scanUser)
}

// GetUserByUsername retrieves a user by username, nil if not found
func (d *DB) GetUserByUsername(username string) (*User, error) {
	return SelectOne(d, `
		SELECT id, username, email, name, password_hash, is_verified, created_at, updated_at
		FROM users WHERE username = ?
	`, []QueryParam{username}, scanUser)
}

// UserExists reports whether a user with the given email or username exists
func (d *DB) UserExists(email, username string) (bool, error) {
	return d.Exists("SELECT 1 FROM users WHERE email = ? OR username = ?", email, username)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var verified int
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash, &verified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	u.IsVerified = verified != 0
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
