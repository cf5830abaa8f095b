package db

import (
	"database/sql"
	"time"
)

// CreateSession inserts a session row for an issued token
func (d *DB) CreateSession(id, userID string, ttl time.Duration) (*Session, error) {
	now := NowMs()
	s := &Session{
		ID:         id,
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  time.Now().Add(ttl).UnixMilli(),
		LastUsedAt: now,
	}

	_, err := d.Run(`
		INSERT INTO sessions (id, user_id, created_at, expires_at, last_used_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.UserID, s.CreatedAt, s.ExpiresAt, s.LastUsedAt)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// GetSession retrieves a session by id, nil if not found or expired
func (d *DB) GetSession(id string) (*Session, error) {
	return SelectOne(d, `
		SELECT id, user_id, created_at, expires_at, last_used_at
		FROM sessions
		WHERE id = ? AND expires_at > ?
	`, []QueryParam{id, NowMs()}, func(row *sql.Row) (Session, error) {
		var s Session
		err := row.Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.LastUsedAt)
		return s, err
	})
}

// TouchSession updates the last_used_at timestamp for a session
func (d *DB) TouchSession(id string) error {
	_, err := d.Run(`UPDATE sessions SET last_used_at = ? WHERE id = ?`, NowMs(), id)
	return err
}

// DeleteSession removes a session, revoking its token
func (d *DB) DeleteSession(id string) error {
	_, err := d.Run(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes all expired sessions
func (d *DB) DeleteExpiredSessions() (int64, error) {
	result, err := d.Run(`DELETE FROM sessions WHERE expires_at <= ?`, NowMs())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
