package db

import (
	"database/sql"

	"github.com/google/uuid"
)

// CreateNote inserts a new note
func (d *DB) CreateNote(userID, title, content string) (*Note, error) {
	now := NowMs()
	n := &Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := d.Run(`
		INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return n, nil
}

// ListNotes returns a user's notes, most recently updated first
func (d *DB) ListNotes(userID string) ([]Note, error) {
	return Select(d, `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, []QueryParam{userID}, func(rows *sql.Rows) (Note, error) {
		var n Note
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
		return n, err
	})
}

// GetNote retrieves a note owned by the user, nil if not found
func (d *DB) GetNote(id, userID string) (*Note, error) {
	return SelectOne(d, `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE id = ? AND user_id = ?
	`, []QueryParam{id, userID}, func(row *sql.Row) (Note, error) {
		var n Note
		err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
		return n, err
	})
}

// UpdateNote updates a note's title and content, returning false if the
// note does not exist or belongs to another user
func (d *DB) UpdateNote(id, userID, title, content string) (bool, error) {
	result, err := d.Run(`
		UPDATE notes
		SET title = ?, content = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, title, content, NowMs(), id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// DeleteNote removes a note, returning false if nothing was deleted
func (d *DB) DeleteNote(id, userID string) (bool, error) {
	result, err := d.Run(`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
