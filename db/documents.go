package db

import (
	"database/sql"
)

// CreateDocument inserts a document metadata row. The id comes from the
// external document API so chat requests can be routed back to it.
func (d *DB) CreateDocument(id, userID, title string, pageCount int) (*Document, error) {
	doc := &Document{
		ID:        id,
		UserID:    userID,
		Title:     title,
		PageCount: pageCount,
		CreatedAt: NowMs(),
	}

	_, err := d.Run(`
		INSERT INTO documents (id, user_id, title, page_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.UserID, doc.Title, doc.PageCount, doc.CreatedAt)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// ListDocuments returns a user's documents ordered by creation time.
// The order is part of the API contract.
func (d *DB) ListDocuments(userID string) ([]Document, error) {
	return Select(d, `
		SELECT id, user_id, title, page_count, created_at
		FROM documents
		WHERE user_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, []QueryParam{userID}, scanDocument)
}

// GetDocument retrieves a document owned by the user, nil if not found
func (d *DB) GetDocument(id, userID string) (*Document, error) {
	return SelectOne(d, `
		SELECT id, user_id, title, page_count, created_at
		FROM documents
		WHERE id = ? AND user_id = ?
	`, []QueryParam{id, userID}, func(row *sql.Row) (Document, error) {
		var doc Document
		err := row.Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.PageCount, &doc.CreatedAt)
		return doc, err
	})
}

// DeleteDocument removes a document row (chat messages cascade)
func (d *DB) DeleteDocument(id, userID string) error {
	_, err := d.Run(`DELETE FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

func scanDocument(rows *sql.Rows) (Document, error) {
	var doc Document
	err := rows.Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.PageCount, &doc.CreatedAt)
	return doc, err
}
