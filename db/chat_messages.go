package db

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// AppendChatMessage appends a message to a document's transcript.
// Messages are never updated after creation.
func (d *DB) AppendChatMessage(documentID, userID, role, content string, sourcePages []int) (*ChatMessage, error) {
	m := &ChatMessage{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		UserID:      userID,
		Role:        role,
		Content:     content,
		SourcePages: sourcePages,
		CreatedAt:   NowMs(),
	}

	var pagesJSON sql.NullString
	if len(sourcePages) > 0 {
		b, err := json.Marshal(sourcePages)
		if err != nil {
			return nil, err
		}
		pagesJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := d.Run(`
		INSERT INTO chat_messages (id, document_id, user_id, role, content, source_pages, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.DocumentID, m.UserID, m.Role, m.Content, pagesJSON, m.CreatedAt)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ListChatMessages returns a document's transcript in submission order
func (d *DB) ListChatMessages(documentID string) ([]ChatMessage, error) {
	return Select(d, `
		SELECT id, document_id, user_id, role, content, source_pages, created_at
		FROM chat_messages
		WHERE document_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, []QueryParam{documentID}, func(rows *sql.Rows) (ChatMessage, error) {
		var m ChatMessage
		var pagesJSON sql.NullString
		err := rows.Scan(&m.ID, &m.DocumentID, &m.UserID, &m.Role, &m.Content, &pagesJSON, &m.CreatedAt)
		if err != nil {
			return m, err
		}
		if pagesJSON.Valid {
			if err := json.Unmarshal([]byte(pagesJSON.String), &m.SourcePages); err != nil {
				return m, err
			}
		}
		return m, nil
	})
}
