package db

import (
	"database/sql"
)

func init() {
	RegisterMigration(Migration{
		Version:     1,
		Description: "Initial schema",
		Up:          migration001Initial,
	})
}

func migration001Initial(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Users
	_, err = tx.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE COLLATE NOCASE,
			email TEXT NOT NULL UNIQUE COLLATE NOCASE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_verified INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX idx_users_email ON users(email);
		CREATE INDEX idx_users_username ON users(username);
	`)
	if err != nil {
		return err
	}

	// Sessions (one row per issued token, keyed by token id)
	_, err = tx.Exec(`
		CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL,
			last_used_at INTEGER NOT NULL
		);

		CREATE INDEX idx_sessions_user ON sessions(user_id);
		CREATE INDEX idx_sessions_expires ON sessions(expires_at);
	`)
	if err != nil {
		return err
	}

	// Documents (metadata only; content lives in the external document API)
	_, err = tx.Exec(`
		CREATE TABLE documents (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX idx_documents_user_created ON documents(user_id, created_at);
	`)
	if err != nil {
		return err
	}

	// Chat messages, append-only per document
	_, err = tx.Exec(`
		CREATE TABLE chat_messages (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			source_pages TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX idx_chat_messages_document ON chat_messages(document_id, created_at);
	`)
	if err != nil {
		return err
	}

	// Notes
	_, err = tx.Exec(`
		CREATE TABLE notes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX idx_notes_user_updated ON notes(user_id, updated_at);
	`)
	if err != nil {
		return err
	}

	// Completed study intervals recorded by the focus timer
	_, err = tx.Exec(`
		CREATE TABLE study_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			mode TEXT NOT NULL CHECK (mode IN ('focus', 'break')),
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX idx_study_sessions_user_started ON study_sessions(user_id, started_at);
	`)
	if err != nil {
		return err
	}

	return tx.Commit()
}
