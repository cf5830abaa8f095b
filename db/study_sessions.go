package db

import (
	"database/sql"

	"github.com/google/uuid"
)

// CreateStudySession records one completed timer interval
func (d *DB) CreateStudySession(userID, mode string, startedAt, endedAt int64) (*StudySession, error) {
	s := &StudySession{
		ID:              uuid.NewString(),
		UserID:          userID,
		Mode:            mode,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		DurationSeconds: (endedAt - startedAt) / 1000,
		CreatedAt:       NowMs(),
	}

	_, err := d.Run(`
		INSERT INTO study_sessions (id, user_id, mode, started_at, ended_at, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.UserID, s.Mode, s.StartedAt, s.EndedAt, s.DurationSeconds, s.CreatedAt)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// ListStudySessions returns all of a user's recorded intervals in
// chronological order
func (d *DB) ListStudySessions(userID string) ([]StudySession, error) {
	return Select(d, `
		SELECT id, user_id, mode, started_at, ended_at, duration_seconds, created_at
		FROM study_sessions
		WHERE user_id = ?
		ORDER BY started_at ASC
	`, []QueryParam{userID}, func(rows *sql.Rows) (StudySession, error) {
		var s StudySession
		err := rows.Scan(&s.ID, &s.UserID, &s.Mode, &s.StartedAt, &s.EndedAt, &s.DurationSeconds, &s.CreatedAt)
		return s, err
	})
}
