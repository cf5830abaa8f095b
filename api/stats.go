package api

import (
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindpath-app/mindpath/db"
	"github.com/mindpath-app/mindpath/log"
)

// DailySessions aggregates one day of recorded study intervals
type DailySessions struct {
	Count         int               `json:"count"`
	TotalDuration int64             `json:"totalDuration"`
	Sessions      []db.StudySession `json:"sessions"`
}

// StudyStats is the dashboard aggregate
type StudyStats struct {
	StudySessions   map[string]DailySessions `json:"studySessions"`
	TotalStudyHours float64                  `json:"totalStudyHours"`
	CurrentStreak   int                      `json:"currentStreak"`
	BestStreak      int                      `json:"bestStreak"`
	TotalDays       int                      `json:"totalDays"`
	LastStudyDate   string                   `json:"lastStudyDate,omitempty"`
}

const dayFormat = "2006-01-02"

// GetStats handles GET /api/users/stats
func (h *Handlers) GetStats(c *gin.Context) {
	identity := CurrentIdentity(c)

	sessions, err := h.db.ListStudySessions(identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list study sessions")
		RespondInternalError(c, "Failed to fetch stats")
		return
	}

	RespondData(c, computeStudyStats(sessions, time.Now()))
}

// RecordStudySession handles POST /api/users/sessions, storing one
// completed timer interval.
func (h *Handlers) RecordStudySession(c *gin.Context) {
	identity := CurrentIdentity(c)

	var body struct {
		Mode      string `json:"mode"`
		StartedAt int64  `json:"startedAt"`
		EndedAt   int64  `json:"endedAt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	if body.Mode != db.ModeFocus && body.Mode != db.ModeBreak {
		RespondValidationError(c, "Validation failed", []ErrorDetail{{Field: "mode", Message: "Mode must be focus or break"}})
		return
	}
	if body.EndedAt <= body.StartedAt {
		RespondValidationError(c, "Validation failed", []ErrorDetail{{Field: "endedAt", Message: "End time must be after start time"}})
		return
	}

	session, err := h.db.CreateStudySession(identity.ID, body.Mode, body.StartedAt, body.EndedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to record study session")
		RespondInternalError(c, "Failed to record session")
		return
	}

	RespondCreated(c, session)
}

// computeStudyStats folds recorded intervals into the dashboard aggregate.
// Streaks count consecutive days containing at least one focus session;
// the current streak survives until a full day without one has passed.
func computeStudyStats(sessions []db.StudySession, now time.Time) StudyStats {
	stats := StudyStats{StudySessions: make(map[string]DailySessions)}

	var totalSeconds int64
	focusDays := make(map[string]bool)

	for _, s := range sessions {
		day := time.UnixMilli(s.StartedAt).Format(dayFormat)

		daily := stats.StudySessions[day]
		daily.Count++
		daily.TotalDuration += s.DurationSeconds
		daily.Sessions = append(daily.Sessions, s)
		stats.StudySessions[day] = daily

		if s.Mode == db.ModeFocus {
			totalSeconds += s.DurationSeconds
			focusDays[day] = true
		}
	}

	stats.TotalStudyHours = float64(totalSeconds) / 3600
	stats.TotalDays = len(focusDays)

	if len(focusDays) == 0 {
		return stats
	}

	days := make([]string, 0, len(focusDays))
	for day := range focusDays {
		days = append(days, day)
	}
	sort.Strings(days)
	stats.LastStudyDate = days[len(days)-1]

	// Best streak: longest run of consecutive days
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if isNextDay(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	stats.BestStreak = best

	// Current streak: walk backwards from the most recent study day,
	// provided it is today or yesterday.
	today := now.Format(dayFormat)
	yesterday := now.AddDate(0, 0, -1).Format(dayFormat)
	last := days[len(days)-1]
	if last == today || last == yesterday {
		current := 1
		for i := len(days) - 1; i > 0; i-- {
			if isNextDay(days[i-1], days[i]) {
				current++
			} else {
				break
			}
		}
		stats.CurrentStreak = current
	}

	return stats
}

// isNextDay reports whether b is the calendar day immediately after a
func isNextDay(a, b string) bool {
	ta, err := time.Parse(dayFormat, a)
	if err != nil {
		return false
	}
	return ta.AddDate(0, 0, 1).Format(dayFormat) == b
}
