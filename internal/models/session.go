package models

import "time"

// Session end reasons recorded by the service and the reaper.
const (
	EndReasonUserLogout   = "user_logout"
	EndReasonTimeExpired  = "time_expired"
	EndReasonKicked       = "kicked"
	EndReasonOutsideHours = "outside_operating_hours"
)

// Session is an active or finished countdown session on a kiosk computer.
//
// RemainingSeconds mirrors the user's time balance while the session is
// active; the reaper decrements both in the same statement each tick.
type Session struct {
	ID               int
	OrgID            string
	UserUID          string
	ComputerName     string
	StartedAt        time.Time
	RemainingSeconds int
	IsActive         bool
	EndedAt          *time.Time
	EndReason        *string
}

// SessionView is the JSON shape of a session returned by the API.
type SessionView struct {
	ID               int        `json:"id"`
	ComputerName     string     `json:"computer_name"`
	StartedAt        time.Time  `json:"started_at"`
	RemainingSeconds int        `json:"remaining_seconds"`
	IsActive         bool       `json:"is_active"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	EndReason        *string    `json:"end_reason,omitempty"`
}

// NewSessionView converts a stored session to its API shape.
func NewSessionView(s *Session) SessionView {
	return SessionView{
		ID:               s.ID,
		ComputerName:     s.ComputerName,
		StartedAt:        s.StartedAt,
		RemainingSeconds: s.RemainingSeconds,
		IsActive:         s.IsActive,
		EndedAt:          s.EndedAt,
		EndReason:        s.EndReason,
	}
}

// SessionTick is the per-session result of one reaper pass over the
// active sessions table.
type SessionTick struct {
	SessionID        int
	OrgID            string
	UserUID          string
	RemainingSeconds int
}
