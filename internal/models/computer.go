package models

import "time"

// Computer is a kiosk machine known to an organization, including the
// currently active session if one exists.
type Computer struct {
	Name             string     `json:"name"`
	OrgID            string     `json:"org_id"`
	LastSeenAt       time.Time  `json:"last_seen_at"`
	ActiveUserUID    *string    `json:"active_user_uid,omitempty"`
	ActiveUserName   *string    `json:"active_user_name,omitempty"`
	SessionStartedAt *time.Time `json:"session_started_at,omitempty"`
	RemainingSeconds *int       `json:"remaining_seconds,omitempty"`
}
