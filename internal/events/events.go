// Package events defines the real-time events pushed to kiosk and admin
// clients over SSE, and the Redis pub/sub bus that carries them between
// the API process and the reaper.
package events

import "encoding/json"

// Event types emitted by the service.
const (
	TypeSessionStarted = "session_started"
	TypeTimeUpdated    = "time_updated"
	TypeSessionEnded   = "session_ended"
	TypeForceLogout    = "force_logout"
	TypeMessage        = "message"
	TypeBalanceUpdated = "balance_updated"
)

// Event is one unit pushed to subscribed clients.
//
// UserUID is empty for organization-wide events; those are delivered to
// admin streams only.
type Event struct {
	Type    string          `json:"type"`
	OrgID   string          `json:"org_id"`
	UserUID string          `json:"user_uid,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an Event, marshalling payload to JSON. A nil payload
// yields an event with no payload field.
func NewEvent(eventType, orgID, userUID string, payload any) (Event, error) {
	ev := Event{
		Type:    eventType,
		OrgID:   orgID,
		UserUID: userUID,
	}
	if payload == nil {
		return ev, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	ev.Payload = raw
	return ev, nil
}
