package models

import "time"

// Message is a chat message between an organization admin and a user.
type Message struct {
	ID        int
	OrgID     string
	FromUID   string
	ToUID     string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}

// MessageView is the JSON shape of a chat message returned by the API.
type MessageView struct {
	ID        int       `json:"id"`
	FromUID   string    `json:"from_uid"`
	ToUID     string    `json:"to_uid"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessageView converts a stored message to its API shape.
func NewMessageView(m *Message) MessageView {
	return MessageView{
		ID:        m.ID,
		FromUID:   m.FromUID,
		ToUID:     m.ToUID,
		Body:      m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// MessageRelay is the payload queued for the notification sender when a
// message should also be delivered by email.
type MessageRelay struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	OrgName  string `json:"org_name"`
	Body     string `json:"body"`
}
