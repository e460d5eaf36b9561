package model

import "time"

const (
	MessageStatusRead   = "read"
	MessageStatusUnread = "unread"
)

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m ContactMessage) SearchFields() []string {
	return []string{m.Name, m.Email, m.Subject}
}

func (m ContactMessage) FilterStatus() string {
	if m.Read {
		return MessageStatusRead
	}
	return MessageStatusUnread
}
