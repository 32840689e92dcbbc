package notification

import "time"

// Notification types, mirrored by the presentation layer's styling.
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

type Notification struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	Date    time.Time `json:"date"`
	Type    string    `json:"type"`
}
