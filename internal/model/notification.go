package model

const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationInfo    = "info"
)

// Notification is the transient, user-visible outcome of one operation.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}
