package model

import "time"

// LogEntry is either a domain event (Event set) or a served request (Method set).
type LogEntry struct {
	ID        string    `json:"id"`
	Event     string    `json:"event,omitempty"`
	Method    string    `json:"method,omitempty"`
	URL       string    `json:"url,omitempty"`
	Status    int       `json:"status,omitempty"`
	Username  string    `json:"username,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
