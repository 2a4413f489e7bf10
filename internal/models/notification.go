package models

import "time"

type Notification struct {
	ID        string    `json:"id"`
	ToName    string    `json:"toName"`
	FromName  string    `json:"fromName"`
	ProjectID string    `json:"projectId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// Activity is an append-only audit entry. Meta carries operation specific
// keys such as target, toName, memberName, taskId.
type Activity struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"projectId,omitempty"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Actor     string            `json:"actor,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
