package models

import "time"

const (
    RoleUser      = "user"
    RoleAssistant = "assistant"
)

// ChatTurn is one stored message of a support conversation. Turns are
// append-only and carry no conversation grouping.
type ChatTurn struct {
    ID        string         `json:"id,omitempty" bson:"_id,omitempty"`
    Role      string         `json:"role" bson:"role"` // user or assistant, not enforced
    Content   string         `json:"content" bson:"content"`
    Metadata  map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
    CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// ChatMessage is the client-side view of a turn.
type ChatMessage struct {
    Role    string `json:"role"`
    Content string `json:"content"`
}
