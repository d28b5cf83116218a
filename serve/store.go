package serve

import "time"

// Store persists chat transcripts for historical queries. Transcripts
// are an audit log of proxied turns; agent state itself is in-memory
// only and deliberately does not survive a restart.
type Store interface {
	// Init creates tables if they don't exist.
	Init() error

	// Close closes the store.
	Close() error

	// InsertChatMessage persists one side of a chat turn.
	InsertChatMessage(agentID, role, content string) error

	// ListChatMessages returns an agent's transcript, oldest first.
	ListChatMessages(agentID string) ([]ChatMessage, error)

	// DeleteChatMessages removes an agent's transcript.
	DeleteChatMessages(agentID string) error
}

// ChatMessage is one persisted side of a chat turn.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
