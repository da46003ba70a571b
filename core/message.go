package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author side of a conversational turn.
type Role string

const (
	// RoleSystem marks instruction-style messages injected by the host.
	RoleSystem Role = "system"
	// RoleHuman marks messages authored by the end user.
	RoleHuman Role = "human"
	// RoleAI marks messages authored by the model.
	RoleAI Role = "ai"
)

// Valid reports whether the role is one of the recognized enum values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleHuman, RoleAI:
		return true
	default:
		return false
	}
}

// Validate returns an error wrapping ErrInvalidRole when the role is not a
// recognized enum value.
func (r Role) Validate() error {
	if !r.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return nil
}

// Message is one turn of a conversation. After an append it should be treated
// as immutable. Index is the per-session monotonic sequence index assigned at
// append time, starting at 0; it defines the total arrival order within a
// session. Timestamp uses a native time.Time (UTC) and does not participate in
// ordering.
type Message struct {
	Index     int       `json:"index"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates an unappended message with the current UTC timestamp.
// The sequence index stays zero until a session or store assigns it.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

// NewID generates a new unique identifier for rounds and memory entries.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }

// BufferString renders messages as a plain-text transcript, one line per
// turn, using the provided role prefixes ("Human: hi\nAI: hello"). System
// turns always use the "System" prefix. Useful for recording conversation
// snippets into memory or logs.
func BufferString(msgs []Message, humanPrefix, aiPrefix string) string {
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch m.Role {
		case RoleHuman:
			sb.WriteString(humanPrefix)
		case RoleAI:
			sb.WriteString(aiPrefix)
		default:
			sb.WriteString("System")
		}
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	return sb.String()
}
