package models

import "time"

// Conversation types.
const (
	TypeDirect = "direct"
	TypeGroup  = "group"
)

// Conversation represents a direct or group conversation row.
// Name is only meaningful for group conversations; direct conversations
// get their display name computed from the counterpart's profile.
// DirectKey is present on direct conversations only and is derived,
// never user supplied.
type Conversation struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Name      *string    `json:"name,omitempty"`
	DirectKey *string    `json:"direct_key,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsDirect reports whether the conversation is a two-party direct conversation.
func (c Conversation) IsDirect() bool {
	return c.Type == TypeDirect
}

// NewConversation carries the fields of a conversation insert.
type NewConversation struct {
	Type      string  `json:"type"`
	Name      *string `json:"name,omitempty"`
	DirectKey *string `json:"direct_key,omitempty"`
	CreatedBy string  `json:"created_by"`
}

// MemberConversation is a conversation row embedded behind the caller's
// membership, as returned by the join-style listing queries.
type MemberConversation struct {
	Conversation Conversation `json:"conversation"`
	Role         string       `json:"role"`
	JoinedAt     time.Time    `json:"joined_at"`
	LeftAt       *time.Time   `json:"left_at,omitempty"`
}

// ConversationView is the API-friendly shape of a conversation for one
// member, with the display name resolved.
type ConversationView struct {
	Conversation
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
	DisplayName string    `json:"display_name"`
	OtherUserID string    `json:"other_user_id,omitempty"`
}
