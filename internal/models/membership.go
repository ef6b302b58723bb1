package models

import "time"

// Membership roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership ties a profile to a conversation. A row with LeftAt set is
// historical and never reactivated; removal is a hard delete.
type Membership struct {
	ID             string     `json:"id,omitempty"`
	ConversationID string     `json:"conversation_id"`
	UserID         string     `json:"user_id"`
	Role           string     `json:"role"`
	JoinedAt       time.Time  `json:"joined_at"`
	LeftAt         *time.Time `json:"left_at,omitempty"`
}

// Active reports whether the membership is still current.
func (m Membership) Active() bool {
	return m.LeftAt == nil
}

// CanMutate reports whether the role may change conversation state
// (rename, delete, membership management).
func CanMutate(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}
