package repositories

import (
	"context"
	"fmt"
	"time"

	"messaging-service/internal/models"
	"messaging-service/internal/store"
)

const conversationsTable = "conversations"

// Join-embedding clause returning the conversation row behind a
// membership row in one round trip.
const memberConversationSelect = "conversation:conversations!inner(*),role,joined_at,left_at"

// ConversationRepository abstracts conversation persistence. Each call is
// one independent store round trip; there is no ambient transaction.
type ConversationRepository interface {
	Create(ctx context.Context, input models.NewConversation) (models.Conversation, error)
	// Patch updates named fields on one conversation. A no-match patch
	// returns nil, not an error.
	Patch(ctx context.Context, id string, fields map[string]any) (*models.Conversation, error)
	// SoftDelete stamps deleted_at/updated_at; rows are never physically
	// removed.
	SoftDelete(ctx context.Context, id string, now time.Time) (*models.Conversation, error)
	// ListForMember returns the member's active, non-deleted conversations
	// joined to their membership.
	ListForMember(ctx context.Context, memberID string) ([]models.MemberConversation, error)
	// GetForMember returns one conversation if the member holds an active
	// membership and the conversation is not deleted; nil otherwise.
	GetForMember(ctx context.Context, memberID, conversationID string) (*models.MemberConversation, error)
	// FindDirectByKey returns the non-deleted direct conversation carrying
	// the canonical pair key, or nil.
	FindDirectByKey(ctx context.Context, key string) (*models.Conversation, error)
}

// ConversationRepo is the store-backed implementation of ConversationRepository.
type ConversationRepo struct {
	store *store.Client
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(client *store.Client) *ConversationRepo {
	return &ConversationRepo{store: client}
}

func (r *ConversationRepo) Create(ctx context.Context, input models.NewConversation) (models.Conversation, error) {
	var rows []models.Conversation
	if err := r.store.Insert(ctx, conversationsTable, input, &rows); err != nil {
		return models.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	if len(rows) == 0 {
		return models.Conversation{}, fmt.Errorf("create conversation: store returned no representation")
	}
	return rows[0], nil
}

func (r *ConversationRepo) Patch(ctx context.Context, id string, fields map[string]any) (*models.Conversation, error) {
	q := store.Query{Filters: []store.Filter{store.Eq("id", id)}}
	var rows []models.Conversation
	if err := r.store.Patch(ctx, conversationsTable, q, fields, &rows); err != nil {
		return nil, fmt.Errorf("patch conversation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ConversationRepo) SoftDelete(ctx context.Context, id string, now time.Time) (*models.Conversation, error) {
	stamp := now.UTC().Format(time.RFC3339)
	return r.Patch(ctx, id, map[string]any{
		"deleted_at": stamp,
		"updated_at": stamp,
	})
}

func (r *ConversationRepo) ListForMember(ctx context.Context, memberID string) ([]models.MemberConversation, error) {
	q := store.Query{
		Select: memberConversationSelect,
		Filters: []store.Filter{
			store.Eq("user_id", memberID),
			store.IsNull("left_at"),
			store.IsNull("conversation.deleted_at"),
		},
	}
	var rows []models.MemberConversation
	if err := r.store.Select(ctx, membershipsTable, q, &rows); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return rows, nil
}

func (r *ConversationRepo) GetForMember(ctx context.Context, memberID, conversationID string) (*models.MemberConversation, error) {
	q := store.Query{
		Select: memberConversationSelect,
		Filters: []store.Filter{
			store.Eq("user_id", memberID),
			store.Eq("conversation_id", conversationID),
			store.IsNull("left_at"),
			store.IsNull("conversation.deleted_at"),
		},
		Limit: 1,
	}
	var rows []models.MemberConversation
	if err := r.store.Select(ctx, membershipsTable, q, &rows); err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ConversationRepo) FindDirectByKey(ctx context.Context, key string) (*models.Conversation, error) {
	q := store.Query{
		Filters: []store.Filter{
			store.Eq("type", models.TypeDirect),
			store.Eq("direct_key", key),
			store.IsNull("deleted_at"),
		},
		Limit: 1,
	}
	var rows []models.Conversation
	if err := r.store.Select(ctx, conversationsTable, q, &rows); err != nil {
		return nil, fmt.Errorf("find direct conversation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
