// Package service orchestrates the conversation/membership use cases
// against the remote filtered-query store. Each use case runs as one
// sequential task of independent round trips; there is no cross-call
// transaction and no compensation for partial failure.
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"messaging-service/internal/directkey"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// placeholderName is used when no display name can be derived.
const placeholderName = "Unknown"

// ConversationService composes identity, authorization, dedup and
// repository access into the conversation use cases.
type ConversationService struct {
	conversations repositories.ConversationRepository
	memberships   repositories.MembershipRepository
	profiles      repositories.ProfileRepository
	guard         MembershipGuard
	now           func() time.Time
}

// NewConversationService constructs the orchestrator.
func NewConversationService(
	conversations repositories.ConversationRepository,
	memberships repositories.MembershipRepository,
	profiles repositories.ProfileRepository,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		memberships:   memberships,
		profiles:      profiles,
		now:           time.Now,
	}
}

// CreateConversationInput carries the request fields for conversation
// creation. TargetUserID is required for direct conversations only.
type CreateConversationInput struct {
	Type         string
	Name         *string
	TargetUserID string
}

// CreateConversationResult reports the conversation and whether a new
// row was created. Created=false means an existing direct conversation
// was returned unchanged (idempotent creation).
type CreateConversationResult struct {
	Conversation models.Conversation
	Created      bool
}

// CreateConversation creates a group conversation or creates/returns a
// direct conversation for the canonical pair.
func (s *ConversationService) CreateConversation(ctx context.Context, actorID string, in CreateConversationInput) (CreateConversationResult, error) {
	switch in.Type {
	case models.TypeGroup:
		return s.createGroup(ctx, actorID, in.Name)
	case models.TypeDirect:
		return s.createDirect(ctx, actorID, in.TargetUserID)
	default:
		return CreateConversationResult{}, E(KindInvalidInput, "type must be 'direct' or 'group'")
	}
}

func (s *ConversationService) createGroup(ctx context.Context, actorID string, name *string) (CreateConversationResult, error) {
	conv, err := s.conversations.Create(ctx, models.NewConversation{
		Type:      models.TypeGroup,
		Name:      name,
		CreatedBy: actorID,
	})
	if err != nil {
		return CreateConversationResult{}, infra("create group conversation", err)
	}

	// No rollback is possible: if this insert fails the conversation
	// persists ownerless and the failure is surfaced to the caller.
	if _, err := s.memberships.Insert(ctx, conv.ID, actorID, models.RoleOwner); err != nil {
		log.Printf("conversation %s created without owner membership: %v", conv.ID, err)
		return CreateConversationResult{}, infra("insert owner membership", err)
	}

	return CreateConversationResult{Conversation: conv, Created: true}, nil
}

func (s *ConversationService) createDirect(ctx context.Context, actorID, targetID string) (CreateConversationResult, error) {
	if targetID == "" {
		return CreateConversationResult{}, E(KindInvalidInput, "target_user_id is required for direct conversations")
	}
	if targetID == actorID {
		return CreateConversationResult{}, E(KindInvalidInput, "cannot start a direct conversation with yourself")
	}

	exists, err := s.profiles.Exists(ctx, targetID)
	if err != nil {
		return CreateConversationResult{}, infra("verify target profile", err)
	}
	if !exists {
		return CreateConversationResult{}, E(KindNotFound, "target profile not found")
	}

	key := directkey.Canonical(actorID, targetID)
	existing, err := s.conversations.FindDirectByKey(ctx, key)
	if err != nil {
		return CreateConversationResult{}, infra("look up direct conversation", err)
	}
	if existing != nil {
		return CreateConversationResult{Conversation: *existing, Created: false}, nil
	}

	conv, err := s.conversations.Create(ctx, models.NewConversation{
		Type:      models.TypeDirect,
		DirectKey: &key,
		CreatedBy: actorID,
	})
	if err != nil {
		return CreateConversationResult{}, infra("create direct conversation", err)
	}

	// Creator is owner; the counterpart joins as a plain member.
	if _, err := s.memberships.Insert(ctx, conv.ID, actorID, models.RoleOwner); err != nil {
		log.Printf("conversation %s created without owner membership: %v", conv.ID, err)
		return CreateConversationResult{}, infra("insert owner membership", err)
	}
	if _, err := s.memberships.Insert(ctx, conv.ID, targetID, models.RoleMember); err != nil {
		return CreateConversationResult{}, infra("insert counterpart membership", err)
	}

	return CreateConversationResult{Conversation: conv, Created: true}, nil
}

// ListConversations returns the actor's active, non-deleted conversations
// with display names resolved. A failed per-row enrichment degrades only
// that row.
func (s *ConversationService) ListConversations(ctx context.Context, actorID string) ([]models.ConversationView, error) {
	rows, err := s.conversations.ListForMember(ctx, actorID)
	if err != nil {
		return nil, infra("list conversations", err)
	}

	views := make([]models.ConversationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.enrich(ctx, actorID, row))
	}
	return views, nil
}

// GetConversationByID returns one conversation if the actor holds an
// active membership and it is not soft-deleted.
func (s *ConversationService) GetConversationByID(ctx context.Context, actorID, conversationID string) (models.ConversationView, error) {
	row, err := s.conversations.GetForMember(ctx, actorID, conversationID)
	if err != nil {
		return models.ConversationView{}, infra("get conversation", err)
	}
	if row == nil {
		return models.ConversationView{}, E(KindNotFound, "conversation not found")
	}
	return s.enrich(ctx, actorID, *row), nil
}

// UpdateConversation renames a group conversation. Direct conversations
// have no independently settable name and always reject rename.
func (s *ConversationService) UpdateConversation(ctx context.Context, actorID, conversationID, name string) (models.Conversation, error) {
	row, err := s.conversations.GetForMember(ctx, actorID, conversationID)
	if err != nil {
		return models.Conversation{}, infra("get conversation", err)
	}
	if row == nil {
		return models.Conversation{}, E(KindNotFound, "conversation not found")
	}
	if err := s.guard.AuthorizeMutate(row.Role); err != nil {
		return models.Conversation{}, err
	}
	if row.Conversation.IsDirect() {
		return models.Conversation{}, E(KindConflict, "direct conversations cannot be renamed")
	}

	patched, err := s.conversations.Patch(ctx, conversationID, map[string]any{
		"name":       name,
		"updated_at": s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return models.Conversation{}, infra("patch conversation", err)
	}
	if patched == nil {
		return models.Conversation{}, E(KindNotFound, "conversation not found")
	}
	return *patched, nil
}

// DeleteConversation soft-deletes a conversation. Repeated calls
// re-stamp deleted_at and succeed; rows are never physically removed.
func (s *ConversationService) DeleteConversation(ctx context.Context, actorID, conversationID string) error {
	membership, err := s.memberships.ActiveMembership(ctx, conversationID, actorID)
	if err != nil {
		return infra("get actor membership", err)
	}
	if membership == nil {
		return E(KindNotFound, "conversation not found")
	}
	if err := s.guard.AuthorizeMutate(membership.Role); err != nil {
		return err
	}

	if _, err := s.conversations.SoftDelete(ctx, conversationID, s.now()); err != nil {
		return infra("soft delete conversation", err)
	}
	return nil
}

// AddMember inserts a new member with role=member.
func (s *ConversationService) AddMember(ctx context.Context, actorID, conversationID, userID string) (models.Membership, error) {
	membership, err := s.memberships.ActiveMembership(ctx, conversationID, actorID)
	if err != nil {
		return models.Membership{}, infra("get actor membership", err)
	}
	if membership == nil {
		return models.Membership{}, E(KindNotFound, "conversation not found")
	}
	if err := s.guard.AuthorizeMutate(membership.Role); err != nil {
		return models.Membership{}, err
	}

	exists, err := s.profiles.Exists(ctx, userID)
	if err != nil {
		return models.Membership{}, infra("verify target profile", err)
	}
	if !exists {
		return models.Membership{}, E(KindNotFound, "target profile not found")
	}

	inserted, err := s.memberships.Insert(ctx, conversationID, userID, models.RoleMember)
	if err != nil {
		return models.Membership{}, infra("insert membership", err)
	}
	return inserted, nil
}

// ListMembers returns all active memberships of the conversation.
func (s *ConversationService) ListMembers(ctx context.Context, actorID, conversationID string) ([]models.Membership, error) {
	membership, err := s.memberships.ActiveMembership(ctx, conversationID, actorID)
	if err != nil {
		return nil, infra("get actor membership", err)
	}
	if err := s.guard.AuthorizeView(membership != nil); err != nil {
		return nil, err
	}

	members, err := s.memberships.ListActive(ctx, conversationID)
	if err != nil {
		return nil, infra("list memberships", err)
	}
	return members, nil
}

// UpdateMemberRole changes a member's role, protected by the last-owner
// rule. The patch is filtered to active rows; zero rows patched means a
// concurrent change won and surfaces as NotFound.
func (s *ConversationService) UpdateMemberRole(ctx context.Context, actorID, conversationID, targetID, newRole string) (models.Membership, error) {
	if newRole != models.RoleOwner && newRole != models.RoleMember {
		return models.Membership{}, E(KindInvalidInput, "role must be 'owner' or 'member'")
	}

	actorMembership, err := s.memberships.ActiveMembership(ctx, conversationID, actorID)
	if err != nil {
		return models.Membership{}, infra("get actor membership", err)
	}
	if actorMembership == nil {
		return models.Membership{}, E(KindNotFound, "conversation not found")
	}
	if err := s.guard.AuthorizeMutate(actorMembership.Role); err != nil {
		return models.Membership{}, err
	}

	exists, err := s.profiles.Exists(ctx, targetID)
	if err != nil {
		return models.Membership{}, infra("verify target profile", err)
	}
	if !exists {
		return models.Membership{}, E(KindNotFound, "target profile not found")
	}

	targetMembership, err := s.memberships.ActiveMembership(ctx, conversationID, targetID)
	if err != nil {
		return models.Membership{}, infra("get target membership", err)
	}
	if targetMembership == nil {
		return models.Membership{}, E(KindNotFound, "target is not an active member")
	}

	owners, err := s.countActiveOwners(ctx, conversationID)
	if err != nil {
		return models.Membership{}, err
	}
	if err := s.guard.GuardRoleChange(targetMembership.Role, newRole, owners); err != nil {
		return models.Membership{}, err
	}

	patched, err := s.memberships.PatchRole(ctx, conversationID, targetID, newRole)
	if err != nil {
		return models.Membership{}, infra("patch membership role", err)
	}
	if len(patched) == 0 {
		return models.Membership{}, E(KindNotFound, "membership no longer active")
	}
	return patched[0], nil
}

// RemoveMember hard-deletes a membership. Self-removal requires only
// membership; removing someone else requires owner/admin. Both paths are
// subject to the last-owner rule.
func (s *ConversationService) RemoveMember(ctx context.Context, actorID, conversationID, targetID string) error {
	actorMembership, err := s.memberships.ActiveMembership(ctx, conversationID, actorID)
	if err != nil {
		return infra("get actor membership", err)
	}
	if actorMembership == nil {
		return E(KindNotFound, "conversation not found")
	}
	if targetID != actorID {
		if err := s.guard.AuthorizeMutate(actorMembership.Role); err != nil {
			return err
		}
	}

	exists, err := s.profiles.Exists(ctx, targetID)
	if err != nil {
		return infra("verify target profile", err)
	}
	if !exists {
		return E(KindNotFound, "target profile not found")
	}

	targetMembership, err := s.memberships.ActiveMembership(ctx, conversationID, targetID)
	if err != nil {
		return infra("get target membership", err)
	}
	if targetMembership == nil {
		return E(KindNotFound, "target is not an active member")
	}

	owners, err := s.countActiveOwners(ctx, conversationID)
	if err != nil {
		return err
	}
	if err := s.guard.GuardRemoval(targetMembership.Role, owners); err != nil {
		return err
	}

	removed, err := s.memberships.Delete(ctx, conversationID, targetID)
	if err != nil {
		return infra("delete membership", err)
	}
	if len(removed) == 0 {
		return E(KindNotFound, "membership already removed")
	}
	return nil
}

func (s *ConversationService) countActiveOwners(ctx context.Context, conversationID string) (int, error) {
	members, err := s.memberships.ListActive(ctx, conversationID)
	if err != nil {
		return 0, infra("list memberships", err)
	}
	owners := 0
	for _, m := range members {
		if m.Role == models.RoleOwner {
			owners++
		}
	}
	return owners, nil
}

// enrich resolves the display name for one conversation row. It never
// fails: an unavailable counterpart profile degrades to the placeholder.
func (s *ConversationService) enrich(ctx context.Context, actorID string, row models.MemberConversation) models.ConversationView {
	view := models.ConversationView{
		Conversation: row.Conversation,
		Role:         row.Role,
		JoinedAt:     row.JoinedAt,
		DisplayName:  placeholderName,
	}

	if !row.Conversation.IsDirect() {
		if row.Conversation.Name != nil && *row.Conversation.Name != "" {
			view.DisplayName = *row.Conversation.Name
		}
		return view
	}

	otherID := counterpartID(row.Conversation, actorID)
	view.OtherUserID = otherID
	if otherID == "" {
		return view
	}

	profile, err := s.profiles.Get(ctx, otherID)
	if err != nil || profile == nil {
		if err != nil {
			log.Printf("enrich conversation %s: counterpart profile %s unavailable: %v", row.Conversation.ID, otherID, err)
		}
		return view
	}
	if name := profile.DisplayName(); name != "" {
		view.DisplayName = name
	}
	return view
}

// counterpartID derives the other participant of a direct conversation
// from its canonical pair key.
func counterpartID(conv models.Conversation, actorID string) string {
	if conv.DirectKey != nil {
		parts := strings.SplitN(*conv.DirectKey, ":", 2)
		if len(parts) == 2 {
			if parts[0] == actorID {
				return parts[1]
			}
			return parts[0]
		}
	}
	if conv.CreatedBy != "" && conv.CreatedBy != actorID {
		return conv.CreatedBy
	}
	return ""
}
