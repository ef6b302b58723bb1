package repositories

import (
	"context"
	"fmt"

	"messaging-service/internal/models"
	"messaging-service/internal/store"
)

const membershipsTable = "conversation_members"

// MembershipRepository abstracts membership persistence. Removal is a
// hard delete; rows with left_at set are historical and never touched by
// the active-row operations here.
type MembershipRepository interface {
	Insert(ctx context.Context, conversationID, userID, role string) (models.Membership, error)
	ListActive(ctx context.Context, conversationID string) ([]models.Membership, error)
	// ActiveMembership returns the member's active row in the
	// conversation, or nil.
	ActiveMembership(ctx context.Context, conversationID, userID string) (*models.Membership, error)
	// PatchRole updates the role on active rows only and returns the rows
	// actually patched; an empty result means a concurrent change won.
	PatchRole(ctx context.Context, conversationID, userID, role string) ([]models.Membership, error)
	// Delete hard-deletes the membership and returns the removed rows.
	Delete(ctx context.Context, conversationID, userID string) ([]models.Membership, error)
}

// MembershipRepo is the store-backed implementation of MembershipRepository.
type MembershipRepo struct {
	store *store.Client
}

// NewMembershipRepo constructs a MembershipRepo.
func NewMembershipRepo(client *store.Client) *MembershipRepo {
	return &MembershipRepo{store: client}
}

func (r *MembershipRepo) Insert(ctx context.Context, conversationID, userID, role string) (models.Membership, error) {
	payload := map[string]string{
		"conversation_id": conversationID,
		"user_id":         userID,
		"role":            role,
	}
	var rows []models.Membership
	if err := r.store.Insert(ctx, membershipsTable, payload, &rows); err != nil {
		return models.Membership{}, fmt.Errorf("insert membership: %w", err)
	}
	if len(rows) == 0 {
		return models.Membership{}, fmt.Errorf("insert membership: store returned no representation")
	}
	return rows[0], nil
}

func (r *MembershipRepo) ListActive(ctx context.Context, conversationID string) ([]models.Membership, error) {
	q := store.Query{
		Filters: []store.Filter{
			store.Eq("conversation_id", conversationID),
			store.IsNull("left_at"),
		},
	}
	var rows []models.Membership
	if err := r.store.Select(ctx, membershipsTable, q, &rows); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return rows, nil
}

func (r *MembershipRepo) ActiveMembership(ctx context.Context, conversationID, userID string) (*models.Membership, error) {
	q := store.Query{
		Filters: []store.Filter{
			store.Eq("conversation_id", conversationID),
			store.Eq("user_id", userID),
			store.IsNull("left_at"),
		},
		Limit: 1,
	}
	var rows []models.Membership
	if err := r.store.Select(ctx, membershipsTable, q, &rows); err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *MembershipRepo) PatchRole(ctx context.Context, conversationID, userID, role string) ([]models.Membership, error) {
	q := store.Query{
		Filters: []store.Filter{
			store.Eq("conversation_id", conversationID),
			store.Eq("user_id", userID),
			store.IsNull("left_at"),
		},
	}
	var rows []models.Membership
	if err := r.store.Patch(ctx, membershipsTable, q, map[string]string{"role": role}, &rows); err != nil {
		return nil, fmt.Errorf("patch membership role: %w", err)
	}
	return rows, nil
}

func (r *MembershipRepo) Delete(ctx context.Context, conversationID, userID string) ([]models.Membership, error) {
	q := store.Query{
		Filters: []store.Filter{
			store.Eq("conversation_id", conversationID),
			store.Eq("user_id", userID),
		},
	}
	var rows []models.Membership
	if err := r.store.Delete(ctx, membershipsTable, q, &rows); err != nil {
		return nil, fmt.Errorf("delete membership: %w", err)
	}
	return rows, nil
}
