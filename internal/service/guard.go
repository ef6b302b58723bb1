package service

import "messaging-service/internal/models"

// MembershipGuard holds the authorization checks and the last-owner
// protection rule. The guards run against a snapshot read; without a
// store-side transaction two concurrent mutations can both pass, so the
// store's constraints stay authoritative (see infra).
type MembershipGuard struct{}

// AuthorizeMutate requires an owner or admin role for state-changing
// operations.
func (MembershipGuard) AuthorizeMutate(actorRole string) error {
	if !models.CanMutate(actorRole) {
		return E(KindForbidden, "owner or admin role required")
	}
	return nil
}

// AuthorizeView requires any active membership.
func (MembershipGuard) AuthorizeView(hasActiveMembership bool) error {
	if !hasActiveMembership {
		return E(KindForbidden, "active membership required")
	}
	return nil
}

// GuardRoleChange rejects demoting the sole active owner: every
// non-deleted conversation keeps at least one active owner.
func (MembershipGuard) GuardRoleChange(currentRole, targetRole string, activeOwners int) error {
	if currentRole == models.RoleOwner && targetRole != models.RoleOwner && activeOwners <= 1 {
		return E(KindConflict, "conversation must keep at least one owner")
	}
	return nil
}

// GuardRemoval rejects removing the sole active owner, for any actor
// including the owner removing themself.
func (MembershipGuard) GuardRemoval(role string, activeOwners int) error {
	if role == models.RoleOwner && activeOwners <= 1 {
		return E(KindConflict, "cannot remove the last owner")
	}
	return nil
}
