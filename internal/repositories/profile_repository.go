package repositories

import (
	"context"
	"fmt"

	"messaging-service/internal/models"
	"messaging-service/internal/store"
)

const profilesTable = "profiles"

// ProfileRepository reads member profiles. Pure lookups, no mutation.
type ProfileRepository interface {
	// Get returns the profile, or nil when no row exists.
	Get(ctx context.Context, id string) (*models.Profile, error)
	Exists(ctx context.Context, id string) (bool, error)
	// FindByExternalID maps an identity-provider user id to a profile.
	FindByExternalID(ctx context.Context, externalID string) (*models.Profile, error)
}

// ProfileRepo is the store-backed implementation of ProfileRepository.
type ProfileRepo struct {
	store *store.Client
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(client *store.Client) *ProfileRepo {
	return &ProfileRepo{store: client}
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*models.Profile, error) {
	q := store.Query{
		Filters: []store.Filter{store.Eq("id", id)},
		Limit:   1,
	}
	var rows []models.Profile
	if err := r.store.Select(ctx, profilesTable, q, &rows); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ProfileRepo) Exists(ctx context.Context, id string) (bool, error) {
	profile, err := r.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return profile != nil, nil
}

func (r *ProfileRepo) FindByExternalID(ctx context.Context, externalID string) (*models.Profile, error) {
	q := store.Query{
		Select:  "id",
		Filters: []store.Filter{store.Eq("auth_id", externalID)},
		Limit:   1,
	}
	var rows []models.Profile
	if err := r.store.Select(ctx, profilesTable, q, &rows); err != nil {
		return nil, fmt.Errorf("find profile by external id: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
